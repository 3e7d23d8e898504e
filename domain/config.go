package domain

import "time"

const (
	ScopeDefault = "default"
	ScopeStore   = "store"
)

// ConfigValue is one scoped admin setting. A store scoped row overrides the
// default scoped row for the same path.
type ConfigValue struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Scope     string    `gorm:"column:scope;size:16;not null;uniqueIndex:idx_agent_config_scope_path" json:"scope"`
	ScopeID   uint64    `gorm:"column:scope_id;not null;uniqueIndex:idx_agent_config_scope_path" json:"scope_id"`
	Path      string    `gorm:"column:path;size:255;not null;uniqueIndex:idx_agent_config_scope_path" json:"path"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ConfigValue) TableName() string {
	return "agent_config"
}
