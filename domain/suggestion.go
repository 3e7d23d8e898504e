package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Suggestion struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64    `gorm:"column:product_id;not null;index" json:"product_id"`
	Question  string    `gorm:"column:question;type:text;not null" json:"question"`
	Priority  int       `gorm:"column:priority;not null" json:"priority"`
	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Suggestion) TableName() string {
	return "agent_suggestions"
}

// SuggestionView holds the suggestion ids one identity has already been shown
// for one product.
type SuggestionView struct {
	ID                uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID         uint64         `gorm:"column:product_id;not null;index" json:"product_id"`
	CustomerID        *uint64        `gorm:"column:customer_id;index" json:"customer_id"`
	SessionID         string         `gorm:"column:session_id;size:128;index" json:"session_id"`
	ViewedSuggestions datatypes.JSON `gorm:"column:viewed_suggestions" json:"viewed_suggestions"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SuggestionView) TableName() string {
	return "agent_suggestion_views"
}

func (v SuggestionView) ViewedIDs() ([]uint64, error) {
	if len(v.ViewedSuggestions) == 0 {
		return []uint64{}, nil
	}
	var ids []uint64
	if err := json.Unmarshal(v.ViewedSuggestions, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (v *SuggestionView) SetViewedIDs(ids []uint64) error {
	if ids == nil {
		ids = []uint64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	v.ViewedSuggestions = datatypes.JSON(raw)
	return nil
}
