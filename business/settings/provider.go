package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"productInfoAgent/domain"
	"productInfoAgent/pkg/logger"
	"strconv"
	"strings"
)

type ConfigRepository interface {
	GetValue(ctx context.Context, scope string, scopeID uint64, path string) (string, bool, error)
	UpsertValue(ctx context.Context, value domain.ConfigValue) error
	ListValues(ctx context.Context, scope string, scopeID uint64) ([]domain.ConfigValue, error)
}

// Provider reads scoped settings for one store. A store scoped value wins
// over the default scoped value for the same path.
type Provider struct {
	repo    ConfigRepository
	storeID uint64
}

func NewProvider(repo ConfigRepository, storeID uint64) *Provider {
	return &Provider{repo: repo, storeID: storeID}
}

// Value returns the raw value of path and whether any scope defines it.
func (p *Provider) Value(ctx context.Context, path string) (string, bool, error) {
	v, ok, err := p.repo.GetValue(ctx, domain.ScopeStore, p.storeID, path)
	if err != nil {
		return "", false, fmt.Errorf("read %s (store %d): %w", path, p.storeID, err)
	}
	if ok {
		return v, true, nil
	}

	v, ok, err = p.repo.GetValue(ctx, domain.ScopeDefault, 0, path)
	if err != nil {
		return "", false, fmt.Errorf("read %s (default): %w", path, err)
	}
	return v, ok, nil
}

func (p *Provider) Flag(ctx context.Context, path string) (bool, error) {
	v, ok, err := p.Value(ctx, path)
	if err != nil || !ok {
		return false, err
	}
	return parseBool(v), nil
}

// Int returns def when path is unset or not a number.
func (p *Provider) Int(ctx context.Context, path string, def int) (int, error) {
	v, ok, err := p.Value(ctx, path)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}

	n, convErr := strconv.Atoi(strings.TrimSpace(v))
	if convErr != nil {
		logger.Warn("settings_invalid_int", "path", path, "value", v)
		return def, nil
	}
	return n, nil
}

func (p *Provider) String(ctx context.Context, path, def string) (string, error) {
	v, ok, err := p.Value(ctx, path)
	if err != nil {
		return def, err
	}
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	return strings.TrimSpace(v), nil
}

// decodeJSON fills dst from the JSON blob at path. It reports false when the
// blob is unset, empty or malformed; malformed blobs are logged, not returned.
func (p *Provider) decodeJSON(ctx context.Context, path string, dst any) (bool, error) {
	v, ok, err := p.Value(ctx, path)
	if err != nil {
		return false, err
	}
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(v), dst); err != nil {
		logger.Warn("settings_malformed_json", "path", path, "error", err)
		return false, nil
	}
	return true, nil
}

func (p *Provider) AgentEnabled(ctx context.Context) (bool, error) {
	return p.Flag(ctx, PathAgentEnabled)
}

func (p *Provider) ShowOnProductPages(ctx context.Context) (bool, error) {
	return p.Flag(ctx, PathShowOnProductPages)
}

func (p *Provider) ShowOnCategoryPages(ctx context.Context) (bool, error) {
	return p.Flag(ctx, PathShowOnCategoryPages)
}

func (p *Provider) ShowOnCMSPages(ctx context.Context) (bool, error) {
	return p.Flag(ctx, PathShowOnCMSPages)
}

func (p *Provider) AdvancedRulesEnabled(ctx context.Context) (bool, error) {
	return p.Flag(ctx, PathAdvancedRulesEnabled)
}

func (p *Provider) SmartRotationEnabled(ctx context.Context) (bool, error) {
	return p.Flag(ctx, PathSmartRotation)
}

func (p *Provider) RandomizeEnabled(ctx context.Context) (bool, error) {
	return p.Flag(ctx, PathRandomize)
}

// SuggestionsPerLoad falls back to the default for unset or non-positive values.
func (p *Provider) SuggestionsPerLoad(ctx context.Context) (int, error) {
	n, err := p.Int(ctx, PathSuggestionsPerLoad, defaultSuggestionsPerLoad)
	if n <= 0 {
		n = defaultSuggestionsPerLoad
	}
	return n, err
}

// CacheLifetimeDays falls back to the default for unset or non-positive values.
func (p *Provider) CacheLifetimeDays(ctx context.Context) (int, error) {
	n, err := p.Int(ctx, PathCacheLifetime, defaultCacheLifetimeDays)
	if n <= 0 {
		n = defaultCacheLifetimeDays
	}
	return n, err
}

func (p *Provider) VoiceEnabled(ctx context.Context) (bool, error) {
	return p.Flag(ctx, PathVoiceEnabled)
}

func (p *Provider) DeepgramAPIKey(ctx context.Context) (string, error) {
	return p.String(ctx, PathDeepgramAPIKey, "")
}

func (p *Provider) VoiceModel(ctx context.Context) (string, error) {
	return p.String(ctx, PathVoiceModel, defaultVoiceModel)
}

// VoiceCacheLifetimeMinutes falls back to the default for unset or non-positive values.
func (p *Provider) VoiceCacheLifetimeMinutes(ctx context.Context) (int, error) {
	n, err := p.Int(ctx, PathVoiceCacheLifetime, defaultVoiceCacheMinutes)
	if n <= 0 {
		n = defaultVoiceCacheMinutes
	}
	return n, err
}

func (p *Provider) TimeRules(ctx context.Context) (TimeRules, error) {
	var rules TimeRules
	ok, err := p.decodeJSON(ctx, PathTimeBasedRules, &rules)
	if err != nil || !ok {
		return TimeRules{}, err
	}
	return rules, nil
}

func (p *Provider) SegmentRules(ctx context.Context) (SegmentRules, error) {
	var raw map[string]json.RawMessage
	ok, err := p.decodeJSON(ctx, PathCustomerSegmentRules, &raw)
	if err != nil || !ok || len(raw) == 0 {
		return SegmentRules{}, err
	}

	var rules SegmentRules
	if v, ok := raw["registered_only"]; ok {
		_ = rules.RegisteredOnly.UnmarshalJSON(v)
	}
	if v, ok := raw["vip_customers"]; ok {
		var vip VIPRule
		if json.Unmarshal(v, &vip) == nil {
			rules.VIPCustomers = &vip
		}
	}
	if v, ok := raw["new_customers"]; ok {
		nc := NewCustomerRule{MaxDaysRegistered: 30}
		if json.Unmarshal(v, &nc) == nil {
			rules.NewCustomers = &nc
		}
	}
	rules.Configured = true
	return rules, nil
}

func (p *Provider) CategoryRules(ctx context.Context) (CategoryRules, error) {
	var rules CategoryRules
	ok, err := p.decodeJSON(ctx, PathCategoryRules, &rules)
	if err != nil || !ok {
		return CategoryRules{}, err
	}
	return rules, nil
}

// ProductTypes accepts a JSON array or a comma separated list.
func (p *Provider) ProductTypes(ctx context.Context) ([]string, error) {
	v, ok, err := p.Value(ctx, PathProductTypeRules)
	if err != nil || !ok {
		return nil, err
	}
	return parseProductTypes(v), nil
}

// StockPolicy accepts a bare policy name or {"policy": "..."}.
func (p *Provider) StockPolicy(ctx context.Context) (string, error) {
	v, ok, err := p.Value(ctx, PathStockRules)
	if err != nil || !ok {
		return "", err
	}
	return parseStockPolicy(v), nil
}

func (p *Provider) AttributeFilters(ctx context.Context) (map[string]any, error) {
	var filters map[string]any
	ok, err := p.decodeJSON(ctx, PathAttributeFilters, &filters)
	if err != nil || !ok {
		return nil, err
	}
	return filters, nil
}

// Get returns the raw value stored at exactly (scope, scopeID, path).
func (p *Provider) Get(ctx context.Context, scope string, scopeID uint64, path string) (domain.ConfigValue, error) {
	v, ok, err := p.repo.GetValue(ctx, scope, scopeID, path)
	if err != nil {
		return domain.ConfigValue{}, fmt.Errorf("read %s: %w", path, err)
	}
	if !ok {
		return domain.ConfigValue{}, domain.ErrSettingNotFound
	}
	return domain.ConfigValue{Scope: scope, ScopeID: scopeID, Path: path, Value: v}, nil
}

// Put validates and stores one setting.
func (p *Provider) Put(ctx context.Context, value domain.ConfigValue) error {
	if value.Scope != domain.ScopeDefault && value.Scope != domain.ScopeStore {
		return fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidSetting, value.Scope)
	}
	if value.Scope == domain.ScopeDefault {
		value.ScopeID = 0
	}
	if !KnownPath(value.Path) {
		return fmt.Errorf("%w: unknown path %q", domain.ErrInvalidSetting, value.Path)
	}
	if jsonPaths[value.Path] && strings.TrimSpace(value.Value) != "" && !isJSONObject(value.Value) {
		return fmt.Errorf("%w: %s must be a JSON object", domain.ErrInvalidSetting, value.Path)
	}
	if jsonPaths[value.Path] && strings.TrimSpace(value.Value) != "" && !json.Valid([]byte(value.Value)) {
		return fmt.Errorf("%w: %s is not valid JSON", domain.ErrInvalidSetting, value.Path)
	}

	if err := p.repo.UpsertValue(ctx, value); err != nil {
		return fmt.Errorf("store %s: %w", value.Path, err)
	}
	logger.Info("settings_updated", "scope", value.Scope, "scope_id", value.ScopeID, "path", value.Path)
	return nil
}

func (p *Provider) List(ctx context.Context, scope string, scopeID uint64) ([]domain.ConfigValue, error) {
	values, err := p.repo.ListValues(ctx, scope, scopeID)
	if err != nil {
		return nil, fmt.Errorf("list %s settings: %w", scope, err)
	}
	return values, nil
}
