package settings

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type BusinessHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeRules restricts display to a daily UTC window and a set of weekdays.
type TimeRules struct {
	BusinessHours *BusinessHours `json:"business_hours"`
	Days          []string       `json:"days"`
}

func (r TimeRules) Empty() bool {
	return r.BusinessHours == nil && r.Days == nil
}

type VIPRule struct {
	MinOrders int `json:"min_orders"`
}

type NewCustomerRule struct {
	MaxDaysRegistered int `json:"max_days_registered"`
}

// SegmentRules is parsed in full, but only RegisteredOnly is enforced.
type SegmentRules struct {
	RegisteredOnly Flag             `json:"registered_only"`
	VIPCustomers   *VIPRule         `json:"vip_customers"`
	NewCustomers   *NewCustomerRule `json:"new_customers"`
	Configured     bool             `json:"-"`
}

func (r SegmentRules) Empty() bool {
	return !r.Configured
}

type CategoryCondition struct {
	MinProducts *int64 `json:"min_products"`
}

type CategoryRules struct {
	ExcludeCategories  IDList             `json:"exclude_categories"`
	IncludeCategories  IDList             `json:"include_categories"`
	CategoryConditions CategoryConditions `json:"category_conditions"`
}

func (r CategoryRules) Empty() bool {
	return r.ExcludeCategories == nil && r.IncludeCategories == nil && len(r.CategoryConditions) == 0
}

// ConditionFor returns the condition configured for one category id.
func (r CategoryRules) ConditionFor(categoryID uint64) (CategoryCondition, bool) {
	c, ok := r.CategoryConditions[strconv.FormatUint(categoryID, 10)]
	return c, ok
}

// Flag decodes booleans written as true/false, 0/1 or their string forms.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	*f = Flag(parseBool(s))
	return nil
}

// IDList is a list of entity ids that tolerates numeric strings. A nil
// IDList means the list was not configured; a non-array value is ignored.
type IDList []uint64

func (l *IDList) UnmarshalJSON(b []byte) error {
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		*l = nil
		return nil
	}

	out := make(IDList, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case float64:
			if t >= 0 {
				out = append(out, uint64(t))
			}
		case string:
			if id, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64); err == nil {
				out = append(out, id)
			}
		}
	}
	*l = out
	return nil
}

func (l IDList) Contains(id uint64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// CategoryConditions is keyed by category id. Anything other than a JSON
// object decodes to no conditions.
type CategoryConditions map[string]CategoryCondition

func (c *CategoryConditions) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*c = nil
		return nil
	}

	out := make(CategoryConditions, len(raw))
	for k, v := range raw {
		var cond CategoryCondition
		if err := json.Unmarshal(v, &cond); err != nil {
			continue
		}
		out[k] = cond
	}
	*c = out
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseProductTypes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var types []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &types); err != nil {
			return nil
		}
	} else {
		types = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(types))
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseStockPolicy(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return strings.ToLower(strings.Trim(raw, `"`))
	}

	var wrapped struct {
		Policy string `json:"policy"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(wrapped.Policy))
}

func isJSONObject(raw string) bool {
	b := bytes.TrimSpace([]byte(raw))
	return len(b) > 0 && b[0] == '{'
}
