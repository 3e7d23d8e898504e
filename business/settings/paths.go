package settings

const (
	PathAgentEnabled = "productinfoagent/general/enabled"

	PathShowOnProductPages  = "productinfoagent/display/show_on_product_pages"
	PathShowOnCategoryPages = "productinfoagent/display/show_on_category_pages"
	PathShowOnCMSPages      = "productinfoagent/display/show_on_cms_pages"

	PathAdvancedRulesEnabled = "productinfoagent/advanced_rules/enable_advanced_rules"
	PathTimeBasedRules       = "productinfoagent/advanced_rules/time_based_rules"
	PathCustomerSegmentRules = "productinfoagent/advanced_rules/customer_segment_rules"
	PathCategoryRules        = "productinfoagent/advanced_rules/category_rules"
	PathProductTypeRules     = "productinfoagent/advanced_rules/product_type_rules"
	PathStockRules           = "productinfoagent/advanced_rules/stock_rules"
	PathAttributeFilters     = "productinfoagent/advanced_rules/attribute_filters"

	PathSmartRotation      = "productinfoagent/suggestions/smart_rotation"
	PathRandomize          = "productinfoagent/suggestions/randomize"
	PathSuggestionsPerLoad = "productinfoagent/suggestions/per_load"
	PathCacheLifetime      = "productinfoagent/suggestions/cache_lifetime"

	PathVoiceEnabled       = "productinfoagent/voice/enabled"
	PathDeepgramAPIKey     = "productinfoagent/voice/deepgram_api_key"
	PathVoiceModel         = "productinfoagent/voice/model"
	PathVoiceCacheLifetime = "productinfoagent/voice/cache_lifetime"
)

const (
	defaultSuggestionsPerLoad = 4
	defaultCacheLifetimeDays  = 7
	defaultVoiceModel         = "nova-2"
	defaultVoiceCacheMinutes  = 60
)

// jsonPaths hold rule blobs; writes to them must be valid JSON.
var jsonPaths = map[string]bool{
	PathTimeBasedRules:       true,
	PathCustomerSegmentRules: true,
	PathCategoryRules:        true,
	PathAttributeFilters:     true,
}

// KnownPath reports whether path is a setting this service reads.
func KnownPath(path string) bool {
	switch path {
	case PathAgentEnabled,
		PathShowOnProductPages, PathShowOnCategoryPages, PathShowOnCMSPages,
		PathAdvancedRulesEnabled, PathTimeBasedRules, PathCustomerSegmentRules,
		PathCategoryRules, PathProductTypeRules, PathStockRules, PathAttributeFilters,
		PathSmartRotation, PathRandomize, PathSuggestionsPerLoad, PathCacheLifetime,
		PathVoiceEnabled, PathDeepgramAPIKey, PathVoiceModel, PathVoiceCacheLifetime:
		return true
	}
	return false
}
