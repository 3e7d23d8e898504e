package domain

type PageType string

const (
	PageTypeProduct  PageType = "product"
	PageTypeCategory PageType = "category"
	PageTypeCMS      PageType = "cms"
	PageTypeUnknown  PageType = "unknown"
)

// DisplayContext is what the rule engine knows about the page being rendered.
type DisplayContext struct {
	PageType       PageType
	PageIdentifier string
	Identity       Identity
	Params         map[string]string
}

// PageRequest describes a storefront page asking whether to embed the assistant.
type PageRequest struct {
	Module    string
	Action    string
	ProductID *uint64
	Params    map[string]string
	Identity  Identity
}

type DisplayDecision struct {
	Display        bool     `json:"display"`
	PageType       PageType `json:"page_type"`
	PageIdentifier string   `json:"page_identifier"`
}
