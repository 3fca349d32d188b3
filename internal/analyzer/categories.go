package analyzer

// CategoryRule maps a category to the keywords that identify it. Rules are
// tried in order and the first rule with a matching keyword wins.
type CategoryRule struct {
	Category string   `mapstructure:"category" json:"category"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
}

// Fallback category names used when no keyword rule matches.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryMajor         = "Major Purchases"
	CategorySmall         = "Small Purchases"
	CategoryGeneral       = "General Procurement"
)

// DefaultCategoryRules returns the built-in keyword table.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{"IT Hardware", []string{"laptop", "computer", "server", "monitor", "keyboard", "mouse", "printer", "scanner", "tablet", "phone", "hardware", "tech", "dell", "hp", "lenovo", "apple", "microsoft"}},
		{"Software", []string{"license", "subscription", "software", "saas", "cloud", "adobe", "microsoft", "oracle", "salesforce", "zoom", "slack", "office"}},
		{"Office Supplies", []string{"supplies", "paper", "pen", "pencil", "stapler", "folder", "binder", "office", "stationery", "depot", "staples"}},
		{"Professional Services", []string{"consulting", "legal", "accounting", "audit", "advisory", "professional", "services", "lawyer", "consultant"}},
		{"Marketing", []string{"advertising", "marketing", "promotion", "print", "design", "creative", "media", "campaign", "branding"}},
		{"Travel", []string{"travel", "hotel", "flight", "airline", "booking", "expense", "trip", "accommodation"}},
		{"Facilities", []string{"rent", "utilities", "maintenance", "cleaning", "security", "facility", "building", "janitorial"}},
		{"Manufacturing", []string{"materials", "parts", "components", "manufacturing", "production", "industrial", "machinery"}},
		{"Shipping", []string{"shipping", "freight", "logistics", "delivery", "transport", "courier", "fedex", "ups", "dhl"}},
		{"Telecommunications", []string{"phone", "internet", "telecom", "communication", "network", "verizon", "att", "comcast"}},
	}
}

// DefaultCategoryAliases collapses common spellings onto canonical names.
// Keys are in the title-cased form produced by the category normalizer.
func DefaultCategoryAliases() map[string]string {
	return map[string]string{
		"It Equipment":        "IT Hardware",
		"It Hardware":         "IT Hardware",
		"Technology":          "IT Hardware",
		"Office Supply":       "Office Supplies",
		"Supplies":            "Office Supplies",
		"Legal Services":      "Professional Services",
		"Consulting Services": "Professional Services",
	}
}
