package analyzer

// Record is one procurement transaction as produced by ingestion.
// The analyzer treats records as read-only.
type Record struct {
	Vendor   string  `json:"vendor"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	PONumber string  `json:"po_number"`
}

// InsightType tags the kind of finding an Insight carries.
type InsightType string

const (
	TypeDuplicateVendors      InsightType = "duplicate_vendors"
	TypeOffContractSpend      InsightType = "off_contract_spend"
	TypePriceAnomaly          InsightType = "price_anomaly"
	TypeVolumeOpportunity     InsightType = "volume_opportunity"
	TypeTailSpend             InsightType = "tail_spend"
	TypeCategoryConsolidation InsightType = "category_consolidation"
	TypeTransactionEfficiency InsightType = "transaction_efficiency"
)

// Priority is the urgency bucket derived from an insight's dollar impact.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Insight is a single computed finding. Exactly one of Savings (opportunity)
// or RiskAmount (exposure) is set. The remaining kind-specific fields are
// populated only for the insight types that use them.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
	Priority    Priority    `json:"priority"`
	Evidence    []string    `json:"evidence"`
	NextStep    string      `json:"next_step"`
	Savings     *float64    `json:"savings,omitempty"`
	RiskAmount  *float64    `json:"risk_amount,omitempty"`

	// duplicate_vendors, category_consolidation
	VendorNames []string `json:"vendor_names,omitempty"`
	TotalSpend  float64  `json:"total_spend,omitempty"`
	Records     int      `json:"records,omitempty"`

	// off_contract_spend
	OffContractSpend float64  `json:"off_contract_spend,omitempty"`
	AffectedVendors  []string `json:"affected_vendors,omitempty"`

	// price_anomaly, category_consolidation, transaction_efficiency
	Category       string   `json:"category,omitempty"`
	OutlierCount   int      `json:"outlier_count,omitempty"`
	ExcessSpend    float64  `json:"excess_spend,omitempty"`
	MedianPrice    float64  `json:"median_price,omitempty"`
	OutlierVendors []string `json:"outlier_vendors,omitempty"`

	// volume_opportunity
	Vendor           string  `json:"vendor,omitempty"`
	AnnualSpend      float64 `json:"annual_spend,omitempty"`
	TransactionCount int     `json:"transaction_count,omitempty"`

	// tail_spend
	TailVendorCount int      `json:"tail_vendor_count,omitempty"`
	TailSpend       float64  `json:"tail_spend,omitempty"`
	TailVendors     []string `json:"tail_vendors,omitempty"`

	// category_consolidation
	VendorCount int      `json:"vendor_count,omitempty"`
	Vendors     []string `json:"vendors,omitempty"`

	// transaction_efficiency
	AvgTransaction float64 `json:"avg_transaction,omitempty"`
	AdminCost      float64 `json:"admin_cost,omitempty"`
}

// SavingsValue returns the savings amount, or 0 for risk-only insights.
func (i *Insight) SavingsValue() float64 {
	if i.Savings == nil {
		return 0
	}
	return *i.Savings
}

// RiskValue returns the risk amount, or 0 for savings insights.
func (i *Insight) RiskValue() float64 {
	if i.RiskAmount == nil {
		return 0
	}
	return *i.RiskAmount
}

// Impact returns whichever dollar figure the insight carries.
func (i *Insight) Impact() float64 {
	if i.Savings != nil {
		return *i.Savings
	}
	return i.RiskValue()
}

// Summary holds the batch-level totals of a full analysis.
type Summary struct {
	TotalSavings    float64 `json:"totalSavings"`
	TotalRisk       float64 `json:"totalRisk"`
	RecordsAnalyzed int     `json:"recordsAnalyzed"`
	AnalysisTimeMs  int64   `json:"analysisTimeMs"`
	Confidence      float64 `json:"confidence"`
}

// PriorityAction is a HIGH priority insight turned into a work item.
type PriorityAction struct {
	Action   string  `json:"action"`
	Impact   float64 `json:"impact"`
	Timeline string  `json:"timeline"`
	Owner    string  `json:"owner"`
}

// ActionPlan is the prioritized follow-up derived from the sorted insights.
type ActionPlan struct {
	ExecutiveSummary string           `json:"executiveSummary"`
	PriorityActions  []PriorityAction `json:"priorityActions"`
	QuickWins        []Insight        `json:"quickWins"`
	CSVExportReady   bool             `json:"csvExportReady"`
}

// AnalysisResult is the output of the full detector pipeline.
type AnalysisResult struct {
	Insights    []Insight  `json:"insights"`
	Summary     Summary    `json:"summary"`
	DataQuality []string   `json:"dataQuality"`
	ActionPlan  ActionPlan `json:"actionPlan"`
}

// DetectorSummary is the reduced summary of a single-detector run.
type DetectorSummary struct {
	TotalSavings    float64 `json:"totalSavings"`
	RecordsAnalyzed int     `json:"recordsAnalyzed"`
}

// DetectorResult wraps the output of one detector invoked on its own.
type DetectorResult struct {
	Insights     []Insight       `json:"insights"`
	Summary      DetectorSummary `json:"summary"`
	AnalysisType Mode            `json:"analysisType"`
}

// CategoryBreakdown is one row of the per-category spend table.
type CategoryBreakdown struct {
	Name               string  `json:"name"`
	TotalSpend         float64 `json:"totalSpend"`
	Percentage         float64 `json:"percentage"`
	TransactionCount   int     `json:"transactionCount"`
	VendorCount        int     `json:"vendorCount"`
	AvgTransactionSize float64 `json:"avgTransactionSize"`
}

// CategorySummary describes the categorized batch as a whole.
type CategorySummary struct {
	TotalCategories  int     `json:"totalCategories"`
	TopCategory      string  `json:"topCategory,omitempty"`
	TopCategorySpend float64 `json:"topCategorySpend,omitempty"`
	TotalSpend       float64 `json:"totalSpend"`
}

// Categorization is the result of CategorizeSpend.
type Categorization struct {
	Insights          []Insight           `json:"insights"`
	CategoryBreakdown []CategoryBreakdown `json:"categoryBreakdown"`
	Summary           CategorySummary     `json:"summary"`
}

// vendorAggregate is the per raw vendor string spend rollup used by the
// off-contract, volume and tail detectors.
type vendorAggregate struct {
	vendor string
	spend  float64
	count  int
}
