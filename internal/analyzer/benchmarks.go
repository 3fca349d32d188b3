package analyzer

// Benchmarks holds the multipliers and thresholds the detectors apply to
// computed spend aggregates. The values are assumed industry averages, not
// derived from the batch, so they are configurable; DefaultBenchmarks returns
// the reference set.
type Benchmarks struct {
	// Duplicate vendors
	DuplicateVendorSavings float64 `mapstructure:"duplicate_vendor_savings" json:"duplicate_vendor_savings"`
	DuplicateHighSavings   float64 `mapstructure:"duplicate_high_savings" json:"duplicate_high_savings"`

	// Off-contract spend
	PreferredSpendShare   float64 `mapstructure:"preferred_spend_share" json:"preferred_spend_share"`
	OffContractPenalty    float64 `mapstructure:"off_contract_penalty" json:"off_contract_penalty"`
	OffContractHighRisk   float64 `mapstructure:"off_contract_high_risk" json:"off_contract_high_risk"`
	OffContractConfidence float64 `mapstructure:"off_contract_confidence" json:"off_contract_confidence"`

	// Price anomalies
	AnomalyMinRecords int     `mapstructure:"anomaly_min_records" json:"anomaly_min_records"`
	AnomalyFence      float64 `mapstructure:"anomaly_fence" json:"anomaly_fence"`
	AnomalyHighExcess float64 `mapstructure:"anomaly_high_excess" json:"anomaly_high_excess"`
	AnomalyConfidence float64 `mapstructure:"anomaly_confidence" json:"anomaly_confidence"`

	// Volume discounts
	VolumeDiscountThreshold float64 `mapstructure:"volume_discount_threshold" json:"volume_discount_threshold"`
	VolumeDiscountRate      float64 `mapstructure:"volume_discount_rate" json:"volume_discount_rate"`
	VolumeHighSavings       float64 `mapstructure:"volume_high_savings" json:"volume_high_savings"`
	VolumeConfidence        float64 `mapstructure:"volume_confidence" json:"volume_confidence"`

	// Tail spend
	TailSpendShare        float64 `mapstructure:"tail_spend_share" json:"tail_spend_share"`
	TailMinTransactions   int     `mapstructure:"tail_min_transactions" json:"tail_min_transactions"`
	TailConsolidationRate float64 `mapstructure:"tail_consolidation_rate" json:"tail_consolidation_rate"`
	TailMediumSavings     float64 `mapstructure:"tail_medium_savings" json:"tail_medium_savings"`
	TailConfidence        float64 `mapstructure:"tail_confidence" json:"tail_confidence"`

	// Categorization
	MajorPurchaseAmount       float64 `mapstructure:"major_purchase_amount" json:"major_purchase_amount"`
	SmallPurchaseAmount       float64 `mapstructure:"small_purchase_amount" json:"small_purchase_amount"`
	ConsolidationMinVendors   int     `mapstructure:"consolidation_min_vendors" json:"consolidation_min_vendors"`
	ConsolidationMinSpend     float64 `mapstructure:"consolidation_min_spend" json:"consolidation_min_spend"`
	ConsolidationRate         float64 `mapstructure:"consolidation_rate" json:"consolidation_rate"`
	ConsolidationHighSavings  float64 `mapstructure:"consolidation_high_savings" json:"consolidation_high_savings"`
	ConsolidationConfidence   float64 `mapstructure:"consolidation_confidence" json:"consolidation_confidence"`
	EfficiencyMinTransactions int     `mapstructure:"efficiency_min_transactions" json:"efficiency_min_transactions"`
	EfficiencyMaxAverage      float64 `mapstructure:"efficiency_max_average" json:"efficiency_max_average"`
	AdminCostPerTransaction   float64 `mapstructure:"admin_cost_per_transaction" json:"admin_cost_per_transaction"`
	EfficiencyMediumCost      float64 `mapstructure:"efficiency_medium_cost" json:"efficiency_medium_cost"`
	EfficiencyConfidence      float64 `mapstructure:"efficiency_confidence" json:"efficiency_confidence"`
}

// DefaultBenchmarks returns the reference benchmark set.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		DuplicateVendorSavings: 0.08,
		DuplicateHighSavings:   10000,

		PreferredSpendShare:   0.8,
		OffContractPenalty:    0.12,
		OffContractHighRisk:   15000,
		OffContractConfidence: 0.85,

		AnomalyMinRecords: 3,
		AnomalyFence:      1.5,
		AnomalyHighExcess: 5000,
		AnomalyConfidence: 0.78,

		VolumeDiscountThreshold: 50000,
		VolumeDiscountRate:      0.05,
		VolumeHighSavings:       8000,
		VolumeConfidence:        0.72,

		TailSpendShare:        0.05,
		TailMinTransactions:   2,
		TailConsolidationRate: 0.12,
		TailMediumSavings:     3000,
		TailConfidence:        0.68,

		MajorPurchaseAmount:       50000,
		SmallPurchaseAmount:       500,
		ConsolidationMinVendors:   3,
		ConsolidationMinSpend:     10000,
		ConsolidationRate:         0.08,
		ConsolidationHighSavings:  5000,
		ConsolidationConfidence:   0.75,
		EfficiencyMinTransactions: 10,
		EfficiencyMaxAverage:      1000,
		AdminCostPerTransaction:   25,
		EfficiencyMediumCost:      1000,
		EfficiencyConfidence:      0.68,
	}
}
