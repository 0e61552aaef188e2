package entity

import "auction_scout/internal/domain/value"

// ProfitEstimate — результат калькуляции для одной цены закупки.
type ProfitEstimate struct {
	AcquisitionCost   float64                 `json:"acquisition_cost"`
	GrossRevenue      float64                 `json:"gross_revenue"`
	TotalFees         float64                 `json:"total_fees"`
	ShippingCost      float64                 `json:"shipping_cost"`
	Tax               float64                 `json:"tax"`
	NetRevenue        float64                 `json:"net_revenue_estimate"`
	Profit            float64                 `json:"profit"`
	ProfitMarginPct   float64                 `json:"profit_margin_pct"`
	RecommendedMaxBid float64                 `json:"recommended_max_bid"`
	BindingConstraint value.BindingConstraint `json:"binding_constraint"`
}

// ResearchReport — плоская запись для CLI-таблицы и CSV-экспорта.
type ResearchReport struct {
	Product  Product
	Stats    AggregateStats
	Estimate ProfitEstimate
}
