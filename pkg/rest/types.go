// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// Product Товар из каталога
type Product struct {
	UPC      string `json:"upc"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Model    string `json:"model,omitempty"`
	Category string `json:"category,omitempty"`
}

// PriceStats Сводка по ценам проданных лотов
type PriceStats struct {
	SampleSize int `json:"sampleSize"`

	LowestSold float64 `json:"lowestSold"`
	MedianSold float64 `json:"medianSold"`
	MeanSold   float64 `json:"meanSold"`

	// Confidence one of: low, medium, high
	Confidence string `json:"confidence"`

	OutliersCut    int  `json:"outliersCut,omitempty"`
	ActiveFallback bool `json:"activeFallback,omitempty"`
}

// ProfitEstimate Расчёт прибыли и рекомендованной ставки
type ProfitEstimate struct {
	AcquisitionCost float64 `json:"acquisitionCost"`
	GrossRevenue    float64 `json:"grossRevenue"`
	TotalFees       float64 `json:"totalFees"`
	ShippingCost    float64 `json:"shippingCost"`
	Tax             float64 `json:"tax"`
	NetRevenue      float64 `json:"netRevenue"`
	Profit          float64 `json:"profit"`
	ProfitMarginPct float64 `json:"profitMarginPct"`

	RecommendedMaxBid float64 `json:"recommendedMaxBid"`

	// BindingConstraint one of: margin_floor, bid_cap
	BindingConstraint string `json:"bindingConstraint"`
}

// ResearchReport Полный отчёт по одному товару
type ResearchReport struct {
	Product  Product        `json:"product"`
	Stats    PriceStats     `json:"stats"`
	Estimate ProfitEstimate `json:"estimate"`
}

// ResearchRequest Запрос на ресерч товара
type ResearchRequest struct {
	UPC   string `json:"upc,omitempty"`
	Name  string `json:"name,omitempty"`
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
}

// ProductList Страница каталога
type ProductList struct {
	Items []Product `json:"items"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
