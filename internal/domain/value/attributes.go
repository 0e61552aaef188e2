package value

// Source — маркетплейс, с которого пришло ценовое наблюдение.
type Source string

const (
	SourceEBay   Source = "ebay"
	SourceAmazon Source = "amazon"
)

func (s Source) String() string {
	return string(s)
}

func (s Source) Valid() bool {
	return s == SourceEBay || s == SourceAmazon
}

// Sources возвращает поддерживаемые источники в стабильном порядке.
func Sources() []Source {
	return []Source{SourceEBay, SourceAmazon}
}

type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionUsed    Condition = "used"
	ConditionUnknown Condition = "unknown"
)

func (c Condition) String() string {
	return string(c)
}

// ListingStatus — Sold это реализованная цена, Active лишь запрос продавца.
type ListingStatus string

const (
	StatusSold   ListingStatus = "sold"
	StatusActive ListingStatus = "active"
)

func (s ListingStatus) String() string {
	return string(s)
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

func (c Confidence) String() string {
	return string(c)
}

// BindingConstraint показывает, какой лимит урезал рекомендованную ставку.
type BindingConstraint string

const (
	ConstraintMarginFloor BindingConstraint = "margin_floor"
	ConstraintBidCap      BindingConstraint = "bid_cap"
)

func (b BindingConstraint) String() string {
	return string(b)
}
