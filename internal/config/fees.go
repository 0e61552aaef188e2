package config

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"auction_scout/internal/domain"
	"auction_scout/pkg/errcodes"
)

// Fees — модель издержек перепродажи. Передаётся в калькулятор значением,
// никаких глобальных настроек: расчёт остаётся чистой функцией.
type Fees struct {
	EBayFeePercent   float64 `env:"EBAY_FEE_PERCENT" envDefault:"13.0" validate:"gte=0,lte=100" json:"ebay_fee_percent"`
	PayPalFeePercent float64 `env:"PAYPAL_FEE_PERCENT" envDefault:"2.9" validate:"gte=0,lte=100" json:"paypal_fee_percent"`
	PayPalFeeFixed   float64 `env:"PAYPAL_FEE_FIXED" envDefault:"0.30" validate:"gte=0" json:"paypal_fee_fixed"`
	ShippingCost     float64 `env:"SHIPPING_COST" envDefault:"0" validate:"gte=0" json:"shipping_cost"`
	TaxRate          float64 `env:"TAX_RATE" envDefault:"8.25" validate:"gte=0,lte=100" json:"tax_rate"`
	MinProfitMargin  float64 `env:"MIN_PROFIT_MARGIN" envDefault:"35.0" validate:"gte=0" json:"min_profit_margin"`
	MaxBidPercent    float64 `env:"MAX_BID_PERCENT" envDefault:"50.0" validate:"gt=0,lte=100" json:"max_bid_percent"`
}

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// Validate проверяет числовые границы. Невалидная конфигурация фатальна
// и обнаруживается до первого запроса, клампинга нет.
func (f Fees) Validate() error {
	if err := validate.Struct(f); err != nil {
		return domain.WrapError(err, errcodes.ConfigurationError, "invalid fee configuration")
	}
	return nil
}

// Set применяет переопределение `config --set key value`. Ключи
// перечислены явно, значение парсится и валидируется сразу.
func (f *Fees) Set(key, rawValue string) error {
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return domain.WrapError(err, errcodes.ConfigurationError,
			fmt.Sprintf("value for %q is not numeric", key))
	}

	target, ok := f.field(key)
	if !ok {
		return domain.NewError(errcodes.UnknownConfigKey, fmt.Sprintf("unknown config key %q", key))
	}

	previous := *target
	*target = value

	if err := f.Validate(); err != nil {
		*target = previous
		return err
	}

	return nil
}

// Get возвращает текущее значение ключа.
func (f *Fees) Get(key string) (float64, error) {
	target, ok := f.field(key)
	if !ok {
		return 0, domain.NewError(errcodes.UnknownConfigKey, fmt.Sprintf("unknown config key %q", key))
	}
	return *target, nil
}

// Keys — разрешённые ключи в порядке отображения.
func Keys() []string {
	return []string{
		"ebay_fee_percent",
		"paypal_fee_percent",
		"paypal_fee_fixed",
		"shipping_cost",
		"tax_rate",
		"min_profit_margin",
		"max_bid_percent",
	}
}

func (f *Fees) field(key string) (*float64, bool) {
	switch key {
	case "ebay_fee_percent":
		return &f.EBayFeePercent, true
	case "paypal_fee_percent":
		return &f.PayPalFeePercent, true
	case "paypal_fee_fixed":
		return &f.PayPalFeeFixed, true
	case "shipping_cost":
		return &f.ShippingCost, true
	case "tax_rate":
		return &f.TaxRate, true
	case "min_profit_margin":
		return &f.MinProfitMargin, true
	case "max_bid_percent":
		return &f.MaxBidPercent, true
	default:
		return nil, false
	}
}
