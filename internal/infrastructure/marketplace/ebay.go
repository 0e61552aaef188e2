package marketplace

import (
	"context"
	"net/url"
	"time"

	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
)

const ebaySearchURL = "https://www.ebay.com/sch/i.html"

// EBayClient тянет активные и завершённые листинги поиска eBay.
type EBayClient struct {
	Client
}

func NewEBayClient(parser Parser, timeout time.Duration, logFieldMaxLen int) *EBayClient {
	return &EBayClient{Client: newClient(parser, timeout, logFieldMaxLen)}
}

func (c *EBayClient) Source() value.Source {
	return value.SourceEBay
}

// Fetch возвращает обе выборки одной пачкой: sold — база оценки,
// active — фолбэк, когда продаж не было.
func (c *EBayClient) Fetch(ctx context.Context, query value.ProductQuery) ([]entity.RawObservation, error) {
	sold, err := c.fetchPage(ctx, c.searchURL(query, true), value.SourceEBay, value.StatusSold)
	if err != nil {
		return nil, err
	}

	active, err := c.fetchPage(ctx, c.searchURL(query, false), value.SourceEBay, value.StatusActive)
	if err != nil {
		return nil, err
	}

	return append(sold, active...), nil
}

// searchURL — та же строка запроса, что и в ручном поиске:
// _sop=15 сортирует по цене с доставкой, LH_Sold+LH_Complete дают
// завершённые продажи.
func (c *EBayClient) searchURL(query value.ProductQuery, sold bool) string {
	params := url.Values{}
	params.Set("_nkw", query.SearchTerms())
	params.Set("_sop", "15")

	if sold {
		params.Set("LH_Sold", "1")
		params.Set("LH_Complete", "1")
	}

	return ebaySearchURL + "?" + params.Encode()
}
