package marketplace

import (
	"context"
	"net/url"
	"time"

	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
)

const amazonSearchURL = "https://www.amazon.com/s"

// AmazonClient тянет поисковую выдачу Amazon. Продаж Amazon не
// публикует, так что все записи — активные листинги.
type AmazonClient struct {
	Client
}

func NewAmazonClient(parser Parser, timeout time.Duration, logFieldMaxLen int) *AmazonClient {
	return &AmazonClient{Client: newClient(parser, timeout, logFieldMaxLen)}
}

func (c *AmazonClient) Source() value.Source {
	return value.SourceAmazon
}

func (c *AmazonClient) Fetch(ctx context.Context, query value.ProductQuery) ([]entity.RawObservation, error) {
	return c.fetchPage(ctx, c.searchURL(query), value.SourceAmazon, value.StatusActive)
}

func (c *AmazonClient) searchURL(query value.ProductQuery) string {
	params := url.Values{}
	params.Set("k", query.SearchTerms())
	params.Set("sort", "price-asc-rank")

	return amazonSearchURL + "?" + params.Encode()
}
