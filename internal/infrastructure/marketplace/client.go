package marketplace

import (
	"context"
	"io"
	"net/http"
	"time"

	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
	"auction_scout/pkg/httpx"
	"auction_scout/pkg/logx"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Parser извлекает записи из тела ответа источника. Устойчивость к
// вёрстке — явный не-goal, поэтому разбор вынесен за интерфейс: в проде
// это парсер выдачи, в тестах — фикстуры.
type Parser interface {
	Parse(r io.Reader, source value.Source, status value.ListingStatus) ([]entity.RawObservation, error)
}

// Client — общая HTTP-часть адаптеров: логирующий транспорт, таймаут,
// единый User-Agent.
type Client struct {
	httpClient *http.Client
	parser     Parser
	userAgent  string
	now        func() time.Time
}

func newClient(parser Parser, timeout time.Duration, logFieldMaxLen int) Client {
	return Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
				httpx.WithLogFieldMaxLen(logFieldMaxLen),
			),
		},
		parser:    parser,
		userAgent: defaultUserAgent,
		now:       time.Now,
	}
}

// fetchPage выполняет один GET и разбирает ответ. Любая сетевая или
// статусная проблема — транзиентный FetchFailed, ретраи на совести
// оркестратора.
func (c Client) fetchPage(ctx context.Context, url string, source value.Source, status value.ListingStatus) ([]entity.RawObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build request")
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.FetchFailed, "request to "+source.String()+" failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewError(errcodes.FetchFailed,
			source.String()+" returned status "+resp.Status)
	}

	raws, err := c.parser.Parse(resp.Body, source, status)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.FetchFailed, "failed to parse "+source.String()+" response")
	}

	for i := range raws {
		raws[i].Source = source
		raws[i].Status = status
		if raws[i].ObservedAt.IsZero() {
			raws[i].ObservedAt = c.now()
		}
	}

	return raws, nil
}
