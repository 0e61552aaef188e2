package value

import (
	"strings"

	"auction_scout/pkg/errcodes"

	"git.appkode.ru/pub/go/failure"
)

// ProductQuery — запрос ресерча: либо UPC, либо name, либо brand+model.
type ProductQuery struct {
	UPC   string
	Name  string
	Brand string
	Model string
}

func (q ProductQuery) Validate() error {
	if q.UPC != "" || q.Name != "" || (q.Brand != "" && q.Model != "") {
		return nil
	}

	return failure.NewInvalidArgumentError(
		"query needs upc, name or brand+model",
		failure.WithCode(errcodes.InvalidQuery),
	)
}

// SearchTerms собирает поисковую строку так же, как её строит ресерч
// по маркетплейсам: name brand model upc, пустые части пропускаются.
func (q ProductQuery) SearchTerms() string {
	parts := make([]string, 0, 4)

	for _, p := range []string{q.Name, q.Brand, q.Model, q.UPC} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, " ")
}

func (q ProductQuery) String() string {
	if q.UPC != "" {
		return "upc:" + q.UPC
	}

	return q.SearchTerms()
}
