package marketplace_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auction_scout/internal/infrastructure/marketplace"
	"auction_scout/internal/domain/value"
)

func TestJSONParserParse(t *testing.T) {
	rq := require.New(t)

	body := `[
		{"title":"KitchenAid KSM150 stand mixer","brand":"KitchenAid","model":"KSM150","upc":"012345678905","price":180.5,"condition":"used","observed_at":"2026-03-13T10:00:00Z"},
		{"title":"KitchenAid KSM150 new in box","price":249.99,"condition":"new"},
		{"title":"broken listing","price":0},
		{"title":"mystery condition","price":42,"condition":"refurbished"}
	]`

	parser := marketplace.NewJSONParser()

	raws, err := parser.Parse(strings.NewReader(body), value.SourceEBay, value.StatusSold)
	rq.NoError(err)

	// запись с нулевой ценой выброшена
	rq.Len(raws, 3)

	rq.Equal("012345678905", raws[0].UPC)
	rq.Equal(180.5, raws[0].Price)
	rq.Equal(value.ConditionUsed, raws[0].Condition)
	rq.Equal(value.StatusSold, raws[0].Status)
	rq.Equal(value.SourceEBay, raws[0].Source)
	rq.Equal(time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC), raws[0].ObservedAt)

	rq.Equal(value.ConditionNew, raws[1].Condition)

	// незнакомое состояние нормализуется
	rq.Equal(value.ConditionUnknown, raws[2].Condition)
}

func TestJSONParserInvalidBody(t *testing.T) {
	rq := require.New(t)

	parser := marketplace.NewJSONParser()

	_, err := parser.Parse(strings.NewReader("<html>blocked</html>"), value.SourceAmazon, value.StatusActive)
	rq.Error(err)
}
