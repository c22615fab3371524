package lookup

import (
	"errors"
	"sort"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// Errors returned by lookup functions.
var (
	ErrNoQuoteData = errors.New("no quote data available")
)

// QuoteAt returns the prevailing quote at or before target timestamp.
// Quotes must be sorted ascending by TimestampMs.
// Returns (nil, nil) if every quote is after target (valid case: the
// trade classifies as UNKNOWN with zero confidence).
// Returns ErrNoQuoteData if slice is empty.
func QuoteAt(target int64, quotes []*domain.Quote) (*domain.Quote, error) {
	if len(quotes) == 0 {
		return nil, ErrNoQuoteData
	}

	// First index strictly after target; the prevailing quote is at i-1.
	i := sort.Search(len(quotes), func(j int) bool {
		return quotes[j].TimestampMs > target
	})
	if i == 0 {
		return nil, nil
	}
	return quotes[i-1], nil
}

// SortQuotes orders quotes ascending by timestamp in place.
func SortQuotes(quotes []*domain.Quote) {
	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].TimestampMs < quotes[j].TimestampMs
	})
}
