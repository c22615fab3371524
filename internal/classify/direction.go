package classify

import (
	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// Confidence assigned to trades printing at or through the quote.
const atQuoteConfidence = 95

// InferDirection estimates trade direction from the prevailing quote using
// the Lee-Ready quote rule. The quote must be the latest one at or before
// the trade; callers resolve that with lookup.QuoteAt.
//
// The trade's position in the spread is p = (price - bid) / (ask - bid),
// clamped to [0, 1]. Prints at or through the ask are buys, at or through
// the bid are sells, both at confidence 95. Inside the spread, confidence
// scales linearly with distance from the midpoint. The 0.3..0.7 band is
// ambiguous and reports UNKNOWN at confidence 50.
//
// A missing or unusable quote (nil, or bid/ask not both positive) is not
// an error: the trade degrades to UNKNOWN with confidence 0 and stays in
// the retained set.
func InferDirection(trade *domain.Trade, quote *domain.Quote) (domain.Direction, int) {
	if !quote.Usable() {
		return domain.DirectionUnknown, 0
	}

	bid, ask := quote.BidPrice, quote.AskPrice
	if ask == bid {
		// Locked market: midpoint ambiguity.
		return domain.DirectionUnknown, 50
	}

	if trade.Price >= ask {
		return domain.DirectionBuy, atQuoteConfidence
	}
	if trade.Price <= bid {
		return domain.DirectionSell, atQuoteConfidence
	}

	p := (trade.Price - bid) / (ask - bid)
	switch {
	case p >= 0.7:
		return domain.DirectionBuy, int(50 + (p-0.5)*90)
	case p <= 0.3:
		return domain.DirectionSell, int(50 + (0.5-p)*90)
	default:
		return domain.DirectionUnknown, 50
	}
}
