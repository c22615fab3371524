package domain

// Quote represents an NBBO snapshot for a symbol.
// Used only as context for the nearest at-or-before trade.
// Corresponds to tick_quotes table in ClickHouse.
type Quote struct {
	Symbol      string  // canonical ticker
	TimestampMs int64   // quote time, Unix milliseconds
	BidPrice    float64 // best bid
	AskPrice    float64 // best ask
	BidSize     int64   // shares at bid (0 if unknown)
	AskSize     int64   // shares at ask (0 if unknown)
}

// Usable reports whether the quote carries enough context for
// direction inference. Zero or negative sides mean no quote data.
func (q *Quote) Usable() bool {
	return q != nil && q.BidPrice > 0 && q.AskPrice > 0
}
