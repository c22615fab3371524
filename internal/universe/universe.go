package universe

import (
	"context"
	"net/http"
)

// Universe is the resolved symbol list a scan covers, with sector
// lookups. It satisfies the scanner's universe boundary.
type Universe struct {
	symbols []string
}

// New builds a universe from raw tickers, applying canonicalization,
// deduplication, the skip list, and caller exclusions.
func New(tickers []string, exclusions []string) *Universe {
	excluded := make(map[string]struct{}, len(exclusions))
	for _, e := range exclusions {
		excluded[Canonical(e)] = struct{}{}
	}

	var symbols []string
	for _, t := range Deduplicate(tickers) {
		if _, skip := excluded[t]; skip {
			continue
		}
		symbols = append(symbols, t)
	}
	return &Universe{symbols: symbols}
}

// Resolve fetches the live S&P 100 constituents, falling back to the
// static list when the fetch fails. The returned bool reports whether
// the live list was used.
func Resolve(ctx context.Context, client *http.Client, exclusions []string) (*Universe, bool) {
	return resolveFrom(ctx, client, WikiURL, exclusions)
}

func resolveFrom(ctx context.Context, client *http.Client, url string, exclusions []string) (*Universe, bool) {
	if tickers, err := fetchFrom(ctx, client, url); err == nil {
		return New(tickers, exclusions), true
	}
	return New(FallbackTickers, exclusions), false
}

// ListSymbols returns the scan universe in sorted order. The slice is a
// copy; callers may reorder it freely.
func (u *Universe) ListSymbols() []string {
	out := make([]string, len(u.symbols))
	copy(out, u.symbols)
	return out
}

// SectorOf returns the GICS sector for a symbol, or "" when unknown.
func (u *Universe) SectorOf(symbol string) string {
	return SectorOf(symbol)
}
