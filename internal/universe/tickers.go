// Package universe resolves the ticker universe a scan covers and the
// sector each symbol belongs to. Symbols are kept in a canonical dash
// form ("BRK-B"); provider-specific spellings are converted at the
// boundary.
package universe

import (
	"sort"
	"strings"
)

// FallbackTickers is the static S&P 100 constituent list used when the
// live fetch fails. Last refreshed 2025-12-06.
var FallbackTickers = []string{
	"AAPL", "ABBV", "ABT", "ACN", "ADBE", "AIG", "AMD", "AMGN", "AMT", "AMZN",
	"AVGO", "AXP", "BA", "BAC", "BK", "BKNG", "BLK", "BMY", "BRK-B", "C",
	"CAT", "CL", "CMCSA", "COF", "COP", "COST", "CRM", "CSCO", "CVS", "CVX",
	"DE", "DHR", "DIS", "DUK", "EMR", "FDX", "GD", "GE", "GILD", "GM",
	"GOOGL", "GS", "HD", "HON", "IBM", "INTC", "INTU", "ISRG", "JNJ", "JPM",
	"KO", "LIN", "LLY", "LMT", "LOW", "MA", "MCD", "MDLZ", "MDT", "MET",
	"META", "MMM", "MO", "MRK", "MS", "MSFT", "NEE", "NFLX", "NKE", "NOW",
	"NVDA", "ORCL", "PEP", "PFE", "PG", "PLTR", "PM", "PYPL", "QCOM", "RTX",
	"SBUX", "SCHW", "SO", "SPG", "T", "TGT", "TMO", "TMUS", "TSLA", "TXN",
	"UBER", "UNH", "UNP", "UPS", "USB", "V", "VZ", "WFC", "WMT", "XOM",
}

// SkipTickers are excluded from every scan. BRK-A prints at an extreme
// per-share price that defeats size-based thresholds.
var SkipTickers = map[string]struct{}{
	"BRK-A": {},
}

// providerMap converts canonical dash tickers to the market-data
// provider's dot notation.
var providerMap = map[string]string{
	"BRK-B": "BRK.B",
	"BF-B":  "BF.B",
}

var providerReverse = func() map[string]string {
	m := make(map[string]string, len(providerMap))
	for k, v := range providerMap {
		m[v] = k
	}
	return m
}()

// canonicalCompany collapses alternate share-class tickers that do not
// use a separator, so dashboards never double-count one company.
var canonicalCompany = map[string]string{
	"GOOG":  "GOOGL",
	"GOOGL": "GOOGL",
	"FOX":   "FOXA",
	"FOXA":  "FOXA",
	"NWS":   "NWSA",
	"NWSA":  "NWSA",
}

// Normalize maps any upstream ticker spelling to the canonical form:
// uppercase, trimmed, '.' and '/' share-class separators become '-'.
func Normalize(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	t = strings.ReplaceAll(t, ".", "-")
	return strings.ReplaceAll(t, "/", "-")
}

// Canonical normalizes a ticker and collapses alternate share classes
// to the company's preferred ticker.
func Canonical(ticker string) string {
	t := Normalize(ticker)
	if c, ok := canonicalCompany[t]; ok {
		return c
	}
	return t
}

// ProviderSymbol converts a canonical ticker to the market-data
// provider's spelling.
func ProviderSymbol(ticker string) string {
	if p, ok := providerMap[ticker]; ok {
		return p
	}
	return ticker
}

// FromProviderSymbol converts a provider spelling back to canonical.
func FromProviderSymbol(symbol string) string {
	if c, ok := providerReverse[symbol]; ok {
		return c
	}
	return Normalize(symbol)
}

// Deduplicate canonicalizes tickers, drops share-class duplicates and
// skip-listed symbols, and returns a sorted unique list.
func Deduplicate(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	var out []string
	for _, t := range tickers {
		c := Canonical(t)
		if c == "" {
			continue
		}
		if _, skip := SkipTickers[c]; skip {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
