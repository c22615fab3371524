package reporting

import "fmt"

// FormatCurrency renders a notional value compactly ($1.5M, $2.3B).
func FormatCurrency(value float64) string {
	if value < 0 {
		return "-" + FormatCurrency(-value)
	}
	switch {
	case value >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.1fK", value/1_000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

// FormatShares renders a share count compactly (10.0K, 1.2M).
func FormatShares(shares int64) string {
	switch {
	case shares >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(shares)/1_000_000)
	case shares >= 1_000:
		return fmt.Sprintf("%.1fK", float64(shares)/1_000)
	default:
		return fmt.Sprintf("%d", shares)
	}
}
