package domain

// AssetClass distinguishes equity prints from option prints.
type AssetClass string

const (
	AssetClassEquity AssetClass = "EQUITY"
	AssetClassOption AssetClass = "OPTION"
)

// String returns the string representation of AssetClass.
func (a AssetClass) String() string {
	return string(a)
}

// IsValid checks if the asset class is a valid value.
func (a AssetClass) IsValid() bool {
	return a == AssetClassEquity || a == AssetClassOption
}

// OptionType is the option contract side.
type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// Moneyness describes an option strike relative to the underlying spot
// at trade time.
type Moneyness string

const (
	MoneynessITM Moneyness = "ITM"
	MoneynessATM Moneyness = "ATM"
	MoneynessOTM Moneyness = "OTM"
)

// Trade represents a single raw print from the market data source.
// Immutable once fetched; classification wraps it, never mutates it.
// Corresponds to tick_trades table in ClickHouse.
type Trade struct {
	Symbol      string     // canonical ticker (BRK-B form)
	TimestampMs int64      // execution time, Unix milliseconds
	Price       float64    // execution price
	Size        int64      // shares (equity) or contracts (option)
	Notional    float64    // price * size (* contract multiplier for options)
	Venue       string     // reporting venue/exchange code
	AssetClass  AssetClass // EQUITY | OPTION
	Option      *OptionDetails
}

// OptionDetails carries option-only fields; nil for equity trades.
type OptionDetails struct {
	ContractID   string     // OCC-style contract identifier
	Underlying   string     // underlying equity symbol
	Strike       float64    // strike price
	ExpirationMs int64      // contract expiration, Unix milliseconds
	Type         OptionType // CALL | PUT
	Moneyness    Moneyness  // relative to underlying spot at trade time
}

// UnderlyingSymbol returns the symbol sweeps group on: the option
// underlying for option trades, the trade symbol otherwise.
func (t *Trade) UnderlyingSymbol() string {
	if t.AssetClass == AssetClassOption && t.Option != nil && t.Option.Underlying != "" {
		return t.Option.Underlying
	}
	return t.Symbol
}
