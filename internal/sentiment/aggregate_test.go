package sentiment

import (
	"testing"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

func twoTickerInputs() []*TickerInput {
	aapl := []*domain.ClassifiedTrade{
		mkClassified("AAPL", 1000, 30_000_000, domain.DirectionBuy, 95),
		mkClassified("AAPL", 2000, 10_000_000, domain.DirectionSell, 90),
	}
	aapl[1].IsDarkPool = true

	xom := []*domain.ClassifiedTrade{
		mkClassified("XOM", 1500, 5_000_000, domain.DirectionSell, 95),
		mkClassified("XOM", 2500, 15_000_000, domain.DirectionSell, 77),
	}

	return []*TickerInput{
		{Symbol: "XOM", Sector: "Energy", Trades: xom},
		{Symbol: "AAPL", Sector: "Information Technology", Trades: aapl},
	}
}

func TestAggregate_TickerLevel(t *testing.T) {
	res := Aggregate(twoTickerInputs())

	if len(res.Tickers) != 2 {
		t.Fatalf("got %d tickers, want 2", len(res.Tickers))
	}
	// Sorted by symbol regardless of input order.
	if res.Tickers[0].Symbol != "AAPL" || res.Tickers[1].Symbol != "XOM" {
		t.Fatalf("ticker order = %s, %s", res.Tickers[0].Symbol, res.Tickers[1].Symbol)
	}

	aapl := res.Tickers[0]
	if aapl.TotalValue != 40_000_000 {
		t.Errorf("AAPL total = %v, want 40M", aapl.TotalValue)
	}
	if aapl.Sentiment.Direction != domain.SentimentBullish {
		t.Errorf("AAPL sentiment = %s, want BULLISH", aapl.Sentiment.Direction)
	}
	if aapl.DarkPoolCount != 1 || aapl.DarkPoolValue != 10_000_000 {
		t.Errorf("AAPL dark pool = %d / %v", aapl.DarkPoolCount, aapl.DarkPoolValue)
	}
	if aapl.DarkPoolShare != 0.25 {
		t.Errorf("AAPL dark pool share = %v, want 0.25", aapl.DarkPoolShare)
	}
	if aapl.DarkPool.Direction != domain.SentimentBearish {
		t.Errorf("AAPL dark pool sentiment = %s, want BEARISH", aapl.DarkPool.Direction)
	}
}

func TestAggregate_SectorLevel(t *testing.T) {
	res := Aggregate(twoTickerInputs())

	if len(res.Sectors) != 2 {
		t.Fatalf("got %d sectors, want 2", len(res.Sectors))
	}
	// Sector order is name-sorted.
	if res.Sectors[0].Sector != "Energy" {
		t.Fatalf("first sector = %s, want Energy", res.Sectors[0].Sector)
	}

	energy := res.Sectors[0]
	if energy.TickerCount != 1 || energy.TradeCount != 2 {
		t.Errorf("Energy counts = %d tickers / %d trades", energy.TickerCount, energy.TradeCount)
	}
	if energy.Sentiment.Direction != domain.SentimentBearish {
		t.Errorf("Energy sentiment = %s, want BEARISH", energy.Sentiment.Direction)
	}
}

func TestAggregate_Overall(t *testing.T) {
	res := Aggregate(twoTickerInputs())

	o := res.Overall
	if o.TradeCount != 4 {
		t.Errorf("trade count = %d, want 4", o.TradeCount)
	}
	if o.TotalValue != 60_000_000 {
		t.Errorf("total value = %v, want 60M", o.TotalValue)
	}
	// Buy 30M vs sell 30M across the universe: exact tie is NEUTRAL.
	if o.Sentiment.Direction != domain.SentimentNeutral {
		t.Errorf("overall sentiment = %s, want NEUTRAL", o.Sentiment.Direction)
	}
	// High-confidence leg drops the 77-confidence XOM sell: 30M vs 15M.
	if o.Sentiment.HCDirection != domain.SentimentBullish {
		t.Errorf("overall HC sentiment = %s, want BULLISH", o.Sentiment.HCDirection)
	}
	if o.DarkPoolCount != 1 || o.DarkPoolValue != 10_000_000 {
		t.Errorf("dark pool = %d / %v", o.DarkPoolCount, o.DarkPoolValue)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	inputs := twoTickerInputs()
	reversed := []*TickerInput{inputs[1], inputs[0]}

	a := Aggregate(inputs)
	b := Aggregate(reversed)

	if a.Overall != b.Overall {
		t.Errorf("overall totals differ across input orderings:\n%+v\n%+v", a.Overall, b.Overall)
	}
	for i := range a.Tickers {
		if a.Tickers[i].Symbol != b.Tickers[i].Symbol {
			t.Errorf("ticker order differs at %d: %s vs %s", i, a.Tickers[i].Symbol, b.Tickers[i].Symbol)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil)
	if len(res.Tickers) != 0 || len(res.Sectors) != 0 {
		t.Errorf("empty input produced %d tickers, %d sectors", len(res.Tickers), len(res.Sectors))
	}
	if res.Overall.Sentiment.Direction != domain.SentimentNeutral {
		t.Errorf("empty overall sentiment = %s, want NEUTRAL", res.Overall.Sentiment.Direction)
	}
}
