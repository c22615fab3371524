package classify

import (
	"sort"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/idhash"
)

// DetectSweeps groups temporally clustered trades into sweep events. A
// sweep is a maximal run of at least minGroupSize trades where every
// consecutive pair is no more than windowSeconds apart. Runs are greedy
// and non-overlapping: a trade belongs to the first maximal run that
// contains it.
//
// Option trades cluster across contracts of the same underlying, so a
// call ladder filled across strikes in one burst is a single sweep.
// Detection mutates the member trades, setting SweepID and IsSweep.
//
// Fewer than minGroupSize trades yields no sweeps, never an error.
func DetectSweeps(trades []*domain.ClassifiedTrade, windowSeconds float64, minGroupSize int) []*domain.SweepGroup {
	if minGroupSize < 2 || len(trades) < minGroupSize {
		return nil
	}

	byUnderlying := make(map[string][]*domain.ClassifiedTrade)
	var order []string
	for _, t := range trades {
		key := t.Trade.UnderlyingSymbol()
		if _, ok := byUnderlying[key]; !ok {
			order = append(order, key)
		}
		byUnderlying[key] = append(byUnderlying[key], t)
	}
	sort.Strings(order)

	windowMs := int64(windowSeconds * 1000)
	var groups []*domain.SweepGroup
	for _, key := range order {
		groups = append(groups, detectRuns(key, byUnderlying[key], windowMs, minGroupSize)...)
	}
	return groups
}

// detectRuns scans one underlying's trades in timestamp order and emits
// each maximal run meeting the group size minimum.
func detectRuns(symbol string, trades []*domain.ClassifiedTrade, windowMs int64, minGroupSize int) []*domain.SweepGroup {
	if len(trades) < minGroupSize {
		return nil
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Trade.TimestampMs < trades[j].Trade.TimestampMs
	})

	var groups []*domain.SweepGroup
	start := 0
	for i := 1; i <= len(trades); i++ {
		if i < len(trades) && trades[i].Trade.TimestampMs-trades[i-1].Trade.TimestampMs <= windowMs {
			continue
		}
		// Run ended at i-1.
		if i-start >= minGroupSize {
			groups = append(groups, buildGroup(symbol, trades[start:i]))
		}
		start = i
	}
	return groups
}

func buildGroup(symbol string, members []*domain.ClassifiedTrade) *domain.SweepGroup {
	first := members[0].Trade.TimestampMs
	sweepID := idhash.ComputeSweepID(symbol, first, len(members))

	group := &domain.SweepGroup{
		SweepID: sweepID,
		Symbol:  symbol,
		StartMs: first,
		EndMs:   members[len(members)-1].Trade.TimestampMs,
	}

	contracts := make(map[string]struct{})
	for _, m := range members {
		id := sweepID
		m.SweepID = &id
		m.IsSweep = true

		group.TradeIDs = append(group.TradeIDs, m.TradeID)
		group.TotalSize += m.Trade.Size
		group.TotalValue += m.Trade.Notional
		if m.Trade.Option != nil {
			contracts[m.Trade.Option.ContractID] = struct{}{}
		}
	}
	group.CrossContract = len(contracts) > 1
	return group
}
