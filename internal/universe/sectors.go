package universe

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"sync"
)

//go:embed data/sectors.csv
var sectorsCSV []byte

var (
	sectorsOnce sync.Once
	sectorTable map[string]string
	sectorsErr  error
)

// SectorOf returns the GICS sector for a ticker, or "" when unknown.
// Lookups go through Canonical so any share-class spelling resolves.
func SectorOf(ticker string) string {
	sectorsOnce.Do(loadSectors)
	if sectorsErr != nil {
		return ""
	}
	return sectorTable[Canonical(ticker)]
}

func loadSectors() {
	reader := csv.NewReader(bytes.NewReader(sectorsCSV))
	header, err := reader.Read()
	if err != nil {
		sectorsErr = fmt.Errorf("sector table: read header: %w", err)
		return
	}
	if len(header) < 2 || header[0] != "Symbol" || header[1] != "Sector" {
		sectorsErr = fmt.Errorf("sector table: unexpected header %v", header)
		return
	}

	table := make(map[string]string)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			sectorsErr = fmt.Errorf("sector table: read row: %w", err)
			return
		}
		table[Normalize(row[0])] = row[1]
	}
	sectorTable = table
}
