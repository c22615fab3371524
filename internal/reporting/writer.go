package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names within the output directory.
const (
	SummaryFile  = "whales_summary.json"
	DetailFile   = "whales_detail.json"
	MarkdownFile = "WHALES_REPORT.md"
	CSVFile      = "whale_trades.csv"
)

// WriteArtifacts writes all four run artifacts to dir, creating it if
// needed. Writes happen once, after the run is fully aggregated.
func WriteArtifacts(dir string, summary *Summary, detail *Detail) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, SummaryFile), summary); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, DetailFile), detail); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, MarkdownFile), []byte(RenderMarkdown(summary)), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, CSVFile), []byte(RenderCSV(detail)), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
