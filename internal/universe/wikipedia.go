package universe

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WikiURL is the S&P 100 constituents page scraped for the live universe.
const WikiURL = "https://en.wikipedia.org/wiki/S%26P_100"

// A constituents table must have at least this many rows to be trusted.
// The index holds ~101 names including both Alphabet classes.
const minConstituents = 95

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/122.0 Safari/537.36"

// FetchSP100 scrapes the current S&P 100 constituents from Wikipedia and
// returns them deduplicated in canonical form. Callers fall back to
// FallbackTickers on error.
func FetchSP100(ctx context.Context, client *http.Client) ([]string, error) {
	return fetchFrom(ctx, client, WikiURL)
}

func fetchFrom(ctx context.Context, client *http.Client, url string) ([]string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("universe: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("universe: fetch constituents: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("universe: fetch constituents: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("universe: parse page: %w", err)
	}

	tickers := extractConstituents(doc)
	if len(tickers) < minConstituents {
		return nil, fmt.Errorf("universe: constituents table not found (got %d symbols)", len(tickers))
	}
	return Deduplicate(tickers), nil
}

// extractConstituents finds the wikitable with a Symbol column and enough
// rows, and pulls the symbol cell from each row.
func extractConstituents(doc *goquery.Document) []string {
	var tickers []string
	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		symbolCol := -1
		table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
			if strings.EqualFold(strings.TrimSpace(th.Text()), "Symbol") {
				symbolCol = i
			}
		})
		if symbolCol < 0 {
			return true
		}

		var found []string
		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				return
			}
			cell := tr.Find("td").Eq(symbolCol)
			if symbol := strings.TrimSpace(cell.Text()); symbol != "" {
				found = append(found, symbol)
			}
		})
		if len(found) < minConstituents {
			return true
		}
		tickers = found
		return false
	})
	return tickers
}
