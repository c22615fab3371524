package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/universe"
)

// Default configuration values.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultMaxDelay   = 10 * time.Second
	DefaultPageLimit  = 10000
)

const backoffMult = 2.0

// AlpacaClient implements Source against the Alpaca Data API v2.
type AlpacaClient struct {
	baseURL    string
	feed       string
	key        string
	secret     string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
	pageLimit  int
}

// ClientOption configures AlpacaClient.
type ClientOption func(*AlpacaClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *AlpacaClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *AlpacaClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *AlpacaClient) {
		c.retryDelay = d
	}
}

// WithFeed selects the data feed (sip or iex).
func WithFeed(feed string) ClientOption {
	return func(c *AlpacaClient) {
		c.feed = feed
	}
}

// WithPageLimit sets the per-page record limit.
func WithPageLimit(n int) ClientOption {
	return func(c *AlpacaClient) {
		c.pageLimit = n
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *AlpacaClient) {
		c.client = client
	}
}

// NewAlpacaClient creates a Data API client. Key and secret go into the
// APCA auth headers on every request.
func NewAlpacaClient(baseURL, key, secret string, opts ...ClientOption) *AlpacaClient {
	c := &AlpacaClient{
		baseURL:    baseURL,
		feed:       "sip",
		key:        key,
		secret:     secret,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
		pageLimit:  DefaultPageLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wireTrade is one trade record on the Data API v2 wire.
type wireTrade struct {
	Timestamp  time.Time `json:"t"`
	Exchange   string    `json:"x"`
	Price      float64   `json:"p"`
	Size       int64     `json:"s"`
	ID         int64     `json:"i"`
	Conditions []string  `json:"c"`
	Tape       string    `json:"z"`
}

// wireQuote is one quote record on the Data API v2 wire.
type wireQuote struct {
	Timestamp   time.Time `json:"t"`
	AskExchange string    `json:"ax"`
	AskPrice    float64   `json:"ap"`
	AskSize     int64     `json:"as"`
	BidExchange string    `json:"bx"`
	BidPrice    float64   `json:"bp"`
	BidSize     int64     `json:"bs"`
}

type tradesPage struct {
	Trades        []wireTrade `json:"trades"`
	Symbol        string      `json:"symbol"`
	NextPageToken *string     `json:"next_page_token"`
}

type quotesPage struct {
	Quotes        []wireQuote `json:"quotes"`
	Symbol        string      `json:"symbol"`
	NextPageToken *string     `json:"next_page_token"`
}

// GetTrades fetches all trade prints for symbol in [start, end],
// following pagination. The symbol is canonical; conversion to the
// provider spelling happens here.
func (c *AlpacaClient) GetTrades(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Trade, error) {
	provider := universe.ProviderSymbol(symbol)
	path := fmt.Sprintf("/v2/stocks/%s/trades", url.PathEscape(provider))

	var trades []*domain.Trade
	token := ""
	for {
		var page tradesPage
		if err := c.getPage(ctx, path, start, end, token, &page); err != nil {
			return nil, fmt.Errorf("get trades %s: %w", symbol, err)
		}
		for _, wt := range page.Trades {
			trades = append(trades, &domain.Trade{
				Symbol:      symbol,
				TimestampMs: wt.Timestamp.UnixMilli(),
				Price:       wt.Price,
				Size:        wt.Size,
				Notional:    wt.Price * float64(wt.Size),
				Venue:       wt.Exchange,
				AssetClass:  domain.AssetClassEquity,
			})
		}
		if page.NextPageToken == nil || *page.NextPageToken == "" {
			break
		}
		token = *page.NextPageToken
	}
	return trades, nil
}

// GetQuotes fetches all quotes for symbol in [start, end], following
// pagination.
func (c *AlpacaClient) GetQuotes(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Quote, error) {
	provider := universe.ProviderSymbol(symbol)
	path := fmt.Sprintf("/v2/stocks/%s/quotes", url.PathEscape(provider))

	var quotes []*domain.Quote
	token := ""
	for {
		var page quotesPage
		if err := c.getPage(ctx, path, start, end, token, &page); err != nil {
			return nil, fmt.Errorf("get quotes %s: %w", symbol, err)
		}
		for _, wq := range page.Quotes {
			quotes = append(quotes, &domain.Quote{
				Symbol:      symbol,
				TimestampMs: wq.Timestamp.UnixMilli(),
				BidPrice:    wq.BidPrice,
				AskPrice:    wq.AskPrice,
				BidSize:     wq.BidSize,
				AskSize:     wq.AskSize,
			})
		}
		if page.NextPageToken == nil || *page.NextPageToken == "" {
			break
		}
		token = *page.NextPageToken
	}
	return quotes, nil
}

// getPage performs one paginated GET with retries and exponential
// backoff. Rate-limit rejections and server errors are retried; client
// errors are not.
func (c *AlpacaClient) getPage(ctx context.Context, path string, start, end time.Time, pageToken string, out interface{}) error {
	q := url.Values{}
	q.Set("start", start.UTC().Format(time.RFC3339Nano))
	q.Set("end", end.UTC().Format(time.RFC3339Nano))
	q.Set("limit", strconv.Itoa(c.pageLimit))
	q.Set("feed", c.feed)
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	endpoint := c.baseURL + path + "?" + q.Encode()

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("APCA-API-KEY-ID", c.key)
		req.Header.Set("APCA-API-SECRET-KEY", c.secret)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = ErrRateLimited
			continue
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server status %d: %s", resp.StatusCode, string(body))
			continue
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
