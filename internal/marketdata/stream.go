package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/universe"
)

// StreamConfig configures stream client behavior.
type StreamConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultStreamConfig returns default stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// StreamClient consumes the live trade and quote stream over a
// websocket, reconnecting and resubscribing on connection loss.
type StreamClient struct {
	endpoint string
	key      string
	secret   string
	config   StreamConfig
	log      zerolog.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	trades chan *domain.Trade
	quotes chan *domain.Quote

	// symbols holds the active subscription for resubscribe after
	// reconnect.
	symbols   []string
	symbolsMu sync.RWMutex

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewStreamClient connects and authenticates against the stream
// endpoint. A nil config uses DefaultStreamConfig.
func NewStreamClient(ctx context.Context, endpoint, key, secret string, config *StreamConfig, log zerolog.Logger) (*StreamClient, error) {
	cfg := DefaultStreamConfig()
	if config != nil {
		cfg = *config
	}

	c := &StreamClient{
		endpoint: endpoint,
		key:      key,
		secret:   secret,
		config:   cfg,
		log:      log,
		// Large buffers absorb bursts; sends block rather than drop.
		trades: make(chan *domain.Trade, 10000),
		quotes: make(chan *domain.Quote, 10000),
		done:   make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// connect establishes the websocket connection and authenticates.
func (c *StreamClient) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	auth := streamRequest{Action: "auth", Key: c.key, Secret: c.secret}
	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := conn.WriteJSON(auth); err != nil {
		conn.Close()
		return fmt.Errorf("write auth: %w", err)
	}

	c.conn = conn
	return nil
}

// Subscribe requests trade and quote events for the given canonical
// symbols, replacing any previous subscription.
func (c *StreamClient) Subscribe(symbols []string) error {
	if c.closed.Load() {
		return fmt.Errorf("client closed")
	}

	provider := make([]string, len(symbols))
	for i, s := range symbols {
		provider[i] = universe.ProviderSymbol(s)
	}

	c.symbolsMu.Lock()
	c.symbols = provider
	c.symbolsMu.Unlock()

	return c.writeSubscribe(provider)
}

func (c *StreamClient) writeSubscribe(symbols []string) error {
	req := streamRequest{Action: "subscribe", Trades: symbols, Quotes: symbols}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// Trades returns the live trade channel. Closed on Close.
func (c *StreamClient) Trades() <-chan *domain.Trade {
	return c.trades
}

// Quotes returns the live quote channel. Closed on Close.
func (c *StreamClient) Quotes() <-chan *domain.Quote {
	return c.quotes
}

// Close shuts the connection down and closes the event channels.
func (c *StreamClient) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.wg.Wait()
	close(c.trades)
	close(c.quotes)
	return nil
}

// readLoop reads stream messages and dispatches them, reconnecting with
// exponential backoff on connection errors.
func (c *StreamClient) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.config.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > c.config.MaxReconnectDelay {
				reconnectDelay = c.config.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = c.config.ReconnectDelay

		c.handleMessage(message)
	}
}

// reconnect re-establishes the connection and replays the subscription.
func (c *StreamClient) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	c.symbolsMu.RLock()
	symbols := make([]string, len(c.symbols))
	copy(symbols, c.symbols)
	c.symbolsMu.RUnlock()

	if len(symbols) > 0 {
		if err := c.writeSubscribe(symbols); err != nil {
			c.log.Warn().Err(err).Msg("resubscribe after reconnect failed")
		}
	}
}

// handleMessage parses one stream frame, an array of typed events.
func (c *StreamClient) handleMessage(message []byte) {
	var events []streamEvent
	if err := json.Unmarshal(message, &events); err != nil {
		c.log.Warn().Err(err).Msg("unparseable stream frame")
		return
	}

	for _, ev := range events {
		switch ev.Type {
		case "t":
			c.dispatchTrade(ev)
		case "q":
			c.dispatchQuote(ev)
		case "error":
			c.log.Error().Int("code", ev.Code).Str("msg", ev.Msg).Msg("stream error")
		}
	}
}

func (c *StreamClient) dispatchTrade(ev streamEvent) {
	trade := &domain.Trade{
		Symbol:      universe.FromProviderSymbol(ev.Symbol),
		TimestampMs: ev.Timestamp.UnixMilli(),
		Price:       ev.Price,
		Size:        ev.Size,
		Notional:    ev.Price * float64(ev.Size),
		Venue:       ev.Exchange,
		AssetClass:  domain.AssetClassEquity,
	}

	// Block until delivered; events are never dropped.
	select {
	case c.trades <- trade:
	case <-c.done:
	}
}

func (c *StreamClient) dispatchQuote(ev streamEvent) {
	quote := &domain.Quote{
		Symbol:      universe.FromProviderSymbol(ev.Symbol),
		TimestampMs: ev.Timestamp.UnixMilli(),
		BidPrice:    ev.BidPrice,
		AskPrice:    ev.AskPrice,
		BidSize:     ev.BidSize,
		AskSize:     ev.AskSize,
	}

	select {
	case c.quotes <- quote:
	case <-c.done:
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (c *StreamClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// The read loop owns reconnects.
					c.log.Debug().Err(err).Msg("ping write failed")
				}
			}
			c.connMu.Unlock()
		}
	}
}

// Stream wire types.

type streamRequest struct {
	Action string   `json:"action"`
	Key    string   `json:"key,omitempty"`
	Secret string   `json:"secret,omitempty"`
	Trades []string `json:"trades,omitempty"`
	Quotes []string `json:"quotes,omitempty"`
}

type streamEvent struct {
	Type   string `json:"T"`
	Symbol string `json:"S"`

	// Trade fields.
	Price    float64 `json:"p"`
	Size     int64   `json:"s"`
	Exchange string  `json:"x"`

	// Quote fields.
	BidPrice float64 `json:"bp"`
	BidSize  int64   `json:"bs"`
	AskPrice float64 `json:"ap"`
	AskSize  int64   `json:"as"`

	Timestamp time.Time `json:"t"`

	// Control fields.
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
