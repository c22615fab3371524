package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func window() (time.Time, time.Time) {
	start := time.Date(2026, 8, 28, 13, 30, 0, 0, time.UTC)
	return start, start.Add(6*time.Hour + 30*time.Minute)
}

func TestGetTrades_Pagination(t *testing.T) {
	var pages atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/stocks/AAPL/trades" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("APCA-API-KEY-ID") != "key" {
			t.Error("missing auth header")
		}

		switch pages.Add(1) {
		case 1:
			if r.URL.Query().Get("page_token") != "" {
				t.Error("first page should not carry a token")
			}
			fmt.Fprint(w, `{"trades":[
				{"t":"2026-08-28T14:00:00.123Z","x":"Q","p":192.5,"s":15000,"i":1,"z":"C"},
				{"t":"2026-08-28T14:00:05.456Z","x":"D","p":192.6,"s":80000,"i":2,"z":"C"}
			],"symbol":"AAPL","next_page_token":"tok1"}`)
		default:
			if r.URL.Query().Get("page_token") != "tok1" {
				t.Errorf("page token = %q", r.URL.Query().Get("page_token"))
			}
			fmt.Fprint(w, `{"trades":[
				{"t":"2026-08-28T14:01:00Z","x":"N","p":192.7,"s":500,"i":3,"z":"C"}
			],"symbol":"AAPL","next_page_token":null}`)
		}
	}))
	defer srv.Close()

	c := NewAlpacaClient(srv.URL, "key", "secret")
	start, end := window()
	trades, err := c.GetTrades(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("GetTrades failed: %v", err)
	}

	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}
	if trades[0].Venue != "Q" || trades[1].Venue != "D" {
		t.Errorf("venues = %s, %s", trades[0].Venue, trades[1].Venue)
	}
	if trades[1].Notional != 192.6*80000 {
		t.Errorf("notional = %v", trades[1].Notional)
	}
	if trades[0].TimestampMs != time.Date(2026, 8, 28, 14, 0, 0, 123_000_000, time.UTC).UnixMilli() {
		t.Errorf("timestamp = %d", trades[0].TimestampMs)
	}
}

func TestGetTrades_ProviderSymbolConversion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/stocks/BRK.B/trades" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"trades":[{"t":"2026-08-28T14:00:00Z","x":"Q","p":470,"s":6000,"i":1,"z":"A"}],"symbol":"BRK.B","next_page_token":null}`)
	}))
	defer srv.Close()

	c := NewAlpacaClient(srv.URL, "key", "secret")
	start, end := window()
	trades, err := c.GetTrades(context.Background(), "BRK-B", start, end)
	if err != nil {
		t.Fatalf("GetTrades failed: %v", err)
	}
	if len(trades) != 1 || trades[0].Symbol != "BRK-B" {
		t.Fatalf("trades = %+v", trades)
	}
}

func TestGetQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quotes":[
			{"t":"2026-08-28T14:00:00Z","ax":"Q","ap":192.55,"as":3,"bx":"N","bp":192.53,"bs":5}
		],"symbol":"AAPL","next_page_token":null}`)
	}))
	defer srv.Close()

	c := NewAlpacaClient(srv.URL, "key", "secret")
	start, end := window()
	quotes, err := c.GetQuotes(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("GetQuotes failed: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
	if quotes[0].BidPrice != 192.53 || quotes[0].AskPrice != 192.55 {
		t.Errorf("quote = %+v", quotes[0])
	}
}

func TestGetPage_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"trades":[],"symbol":"AAPL","next_page_token":null}`)
	}))
	defer srv.Close()

	c := NewAlpacaClient(srv.URL, "key", "secret", WithRetryDelay(time.Millisecond))
	start, end := window()
	if _, err := c.GetTrades(context.Background(), "AAPL", start, end); err != nil {
		t.Fatalf("GetTrades failed after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("got %d calls, want 2", calls.Load())
	}
}

func TestGetPage_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewAlpacaClient(srv.URL, "key", "secret",
		WithMaxRetries(2), WithRetryDelay(time.Millisecond))
	start, end := window()
	_, err := c.GetTrades(context.Background(), "AAPL", start, end)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited in chain", err)
	}
	if !IsTransient(err) {
		t.Error("rate-limit errors should classify as transient")
	}
}

func TestGetPage_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewAlpacaClient(srv.URL, "key", "secret", WithRetryDelay(time.Millisecond))
	start, end := window()
	if _, err := c.GetTrades(context.Background(), "AAPL", start, end); err == nil {
		t.Fatal("expected error on 403")
	}
	if calls.Load() != 1 {
		t.Errorf("got %d calls, want 1 (no retry on client error)", calls.Load())
	}
}
