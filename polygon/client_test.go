package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	return &Client{
		baseURL:    server.URL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient("key")
		require.NoError(t, err)
		assert.Equal(t, BaseURL, client.baseURL)
		assert.Equal(t, "key", client.apiKey)
		assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	})

	t.Run("options", func(t *testing.T) {
		client, err := NewClient("key", WithBaseURL("http://localhost:1234"), WithTimeout(time.Second))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:1234", client.baseURL)
		assert.Equal(t, time.Second, client.httpClient.Timeout)
	})

	t.Run("nil http client", func(t *testing.T) {
		_, err := NewClient("key", WithHTTPClient(nil), WithTimeout(time.Second))
		assert.Error(t, err)
	})
}

func TestNewClientTimeoutWithHTTPClient(t *testing.T) {
	tests := []struct {
		name string
		opts func(hc *http.Client) []Option
	}{
		{"timeout last", func(hc *http.Client) []Option {
			return []Option{WithHTTPClient(hc), WithTimeout(2 * time.Second)}
		}},
		{"timeout first", func(hc *http.Client) []Option {
			return []Option{WithTimeout(2 * time.Second), WithHTTPClient(hc)}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &http.Transport{}
			hc := &http.Client{Transport: transport}

			client, err := NewClient("key", tt.opts(hc)...)
			require.NoError(t, err)
			assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
			assert.Same(t, transport, client.httpClient.Transport)

			// caller's client is left alone
			assert.NotSame(t, hc, client.httpClient)
			assert.Equal(t, time.Duration(0), hc.Timeout)
		})
	}
}

func TestOptionTicker(t *testing.T) {
	assert.Equal(t, "O:AAPL250117C00150000", OptionTicker("AAPL250117C00150000"))
	assert.Equal(t, "O:AAPL250117C00150000", OptionTicker("O:AAPL250117C00150000"))
}

func TestGetOptionContract_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/reference/options/contracts/O:AAPL250117C00150000", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"request_id": "abc",
			"status": "OK",
			"results": {
				"cfi": "OCASPS",
				"contract_type": "call",
				"exercise_style": "american",
				"expiration_date": "2025-01-17",
				"primary_exchange": "BATO",
				"shares_per_contract": 100,
				"strike_price": 150,
				"ticker": "O:AAPL250117C00150000",
				"underlying_ticker": "AAPL",
				"additional_underlyings": [{"amount": 44, "type": "equity", "underlying": "VMW"}]
			}
		}`))
	})

	oc, err := client.GetOptionContract(context.Background(), "AAPL250117C00150000")
	require.NoError(t, err)
	assert.True(t, oc.IsCall())
	assert.Equal(t, "2025-01-17", oc.ExpirationDate)
	assert.Equal(t, 150.0, oc.StrikePrice)
	assert.Equal(t, 100, oc.SharesPerContract)
	assert.Equal(t, "AAPL", oc.UnderlyingTicker)
	require.Len(t, oc.AdditionalUnderlyings, 1)
	assert.Equal(t, "VMW", oc.AdditionalUnderlyings[0].Underlying)
}

func TestGetOptionContract_BadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ERROR", "request_id": "x"}`))
	})

	_, err := client.GetOptionContract(context.Background(), "AAPL250117C00150000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadStatus))
}

func TestGetOptionContract_MissingResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK"}`))
	})

	_, err := client.GetOptionContract(context.Background(), "X")
	assert.True(t, errors.Is(err, ErrNoResults))
}

func TestGetOptionContract_EmptyTicker(t *testing.T) {
	client, err := NewClient("key")
	require.NoError(t, err)
	_, err = client.GetOptionContract(context.Background(), "")
	assert.Error(t, err)
}

func TestGetDailyBars_Success(t *testing.T) {
	mockResponse := aggsResponse{
		Adjusted:     true,
		Status:       "DELAYED",
		Ticker:       "AAPL",
		ResultsCount: 2,
		Results: []aggBar{
			{O: 180, H: 182, L: 179, C: 181, V: 1e6, VW: 180.5, N: 5000, T: 1704171600000},
			{O: 181, H: 185, L: 180, C: 184, V: 2e6, VW: 183.2, N: 7000, T: 1704258000000},
		},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/aggs/ticker/AAPL/range/1/day/2024-01-01/2024-01-31", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("adjusted"))
		assert.Equal(t, "asc", r.URL.Query().Get("sort"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(mockResponse)
	})

	series, err := client.GetDailyBars(context.Background(), BarsRequest{
		Ticker: "AAPL",
		From:   "2024-01-01",
		To:     "2024-01-31",
	})
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, 181.0, series[0].Close)
	assert.Equal(t, 180.0, series[0].Open)
	assert.Equal(t, 5000, series[0].Trades)
	assert.Equal(t, 180.5, series[0].VWAP)
	assert.True(t, time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC).Equal(series[0].Time))
	assert.True(t, series.IsChronological())
}

func TestGetDailyBars_Descending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "desc", r.URL.Query().Get("sort"))
		w.Write([]byte(`{"status":"OK","results":[]}`))
	})

	series, err := client.GetDailyBars(context.Background(), BarsRequest{
		Ticker: "AAPL", From: "2024-01-01", To: "2024-01-31", Sort: Descending,
	})
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestGetDailyBars_Validation(t *testing.T) {
	client, err := NewClient("key")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.GetDailyBars(ctx, BarsRequest{From: "2024-01-01", To: "2024-01-31"})
	assert.Error(t, err)

	_, err = client.GetDailyBars(ctx, BarsRequest{Ticker: "AAPL", From: "01/01/2024", To: "2024-01-31"})
	assert.Error(t, err)

	_, err = client.GetDailyBars(ctx, BarsRequest{Ticker: "AAPL", From: "2024-01-01"})
	assert.Error(t, err)
}

func TestGetDailyBars_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"ERROR","error":"Unknown API Key"}`))
	})

	_, err := client.GetDailyBars(context.Background(), BarsRequest{
		Ticker: "AAPL", From: "2024-01-01", To: "2024-01-31",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadStatus))
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), "Unknown API Key")
}

func TestGetDailyBars_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := client.GetDailyBars(context.Background(), BarsRequest{
		Ticker: "AAPL", From: "2024-01-01", To: "2024-01-31",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestGetPreviousClose(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/aggs/ticker/O:AAPL250117C00150000/prev", r.URL.Path)
		w.Write([]byte(`{"status":"OK","ticker":"O:AAPL250117C00150000","results":[{"c":12.35,"o":12,"h":12.8,"l":11.9,"v":340,"t":1704229200000}]}`))
	})

	bar, err := client.GetPreviousClose(context.Background(), OptionTicker("AAPL250117C00150000"))
	require.NoError(t, err)
	assert.Equal(t, 12.35, bar.Close)
	assert.Equal(t, 340.0, bar.Volume)
}

func TestGetPreviousClose_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[]}`))
	})

	_, err := client.GetPreviousClose(context.Background(), "O:X")
	assert.True(t, errors.Is(err, ErrNoResults))
}

func TestGetPreviousClose_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[{"c":1}]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetPreviousClose(ctx, "O:X")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
