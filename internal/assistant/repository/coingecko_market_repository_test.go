package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coinGeckoBitcoin = `{
	"id": "bitcoin",
	"symbol": "btc",
	"name": "Bitcoin",
	"market_cap_rank": 1,
	"market_data": {
		"current_price": {"usd": 67123.45},
		"market_cap": {"usd": 1320000000000, "eur": 1200000000000},
		"total_volume": {"usd": 28500000000},
		"price_change_percentage_24h": 2.31,
		"circulating_supply": 19700000,
		"max_supply": 21000000,
		"market_cap_rank": 1
	}
}`

func newCoinGeckoTestRepo(t *testing.T, apiKey string, handler http.HandlerFunc) MarketRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.CoinGecko.BaseURL = server.URL
	cfg.CoinGecko.APIKey = apiKey
	return NewCoinGeckoMarketRepository(cfg, logger.NewNop())
}

func TestCoinGeckoGetMarketSnapshot(t *testing.T) {
	repo := newCoinGeckoTestRepo(t, "demo-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("market_data"))
		assert.Equal(t, "false", r.URL.Query().Get("tickers"))
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(coinGeckoBitcoin))
	})

	snapshot, err := repo.GetMarketSnapshot(context.Background(), bitcoin())
	require.NoError(t, err)

	assert.True(t, snapshot.MarketCap.Equal(mustDecimal(t, "1320000000000")))
	assert.True(t, snapshot.Volume24h.Equal(mustDecimal(t, "28500000000")))
	assert.Equal(t, 1, snapshot.Rank)
	assert.True(t, snapshot.CirculatingSupply.Equal(mustDecimal(t, "19700000")))
	require.NotNil(t, snapshot.MaxSupply)
	assert.True(t, snapshot.MaxSupply.Equal(mustDecimal(t, "21000000")))
	assert.True(t, snapshot.ChangePercent24h.Equal(mustDecimal(t, "2.31")))
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestCoinGeckoNullMaxSupply(t *testing.T) {
	repo := newCoinGeckoTestRepo(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{"id":"ethereum","market_cap_rank":2,"market_data":{"market_cap":{"usd":400000000000},"total_volume":{"usd":15000000000},"circulating_supply":120000000,"max_supply":null}}`))
	})

	snapshot, err := repo.GetMarketSnapshot(context.Background(), bitcoin())
	require.NoError(t, err)
	assert.Nil(t, snapshot.MaxSupply)
	assert.Equal(t, 2, snapshot.Rank)
	assert.True(t, snapshot.ChangePercent24h.IsZero())
}

func TestCoinGeckoErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"status":{"error_code":429}}`, want: entity.ErrRateLimited},
		{name: "unknown coin", status: http.StatusNotFound, body: `{"error":"coin not found"}`, want: entity.ErrUnexpectedStatus},
		{name: "not json", status: http.StatusOK, body: `<html>maintenance</html>`, want: entity.ErrMalformedPayload},
		{name: "no market data", status: http.StatusOK, body: `{"id":"bitcoin"}`, want: entity.ErrMalformedPayload},
		{name: "no usd market cap", status: http.StatusOK, body: `{"id":"bitcoin","market_data":{"market_cap":{"eur":1}}}`, want: entity.ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newCoinGeckoTestRepo(t, "", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := repo.GetMarketSnapshot(context.Background(), bitcoin())
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrSourceUnavailable)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
