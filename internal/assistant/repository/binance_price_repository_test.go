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

const binanceTicker = `{
	"symbol": "BTCUSDT",
	"priceChange": "1517.45",
	"priceChangePercent": "2.31",
	"weightedAvgPrice": "66800.10",
	"prevClosePrice": "65606.00",
	"lastPrice": "67123.45",
	"lastQty": "0.01",
	"bidPrice": "67123.44",
	"askPrice": "67123.45",
	"openPrice": "65606.00",
	"highPrice": "68000.00",
	"lowPrice": "66000.00",
	"volume": "24567.89",
	"quoteVolume": "1640000000.00",
	"openTime": 1718000000000,
	"closeTime": 1718086400000,
	"firstId": 1,
	"lastId": 2,
	"count": 2
}`

func newBinanceTestRepo(t *testing.T, handler http.HandlerFunc) PriceRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.Binance.BaseURL = server.URL
	repo, err := NewBinancePriceRepository(cfg, logger.NewNop())
	require.NoError(t, err)
	return repo
}

func TestBinanceGetPriceSnapshot(t *testing.T) {
	repo := newBinanceTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/24hr", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(binanceTicker))
	})

	snapshot, err := repo.GetPriceSnapshot(context.Background(), bitcoin())
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", snapshot.Symbol)
	assert.True(t, snapshot.LastPrice.Equal(mustDecimal(t, "67123.45")))
	assert.True(t, snapshot.ChangePercent24h.Equal(mustDecimal(t, "2.31")))
	assert.True(t, snapshot.High24h.Equal(mustDecimal(t, "68000")))
	assert.True(t, snapshot.Low24h.Equal(mustDecimal(t, "66000")))
	assert.True(t, snapshot.Volume24h.Equal(mustDecimal(t, "24567.89")))
	assert.Equal(t, int64(1718086400000), snapshot.FetchedAt.UnixMilli())
}

func TestBinanceRateLimited(t *testing.T) {
	repo := newBinanceTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code":-1003,"msg":"Too many requests."}`))
	})

	_, err := repo.GetPriceSnapshot(context.Background(), bitcoin())
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrSourceUnavailable)
	assert.ErrorIs(t, err, entity.ErrRateLimited)
	assert.Equal(t, entity.FailureRateLimited, entity.ClassifyFailure(err))
}

func TestBinanceUnknownSymbol(t *testing.T) {
	repo := newBinanceTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	_, err := repo.GetPriceSnapshot(context.Background(), bitcoin())
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "Invalid symbol.")
}

func TestBinanceMalformedPrice(t *testing.T) {
	repo := newBinanceTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","lastPrice":"n/a","priceChangePercent":"1","highPrice":"1","lowPrice":"1","volume":"1"}`))
	})

	_, err := repo.GetPriceSnapshot(context.Background(), bitcoin())
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrMalformedPayload)
}

func TestBinanceTickerForOtherSymbol(t *testing.T) {
	repo := newBinanceTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"ETHUSDT","lastPrice":"1","priceChangePercent":"1","highPrice":"1","lowPrice":"1","volume":"1"}`))
	})

	_, err := repo.GetPriceSnapshot(context.Background(), bitcoin())
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrMalformedPayload)
}

func TestBinanceCanceledContext(t *testing.T) {
	repo := newBinanceTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetPriceSnapshot(ctx, bitcoin())
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrSourceUnavailable)
}
