package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type fakePriceRepo struct {
	calls atomic.Int32
	fn    func(ctx context.Context, asset entity.AssetIdentifier) (*entity.PriceSnapshot, error)
}

func (f *fakePriceRepo) GetPriceSnapshot(ctx context.Context, asset entity.AssetIdentifier) (*entity.PriceSnapshot, error) {
	f.calls.Add(1)
	return f.fn(ctx, asset)
}

type fakeMarketRepo struct {
	calls atomic.Int32
	fn    func(ctx context.Context, asset entity.AssetIdentifier) (*entity.MarketSnapshot, error)
}

func (f *fakeMarketRepo) GetMarketSnapshot(ctx context.Context, asset entity.AssetIdentifier) (*entity.MarketSnapshot, error) {
	f.calls.Add(1)
	return f.fn(ctx, asset)
}

type fakeNewsRepo struct {
	calls atomic.Int32
	fn    func(ctx context.Context, asset entity.AssetIdentifier, limit int) (entity.NewsDigest, error)
}

func (f *fakeNewsRepo) GetNews(ctx context.Context, asset entity.AssetIdentifier, limit int) (entity.NewsDigest, error) {
	f.calls.Add(1)
	return f.fn(ctx, asset, limit)
}

type mockAIRepo struct {
	mock.Mock
}

func (m *mockAIRepo) Complete(ctx context.Context, prompt, model string) (string, error) {
	args := m.Called(ctx, prompt, model)
	return args.String(0), args.Error(1)
}

func (m *mockAIRepo) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockAIRepo) Provider() string {
	return "ollama"
}

func (m *mockAIRepo) DefaultModel() string {
	return "llama2"
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Assistant = config.Assistant{
		RequestTimeout:  5 * time.Second,
		DefaultLanguage: "en",
		SuggestionLimit: 5,
	}
	cfg.Aggregator = config.Aggregator{
		Timeout:       2 * time.Second,
		PriceTimeout:  time.Second,
		MarketTimeout: time.Second,
		NewsTimeout:   time.Second,
		NewsLimit:     5,
	}
	cfg.AI = config.AI{
		Provider:    "ollama",
		Model:       "llama2",
		Timeout:     time.Second,
		RetryDelay:  10 * time.Millisecond,
		MaxTokens:   500,
		Temperature: "0.7",
	}
	cfg.Warmer = config.Warmer{Schedule: "@every 1m"}
	return cfg
}

func samplePrice() *entity.PriceSnapshot {
	return &entity.PriceSnapshot{
		Symbol:           "BTCUSDT",
		LastPrice:        decimal.RequireFromString("67123.45"),
		ChangePercent24h: decimal.RequireFromString("2.31"),
		High24h:          decimal.RequireFromString("68000"),
		Low24h:           decimal.RequireFromString("65000"),
		Volume24h:        decimal.RequireFromString("12345.678"),
		FetchedAt:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func sampleMarket() *entity.MarketSnapshot {
	maxSupply := decimal.NewFromInt(21000000)
	return &entity.MarketSnapshot{
		MarketCap:         decimal.RequireFromString("1320000000000"),
		Volume24h:         decimal.RequireFromString("35000000000"),
		Rank:              1,
		CirculatingSupply: decimal.RequireFromString("19700000"),
		MaxSupply:         &maxSupply,
		ChangePercent24h:  decimal.RequireFromString("2.1"),
		FetchedAt:         time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func sampleNews(n int) entity.NewsDigest {
	digest := make(entity.NewsDigest, 0, n)
	base := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		digest = append(digest, entity.NewsItem{
			Title:       "Headline " + string(rune('A'+i)),
			Source:      "CoinDesk",
			PublishedAt: base.Add(-time.Duration(i) * time.Hour),
			URL:         "https://example.com/" + string(rune('a'+i)),
		})
	}
	return digest
}

func healthyRepos() (*fakePriceRepo, *fakeMarketRepo, *fakeNewsRepo) {
	price := &fakePriceRepo{fn: func(context.Context, entity.AssetIdentifier) (*entity.PriceSnapshot, error) {
		return samplePrice(), nil
	}}
	market := &fakeMarketRepo{fn: func(context.Context, entity.AssetIdentifier) (*entity.MarketSnapshot, error) {
		return sampleMarket(), nil
	}}
	news := &fakeNewsRepo{fn: func(_ context.Context, _ entity.AssetIdentifier, limit int) (entity.NewsDigest, error) {
		return sampleNews(limit), nil
	}}
	return price, market, news
}

func bitcoin() entity.AssetIdentifier {
	return entity.AssetIdentifier{ID: "bitcoin", Name: "Bitcoin", Ticker: "BTC", ExchangeSymbol: "BTCUSDT", MarketDataID: "bitcoin"}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}
