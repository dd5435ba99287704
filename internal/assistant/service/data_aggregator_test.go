package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataAggregator_AllSourcesSucceed(t *testing.T) {
	price, market, news := healthyRepos()
	agg := NewDataAggregator(testConfig(), logger.NewNop(), metrics.New(), price, market, news)

	result, err := agg.Aggregate(context.Background(), bitcoin(), time.Second)
	require.NoError(t, err)

	assert.Equal(t, bitcoin(), result.Asset)
	assert.NotNil(t, result.Price)
	assert.NotNil(t, result.Market)
	assert.Len(t, result.News, 5)
	assert.Empty(t, result.Failures)
	assert.Empty(t, result.Missing())
}

func TestDataAggregator_PriceTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Aggregator.PriceTimeout = 20 * time.Millisecond

	price, market, news := healthyRepos()
	price.fn = func(ctx context.Context, _ entity.AssetIdentifier) (*entity.PriceSnapshot, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	agg := NewDataAggregator(cfg, logger.NewNop(), nil, price, market, news)

	result, err := agg.Aggregate(context.Background(), bitcoin(), time.Second)
	require.NoError(t, err)

	assert.Nil(t, result.Price)
	assert.NotNil(t, result.Market)
	assert.NotEmpty(t, result.News)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, entity.SourcePrice, result.Failures[0].Source)
	assert.Equal(t, entity.FailureTimeout, result.Failures[0].Kind)
}

func TestDataAggregator_TotalOutage(t *testing.T) {
	price := &fakePriceRepo{fn: func(context.Context, entity.AssetIdentifier) (*entity.PriceSnapshot, error) {
		return nil, fmt.Errorf("failed to fetch ticker: %w", entity.ErrRateLimited)
	}}
	market := &fakeMarketRepo{fn: func(context.Context, entity.AssetIdentifier) (*entity.MarketSnapshot, error) {
		panic("boom")
	}}
	news := &fakeNewsRepo{fn: func(context.Context, entity.AssetIdentifier, int) (entity.NewsDigest, error) {
		return nil, entity.ErrConfigurationMissing
	}}
	agg := NewDataAggregator(testConfig(), logger.NewNop(), nil, price, market, news)

	result, err := agg.Aggregate(context.Background(), bitcoin(), time.Second)
	require.NoError(t, err)

	assert.Nil(t, result.Price)
	assert.Nil(t, result.Market)
	assert.NotNil(t, result.News)
	assert.Empty(t, result.News)

	require.Len(t, result.Failures, 3)
	assert.Equal(t, entity.SourcePrice, result.Failures[0].Source)
	assert.Equal(t, entity.FailureRateLimited, result.Failures[0].Kind)
	assert.Equal(t, entity.SourceMarket, result.Failures[1].Source)
	assert.Equal(t, entity.FailureInternal, result.Failures[1].Kind)
	assert.Contains(t, result.Failures[1].Reason, "panic: boom")
	assert.Equal(t, entity.SourceNews, result.Failures[2].Source)
	assert.Equal(t, entity.FailureConfigurationMissing, result.Failures[2].Kind)
}

func TestDataAggregator_OverallDeadlineReturnsPartialResult(t *testing.T) {
	cfg := testConfig()
	cfg.Aggregator.NewsTimeout = 0

	release := make(chan struct{})
	defer close(release)

	price, market, news := healthyRepos()
	news.fn = func(context.Context, entity.AssetIdentifier, int) (entity.NewsDigest, error) {
		<-release
		return sampleNews(1), nil
	}
	agg := NewDataAggregator(cfg, logger.NewNop(), nil, price, market, news)

	start := time.Now()
	result, err := agg.Aggregate(context.Background(), bitcoin(), 50*time.Millisecond)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.NotNil(t, result.Price)
	assert.NotNil(t, result.Market)
	assert.Empty(t, result.News)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, entity.SourceNews, result.Failures[0].Source)
	assert.Equal(t, entity.FailureTimeout, result.Failures[0].Kind)
}

func TestDataAggregator_TrimsNewsToLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Aggregator.NewsLimit = 3

	price, market, news := healthyRepos()
	news.fn = func(context.Context, entity.AssetIdentifier, int) (entity.NewsDigest, error) {
		return sampleNews(10), nil
	}
	agg := NewDataAggregator(cfg, logger.NewNop(), nil, price, market, news)

	result, err := agg.Aggregate(context.Background(), bitcoin(), time.Second)
	require.NoError(t, err)
	assert.Len(t, result.News, 3)
}

func TestDataAggregator_NilSnapshotIsMalformed(t *testing.T) {
	price, market, news := healthyRepos()
	market.fn = func(context.Context, entity.AssetIdentifier) (*entity.MarketSnapshot, error) {
		return nil, nil
	}
	agg := NewDataAggregator(testConfig(), logger.NewNop(), nil, price, market, news)

	result, err := agg.Aggregate(context.Background(), bitcoin(), time.Second)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, entity.FailureMalformedPayload, result.Failures[0].Kind)
}

func TestDataAggregator_InvalidAsset(t *testing.T) {
	price, market, news := healthyRepos()
	agg := NewDataAggregator(testConfig(), logger.NewNop(), nil, price, market, news)

	_, err := agg.Aggregate(context.Background(), entity.AssetIdentifier{ID: "bitcoin"}, time.Second)
	assert.True(t, errors.Is(err, entity.ErrInvalidAsset))
	assert.Zero(t, price.calls.Load())
	assert.Zero(t, market.calls.Load())
	assert.Zero(t, news.calls.Load())
}

func TestCollectOutcomes_KeepsResultsBufferedAtDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 50; i++ {
		results := make(chan fetchOutcome, 3)
		results <- fetchOutcome{source: entity.SourcePrice, price: samplePrice()}
		results <- fetchOutcome{source: entity.SourceMarket, market: sampleMarket()}
		results <- fetchOutcome{source: entity.SourceNews, news: sampleNews(2)}

		outcomes := collectOutcomes(ctx, results, 3)
		require.Len(t, outcomes, 3)
		assert.NotNil(t, outcomes[entity.SourcePrice].price)
		assert.NotNil(t, outcomes[entity.SourceMarket].market)
	}
}

func TestCollectOutcomes_StopsAtDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	results := make(chan fetchOutcome, 3)
	results <- fetchOutcome{source: entity.SourceNews, news: sampleNews(1)}

	outcomes := collectOutcomes(ctx, results, 3)
	assert.Len(t, outcomes, 1)
	assert.Contains(t, outcomes, entity.SourceNews)
}
