package repository

import (
	"context"

	"ai-crypto-assistant/internal/entity"
)

// PriceRepository fetches exchange ticker data.
type PriceRepository interface {
	GetPriceSnapshot(ctx context.Context, asset entity.AssetIdentifier) (*entity.PriceSnapshot, error)
}

// MarketRepository fetches market-wide statistics.
type MarketRepository interface {
	GetMarketSnapshot(ctx context.Context, asset entity.AssetIdentifier) (*entity.MarketSnapshot, error)
}

// NewsRepository fetches recent headlines, most recent first.
type NewsRepository interface {
	GetNews(ctx context.Context, asset entity.AssetIdentifier, limit int) (entity.NewsDigest, error)
}

// AIRepository runs one text completion against a language model.
type AIRepository interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
	HealthCheck(ctx context.Context) error
	Provider() string
	DefaultModel() string
}
