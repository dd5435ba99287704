package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/cache"
	"ai-crypto-assistant/pkg/common"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/metrics"
)

type cachedPriceRepository struct {
	next    PriceRepository
	store   cache.Store
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Recorder
}

// NewCachedPriceRepository serves price snapshots from store for up to ttl.
// Cache errors never fail a fetch.
func NewCachedPriceRepository(next PriceRepository, store cache.Store, ttl time.Duration, log *logger.Logger, rec *metrics.Recorder) PriceRepository {
	return &cachedPriceRepository{next: next, store: store, ttl: ttl, log: log, metrics: rec}
}

func (r *cachedPriceRepository) GetPriceSnapshot(ctx context.Context, asset entity.AssetIdentifier) (*entity.PriceSnapshot, error) {
	key := common.CacheKeyPrefixPrice + asset.ID

	var snapshot entity.PriceSnapshot
	if lookupSnapshot(ctx, r.store, key, &snapshot, r.log) {
		r.metrics.RecordCacheLookup(string(entity.SourcePrice), true)
		return &snapshot, nil
	}
	r.metrics.RecordCacheLookup(string(entity.SourcePrice), false)

	fresh, err := r.next.GetPriceSnapshot(ctx, asset)
	if err != nil {
		return nil, err
	}
	storeSnapshot(ctx, r.store, key, fresh, r.ttl, r.log)
	return fresh, nil
}

type cachedMarketRepository struct {
	next    MarketRepository
	store   cache.Store
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Recorder
}

// NewCachedMarketRepository serves market snapshots from store for up to ttl.
func NewCachedMarketRepository(next MarketRepository, store cache.Store, ttl time.Duration, log *logger.Logger, rec *metrics.Recorder) MarketRepository {
	return &cachedMarketRepository{next: next, store: store, ttl: ttl, log: log, metrics: rec}
}

func (r *cachedMarketRepository) GetMarketSnapshot(ctx context.Context, asset entity.AssetIdentifier) (*entity.MarketSnapshot, error) {
	key := common.CacheKeyPrefixMarket + asset.ID

	var snapshot entity.MarketSnapshot
	if lookupSnapshot(ctx, r.store, key, &snapshot, r.log) {
		r.metrics.RecordCacheLookup(string(entity.SourceMarket), true)
		return &snapshot, nil
	}
	r.metrics.RecordCacheLookup(string(entity.SourceMarket), false)

	fresh, err := r.next.GetMarketSnapshot(ctx, asset)
	if err != nil {
		return nil, err
	}
	storeSnapshot(ctx, r.store, key, fresh, r.ttl, r.log)
	return fresh, nil
}

func lookupSnapshot(ctx context.Context, s cache.Store, key string, dst interface{}, log *logger.Logger) bool {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.WarnContext(ctx, "Failed to read snapshot cache", logger.StringField("key", key), logger.ErrorField(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.WarnContext(ctx, "Discarding undecodable cache entry", logger.StringField("key", key), logger.ErrorField(err))
		return false
	}
	return true
}

func storeSnapshot(ctx context.Context, s cache.Store, key string, value interface{}, ttl time.Duration, log *logger.Logger) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.WarnContext(ctx, "Failed to encode snapshot for cache", logger.StringField("key", key), logger.ErrorField(err))
		return
	}
	if err := s.Set(ctx, key, raw, ttl); err != nil {
		log.WarnContext(ctx, "Failed to write snapshot cache", logger.StringField("key", key), logger.ErrorField(err))
	}
}
