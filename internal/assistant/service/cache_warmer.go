package service

import (
	"context"
	"fmt"
	"sync"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/repository"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/utils"

	"github.com/robfig/cron/v3"
)

var defaultWarmAssets = []string{"bitcoin", "ethereum"}

// CacheWarmer periodically pre-fetches price and market snapshots of popular assets.
type CacheWarmer interface {
	Start(ctx context.Context) error
	WarmUp(ctx context.Context) int
}

type cacheWarmer struct {
	cfg        *config.Config
	log        *logger.Logger
	priceRepo  repository.PriceRepository
	marketRepo repository.MarketRepository
	assets     []entity.AssetIdentifier
	cronParser cron.Parser
}

// NewCacheWarmer creates a warmer for the assets listed in warmer.assets. Unknown
// ids are skipped with a warning.
func NewCacheWarmer(cfg *config.Config, log *logger.Logger,
	table *entity.AssetTable,
	priceRepo repository.PriceRepository,
	marketRepo repository.MarketRepository) CacheWarmer {
	ids := cfg.Warmer.Assets
	if len(ids) == 0 {
		ids = defaultWarmAssets
	}

	assets := make([]entity.AssetIdentifier, 0, len(ids))
	for _, id := range ids {
		asset, ok := table.Lookup(id)
		if !ok {
			log.Warn("Skipping unknown asset in warmer config", logger.StringField("asset", id))
			continue
		}
		assets = append(assets, asset)
	}

	return &cacheWarmer{
		cfg:        cfg,
		log:        log,
		priceRepo:  priceRepo,
		marketRepo: marketRepo,
		assets:     assets,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Start schedules WarmUp and blocks until ctx is done.
func (w *cacheWarmer) Start(ctx context.Context) error {
	schedule, err := w.cronParser.Parse(w.cfg.Warmer.Schedule)
	if err != nil {
		return fmt.Errorf("failed to parse warmer schedule %q: %w", w.cfg.Warmer.Schedule, err)
	}

	c := cron.New(cron.WithParser(w.cronParser))
	c.Schedule(schedule, cron.FuncJob(func() {
		if !utils.ShouldContinue(ctx, w.log) {
			return
		}
		w.WarmUp(ctx)
	}))

	w.log.Info("Cache warmer started",
		logger.StringField("schedule", w.cfg.Warmer.Schedule),
		logger.IntField("assets", len(w.assets)),
	)
	c.Start()
	w.WarmUp(ctx)

	<-ctx.Done()
	<-c.Stop().Done()
	w.log.Info("Cache warmer stopped")
	return nil
}

// WarmUp fetches every configured asset once and returns how many snapshots
// were fetched successfully.
func (w *cacheWarmer) WarmUp(ctx context.Context) int {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		warmed  int
		timeout = w.cfg.Aggregator.Timeout
	)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	record := func(asset entity.AssetIdentifier, source entity.DataSource, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			w.log.Warn("Failed to warm snapshot",
				logger.StringField("asset", asset.ID),
				logger.StringField("source", string(source)),
				logger.ErrorField(err),
			)
			return
		}
		warmed++
	}

	for _, asset := range w.assets {
		asset := asset
		wg.Add(2)
		utils.GoSafe(ctx, w.log, func() {
			defer wg.Done()
			_, err := w.priceRepo.GetPriceSnapshot(ctx, asset)
			record(asset, entity.SourcePrice, err)
		})
		utils.GoSafe(ctx, w.log, func() {
			defer wg.Done()
			_, err := w.marketRepo.GetMarketSnapshot(ctx, asset)
			record(asset, entity.SourceMarket, err)
		})
	}
	wg.Wait()

	w.log.Debug("Cache warm-up finished", logger.IntField("warmed", warmed))
	return warmed
}
