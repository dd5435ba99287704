package main

import (
	"context"
	"fmt"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/repository"
	"ai-crypto-assistant/internal/assistant/service"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/cache"
	"ai-crypto-assistant/pkg/common"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/metrics"
	"ai-crypto-assistant/pkg/redis"

	"google.golang.org/genai"
)

// app holds everything the commands share.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	metrics    *metrics.Recorder
	table      *entity.AssetTable
	priceRepo  repository.PriceRepository
	marketRepo repository.MarketRepository
	assistant  service.AssistantService
	closers    []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("Failed to release resource", logger.ErrorField(err))
		}
	}
	_ = a.log.Sync()
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, log: appLogger, metrics: metrics.New()}

	a.table, err = entity.NewDefaultAssetTable()
	if err != nil {
		return nil, fmt.Errorf("failed to build asset table: %w", err)
	}

	// Initialize repositories
	priceRepo, err := repository.NewBinancePriceRepository(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Binance repository: %w", err)
	}
	marketRepo := repository.NewCoinGeckoMarketRepository(cfg, appLogger)
	newsRepo := repository.NewNewsRepository(cfg, appLogger)

	if cfg.Cache.Enabled {
		store, err := a.newCacheStore()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		priceRepo = repository.NewCachedPriceRepository(priceRepo, store, cfg.Cache.TTL, appLogger, a.metrics)
		marketRepo = repository.NewCachedMarketRepository(marketRepo, store, cfg.Cache.TTL, appLogger, a.metrics)
	}
	a.priceRepo = priceRepo
	a.marketRepo = marketRepo

	aiRepo, err := newAIRepository(ctx, cfg, appLogger)
	if err != nil {
		return nil, err
	}

	// Initialize services
	a.assistant = service.NewAssistantService(cfg, appLogger, a.metrics,
		service.NewAssetResolver(a.table),
		service.NewDataAggregator(cfg, appLogger, a.metrics, priceRepo, marketRepo, newsRepo),
		service.NewAnalysisEngine(cfg, appLogger, a.metrics, aiRepo),
	)
	return a, nil
}

func (a *app) newCacheStore() (cache.Store, error) {
	switch a.cfg.Cache.Driver {
	case common.CacheDriverRedis:
		redisClient, err := redis.NewClient(redis.Config{
			Host:     a.cfg.Redis.Host,
			Port:     a.cfg.Redis.Port,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
			PoolSize: a.cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		return cache.NewRedisStore(redisClient.Client), nil
	default:
		return cache.NewMemoryStore(a.cfg.Cache.TTL, 2*a.cfg.Cache.TTL), nil
	}
}

func newAIRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.AIRepository, error) {
	switch cfg.AI.Provider {
	case common.ProviderOllama:
		return repository.NewOllamaAIRepository(cfg, log)
	case common.ProviderOpenAI:
		return repository.NewOpenAIRepository(cfg, log)
	case common.ProviderGemini:
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		return repository.NewGeminiAIRepository(cfg, log, genAiClient)
	default:
		return nil, fmt.Errorf("invalid AI provider %q", cfg.AI.Provider)
	}
}
