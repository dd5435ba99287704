package service

import (
	"context"
	"fmt"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/repository"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/metrics"
	"ai-crypto-assistant/pkg/utils"
)

// DataAggregator fetches price, market and news data for one asset.
type DataAggregator interface {
	Aggregate(ctx context.Context, asset entity.AssetIdentifier, timeout time.Duration) (*entity.AggregateResult, error)
}

type dataAggregator struct {
	cfg        *config.Config
	log        *logger.Logger
	metrics    *metrics.Recorder
	priceRepo  repository.PriceRepository
	marketRepo repository.MarketRepository
	newsRepo   repository.NewsRepository
}

// NewDataAggregator creates a new DataAggregator.
func NewDataAggregator(cfg *config.Config, log *logger.Logger,
	rec *metrics.Recorder,
	priceRepo repository.PriceRepository,
	marketRepo repository.MarketRepository,
	newsRepo repository.NewsRepository) DataAggregator {
	return &dataAggregator{
		cfg:        cfg,
		log:        log,
		metrics:    rec,
		priceRepo:  priceRepo,
		marketRepo: marketRepo,
		newsRepo:   newsRepo,
	}
}

// fetchOutcome is what one source task hands back. Exactly one of the data
// fields or err is set.
type fetchOutcome struct {
	source  entity.DataSource
	price   *entity.PriceSnapshot
	market  *entity.MarketSnapshot
	news    entity.NewsDigest
	err     error
	elapsed time.Duration
}

type fetchTask struct {
	source  entity.DataSource
	timeout time.Duration
	fetch   func(ctx context.Context) (fetchOutcome, error)
}

// Aggregate runs the three fetches concurrently and waits for all of them, or
// until timeout elapses. A source that fails, hangs or panics becomes a
// SourceFailure; only an invalid asset is returned as an error.
func (a *dataAggregator) Aggregate(ctx context.Context, asset entity.AssetIdentifier, timeout time.Duration) (*entity.AggregateResult, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = a.cfg.Aggregator.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tasks := a.tasks(asset)
	results := make(chan fetchOutcome, len(tasks))
	for _, task := range tasks {
		task := task
		utils.GoSafe(ctx, a.log, func() {
			results <- a.run(ctx, task)
		})
	}

	outcomes := collectOutcomes(ctx, results, len(tasks))

	result := &entity.AggregateResult{
		Asset: asset,
		News:  entity.NewsDigest{},
	}
	for _, task := range tasks {
		out, settled := outcomes[task.source]
		if !settled {
			out = fetchOutcome{source: task.source, err: fmt.Errorf("%w: %s: %w", entity.ErrSourceUnavailable, task.source, ctx.Err())}
			a.metrics.RecordFetch(string(task.source), timeout, string(entity.FailureTimeout))
		}
		if out.err != nil {
			failure := entity.NewSourceFailure(task.source, out.err)
			a.log.WarnContext(ctx, "Source fetch failed",
				logger.StringField("source", string(task.source)),
				logger.StringField("asset", asset.ID),
				logger.StringField("kind", string(failure.Kind)),
				logger.ErrorField(out.err),
			)
			result.Failures = append(result.Failures, failure)
			continue
		}
		switch task.source {
		case entity.SourcePrice:
			result.Price = out.price
		case entity.SourceMarket:
			result.Market = out.market
		case entity.SourceNews:
			if out.news != nil {
				result.News = out.news
			}
		}
	}

	a.log.DebugContext(ctx, "Aggregation finished",
		logger.StringField("asset", asset.ID),
		logger.IntField("failures", len(result.Failures)),
	)
	return result, nil
}

// collectOutcomes reads up to n outcomes until ctx is done. Outcomes already
// buffered when ctx ends are kept.
func collectOutcomes(ctx context.Context, results <-chan fetchOutcome, n int) map[entity.DataSource]fetchOutcome {
	outcomes := make(map[entity.DataSource]fetchOutcome, n)
collect:
	for len(outcomes) < n {
		select {
		case out := <-results:
			outcomes[out.source] = out
		case <-ctx.Done():
			break collect
		}
	}

	for len(outcomes) < n {
		select {
		case out := <-results:
			outcomes[out.source] = out
		default:
			return outcomes
		}
	}
	return outcomes
}

func (a *dataAggregator) tasks(asset entity.AssetIdentifier) []fetchTask {
	newsLimit := a.cfg.Aggregator.NewsLimit
	return []fetchTask{
		{
			source:  entity.SourcePrice,
			timeout: a.cfg.Aggregator.PriceTimeout,
			fetch: func(ctx context.Context) (fetchOutcome, error) {
				snapshot, err := a.priceRepo.GetPriceSnapshot(ctx, asset)
				if err == nil && snapshot == nil {
					err = fmt.Errorf("%w: empty price snapshot", entity.ErrMalformedPayload)
				}
				return fetchOutcome{price: snapshot}, err
			},
		},
		{
			source:  entity.SourceMarket,
			timeout: a.cfg.Aggregator.MarketTimeout,
			fetch: func(ctx context.Context) (fetchOutcome, error) {
				snapshot, err := a.marketRepo.GetMarketSnapshot(ctx, asset)
				if err == nil && snapshot == nil {
					err = fmt.Errorf("%w: empty market snapshot", entity.ErrMalformedPayload)
				}
				return fetchOutcome{market: snapshot}, err
			},
		},
		{
			source:  entity.SourceNews,
			timeout: a.cfg.Aggregator.NewsTimeout,
			fetch: func(ctx context.Context) (fetchOutcome, error) {
				digest, err := a.newsRepo.GetNews(ctx, asset, newsLimit)
				if len(digest) > newsLimit {
					digest = digest[:newsLimit]
				}
				return fetchOutcome{news: digest}, err
			},
		},
	}
}

// run executes one task under its own timeout and converts a panic into an error.
func (a *dataAggregator) run(ctx context.Context, task fetchTask) fetchOutcome {
	start := time.Now()

	fetchCtx := ctx
	if task.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, task.timeout)
		defer cancel()
	}

	var out fetchOutcome
	err := utils.SafeCall(func() error {
		var fetchErr error
		out, fetchErr = task.fetch(fetchCtx)
		return fetchErr
	})
	out.source = task.source
	out.elapsed = time.Since(start)

	if err != nil {
		// A source that ignores its context may return late with a generic error.
		if ctxErr := fetchCtx.Err(); ctxErr != nil && entity.ClassifyFailure(err) == entity.FailureInternal {
			err = fmt.Errorf("%w: %w", err, ctxErr)
		}
		out = fetchOutcome{
			source:  task.source,
			err:     fmt.Errorf("%w: %s: %w", entity.ErrSourceUnavailable, task.source, err),
			elapsed: out.elapsed,
		}
	}

	kind := ""
	if out.err != nil {
		kind = string(entity.ClassifyFailure(out.err))
	}
	a.metrics.RecordFetch(string(task.source), out.elapsed, kind)
	return out
}
