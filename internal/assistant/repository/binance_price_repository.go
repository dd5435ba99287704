package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/utils"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Binance answers -1003 when the request weight limit is exceeded.
const binanceTooManyRequests = -1003

type binancePriceRepository struct {
	client         *binance.Client
	log            *logger.Logger
	requestLimiter *rate.Limiter
}

// NewBinancePriceRepository creates a PriceRepository backed by the Binance 24h ticker.
func NewBinancePriceRepository(cfg *config.Config, log *logger.Logger) (PriceRepository, error) {
	if cfg.Binance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("%w: binance.max_request_per_minute must be positive", entity.ErrConfigurationMissing)
	}

	client := binance.NewClient("", "")
	if cfg.Binance.BaseURL != "" {
		client.BaseURL = cfg.Binance.BaseURL
	}

	secondsPerRequest := time.Minute / time.Duration(cfg.Binance.MaxRequestPerMinute)
	return &binancePriceRepository{
		client:         client,
		log:            log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 5),
	}, nil
}

func (r *binancePriceRepository) GetPriceSnapshot(ctx context.Context, asset entity.AssetIdentifier) (*entity.PriceSnapshot, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.WarnContext(ctx, "Failed to wait for binance request limit", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: binance: %w", entity.ErrSourceUnavailable, err)
	}

	stats, err := r.client.NewListPriceChangeStatsService().Symbol(asset.ExchangeSymbol).Do(ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to get ticker from Binance API",
			logger.StringField("symbol", asset.ExchangeSymbol),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("%w: binance: %w", entity.ErrSourceUnavailable, classifyBinanceError(err))
	}

	for _, s := range stats {
		if s == nil || s.Symbol != asset.ExchangeSymbol {
			continue
		}
		return toPriceSnapshot(s)
	}

	return nil, fmt.Errorf("%w: binance: no ticker for %s: %w", entity.ErrSourceUnavailable, asset.ExchangeSymbol, entity.ErrMalformedPayload)
}

func toPriceSnapshot(s *binance.PriceChangeStats) (*entity.PriceSnapshot, error) {
	var (
		snapshot = &entity.PriceSnapshot{Symbol: s.Symbol}
		err      error
	)
	if snapshot.LastPrice, err = parseBinanceDecimal("lastPrice", s.LastPrice); err != nil {
		return nil, err
	}
	if snapshot.ChangePercent24h, err = parseBinanceDecimal("priceChangePercent", s.PriceChangePercent); err != nil {
		return nil, err
	}
	if snapshot.High24h, err = parseBinanceDecimal("highPrice", s.HighPrice); err != nil {
		return nil, err
	}
	if snapshot.Low24h, err = parseBinanceDecimal("lowPrice", s.LowPrice); err != nil {
		return nil, err
	}
	if snapshot.Volume24h, err = parseBinanceDecimal("volume", s.Volume); err != nil {
		return nil, err
	}

	snapshot.FetchedAt = utils.ParseUnixMillis(s.CloseTime)
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = utils.TimeNowUTC()
	}
	return snapshot, nil
}

func parseBinanceDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: binance: invalid %s %q: %w", entity.ErrSourceUnavailable, field, value, entity.ErrMalformedPayload)
	}
	return d, nil
}

func classifyBinanceError(err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == binanceTooManyRequests {
			return fmt.Errorf("%w: %s", entity.ErrRateLimited, apiErr.Message)
		}
		return fmt.Errorf("%w: code %d - %s", entity.ErrUnexpectedStatus, apiErr.Code, apiErr.Message)
	}
	return err
}
