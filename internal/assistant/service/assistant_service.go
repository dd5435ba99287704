package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/repository"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/metrics"
)

const healthCheckTimeout = 5 * time.Second

// AskOptions override what would otherwise be detected from the query text.
type AskOptions struct {
	Mode     entity.AnalysisMode
	Model    string
	Language entity.Language
}

// Answer is the outcome of one Ask call.
type Answer struct {
	Query       *entity.Query
	Analysis    *entity.AnalysisResult
	Formatted   entity.FormattedAnswer
	Suggestions []string
}

// AssistantService runs the full question answering pipeline.
type AssistantService interface {
	Ask(ctx context.Context, text string, opts AskOptions) (*Answer, error)
	SupportedAssets() []string
	CheckDependencies(ctx context.Context)
}

type assistantService struct {
	cfg        *config.Config
	log        *logger.Logger
	metrics    *metrics.Recorder
	resolver   AssetResolver
	aggregator DataAggregator
	engine     AnalysisEngine
}

// NewAssistantService creates a new AssistantService.
func NewAssistantService(cfg *config.Config, log *logger.Logger,
	rec *metrics.Recorder,
	resolver AssetResolver,
	aggregator DataAggregator,
	engine AnalysisEngine) AssistantService {
	return &assistantService{
		cfg:        cfg,
		log:        log,
		metrics:    rec,
		resolver:   resolver,
		aggregator: aggregator,
		engine:     engine,
	}
}

// Ask interprets text, gathers data, asks the model and formats the answer.
// An unrecognized asset returns a formatted answer together with
// entity.ErrAssetNotRecognized; no data source is contacted in that case.
func (s *assistantService) Ask(ctx context.Context, text string, opts AskOptions) (*Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entity.ErrEmptyQuery
	}

	query := entity.NewQuery(text)
	if logger.RequestID(ctx) == "" {
		ctx = logger.WithRequestID(ctx, query.ID.String())
	}
	if s.cfg.Assistant.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Assistant.RequestTimeout)
		defer cancel()
	}

	query.Language = s.language(text, opts.Language)
	query.Mode = opts.Mode
	if query.Mode == "" {
		query.Mode, _ = DetectAnalysisMode(text)
	}

	start := time.Now()
	asset, err := s.resolver.Resolve(text)
	if err != nil {
		suggestions := s.resolver.Suggest(text, s.cfg.Assistant.SuggestionLimit)
		s.log.InfoContext(ctx, "Asset not recognized",
			logger.StringField("query", text),
			logger.IntField("suggestions", len(suggestions)),
		)
		s.metrics.RecordRequest("not_recognized")
		return &Answer{
			Query:       query,
			Formatted:   FormatNotRecognized(text, suggestions, query.Language),
			Suggestions: suggestions,
		}, fmt.Errorf("%w: %q", entity.ErrAssetNotRecognized, text)
	}
	query.Asset = &asset

	s.log.InfoContext(ctx, "Processing query",
		logger.StringField("asset", asset.ID),
		logger.StringField("language", string(query.Language)),
		logger.StringField("mode", string(query.Mode)),
	)

	aggregate, err := s.aggregator.Aggregate(ctx, asset, s.cfg.Aggregator.Timeout)
	if err != nil {
		s.metrics.RecordRequest("error")
		return nil, fmt.Errorf("failed to aggregate data for %s: %w", asset.ID, err)
	}

	prompt := repository.BuildAnalysisPrompt(aggregate, query.Mode, query.Language)

	model := opts.Model
	if model == "" {
		model = s.engine.DefaultModel()
	}
	analysis := &entity.AnalysisResult{
		Aggregate: aggregate,
		Model:     model,
		Provider:  s.engine.Provider(),
	}
	narrative, err := s.engine.Analyze(ctx, prompt, model)
	if err != nil {
		analysis.AIFailure = string(entity.ClassifyFailure(err))
		if errors.Is(err, entity.ErrEmptyCompletion) {
			analysis.AIFailure = "empty_completion"
		}
	} else {
		analysis.Narrative = narrative
		analysis.AISucceeded = true
	}

	outcome := "full"
	if len(aggregate.Failures) > 0 || !analysis.AISucceeded {
		outcome = "degraded"
	}
	s.metrics.RecordRequest(outcome)
	s.log.InfoContext(ctx, "Query answered",
		logger.StringField("asset", asset.ID),
		logger.StringField("outcome", outcome),
		logger.IntField("failures", len(aggregate.Failures)),
		logger.DurationField("elapsed", time.Since(start)),
	)

	return &Answer{
		Query:     query,
		Analysis:  analysis,
		Formatted: FormatAnswer(analysis, query.Language),
	}, nil
}

// language prefers an explicit choice, then the script of the text. Text
// without any letters falls back to the configured default.
func (s *assistantService) language(text string, explicit entity.Language) entity.Language {
	if explicit != "" {
		return entity.ParseLanguage(string(explicit))
	}
	if !strings.ContainsFunc(text, unicode.IsLetter) {
		return entity.ParseLanguage(s.cfg.Assistant.DefaultLanguage)
	}
	return DetectLanguage(text)
}

func (s *assistantService) SupportedAssets() []string {
	return s.resolver.SupportedAssets()
}

// CheckDependencies logs optional dependencies that are missing or unreachable.
// It never fails startup.
func (s *assistantService) CheckDependencies(ctx context.Context) {
	if s.cfg.CryptoPanic.APIKey == "" {
		if len(s.cfg.RSS.Feeds) == 0 {
			s.log.Warn("News source not configured, news will be unavailable",
				logger.ErrorField(entity.ErrConfigurationMissing),
			)
		} else {
			s.log.Warn("CryptoPanic API key not set, falling back to RSS feeds",
				logger.ErrorField(entity.ErrConfigurationMissing),
				logger.IntField("feeds", len(s.cfg.RSS.Feeds)),
			)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := s.engine.HealthCheck(ctx); err != nil {
		s.log.Warn("Model provider health check failed",
			logger.StringField("provider", s.engine.Provider()),
			logger.StringField("model", s.engine.DefaultModel()),
			logger.ErrorField(err),
		)
		return
	}
	s.log.Info("Model provider reachable",
		logger.StringField("provider", s.engine.Provider()),
		logger.StringField("model", s.engine.DefaultModel()),
	)
}
