package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"syscall"
	"time"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/assistant/repository"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/metrics"
	"ai-crypto-assistant/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

// AnalysisEngine turns a prompt into a cleaned narrative.
type AnalysisEngine interface {
	Analyze(ctx context.Context, prompt, model string) (string, error)
	HealthCheck(ctx context.Context) error
	Provider() string
	DefaultModel() string
}

type analysisEngine struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Recorder
	aiRepo  repository.AIRepository
}

// NewAnalysisEngine creates a new AnalysisEngine.
func NewAnalysisEngine(cfg *config.Config, log *logger.Logger, rec *metrics.Recorder, aiRepo repository.AIRepository) AnalysisEngine {
	return &analysisEngine{
		cfg:     cfg,
		log:     log,
		metrics: rec,
		aiRepo:  aiRepo,
	}
}

func (e *analysisEngine) HealthCheck(ctx context.Context) error {
	return e.aiRepo.HealthCheck(ctx)
}

func (e *analysisEngine) Provider() string {
	return e.aiRepo.Provider()
}

func (e *analysisEngine) DefaultModel() string {
	return e.aiRepo.DefaultModel()
}

// Analyze runs one completion under ai.timeout. A transport failure is retried
// once after ai.retry_delay; API errors and empty output are not.
func (e *analysisEngine) Analyze(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = e.aiRepo.DefaultModel()
	}

	const maxAttempts = 2
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := e.attempt(ctx, prompt, model)
		if err == nil {
			narrative := CleanCompletion(raw)
			if narrative == "" {
				e.metrics.RecordModelCall(e.aiRepo.Provider(), "empty", 0)
				return "", fmt.Errorf("%w: %w", entity.ErrModelUnavailable, entity.ErrEmptyCompletion)
			}
			return narrative, nil
		}
		lastErr = err

		if attempt == maxAttempts || ctx.Err() != nil || !isTransientModelError(err) {
			break
		}

		e.log.WarnContext(ctx, "Model call failed, retrying",
			logger.StringField("provider", e.aiRepo.Provider()),
			logger.StringField("model", model),
			logger.DurationField("retry_delay", e.cfg.AI.RetryDelay),
			logger.ErrorField(err),
		)
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", entity.ErrModelUnavailable, ctx.Err())
		case <-time.After(e.cfg.AI.RetryDelay):
		}
	}

	e.log.ErrorContext(ctx, "Model call failed",
		logger.StringField("provider", e.aiRepo.Provider()),
		logger.StringField("model", model),
		logger.ErrorField(lastErr),
	)
	return "", fmt.Errorf("%w: %w", entity.ErrModelUnavailable, lastErr)
}

func (e *analysisEngine) attempt(ctx context.Context, prompt, model string) (string, error) {
	callCtx := ctx
	if e.cfg.AI.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.cfg.AI.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := e.aiRepo.Complete(callCtx, prompt, model)
	outcome := "success"
	if err != nil {
		outcome = string(entity.ClassifyFailure(err))
	}
	e.metrics.RecordModelCall(e.aiRepo.Provider(), outcome, time.Since(start))
	return raw, err
}

// isTransientModelError reports failures worth one more attempt: refused or
// reset connections, timeouts and truncated responses.
func isTransientModelError(err error) bool {
	switch {
	case errors.Is(err, entity.ErrUnexpectedStatus),
		errors.Is(err, entity.ErrMalformedPayload),
		errors.Is(err, entity.ErrRateLimited),
		errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var (
	thinkBlockPattern = regexp.MustCompile(`(?is)<think>.*?</think>`)
	openThinkPattern  = regexp.MustCompile(`(?is)<think>.*$`)
	codeFencePattern  = regexp.MustCompile("(?m)^[ \t]*```[^\n]*$")
	htmlTagPattern    = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
)

// CleanCompletion strips reasoning blocks, code fences and HTML from raw model
// output and normalizes whitespace. It returns "" when nothing readable is left.
func CleanCompletion(raw string) string {
	text := utils.CleanToValidUTF8(raw)
	text = thinkBlockPattern.ReplaceAllString(text, "")
	text = openThinkPattern.ReplaceAllString(text, "")
	text = codeFencePattern.ReplaceAllString(text, "")

	if htmlTagPattern.MatchString(text) {
		text = stripHTML(text)
	}

	return utils.NormalizeWhitespace(text)
}

func stripHTML(text string) string {
	// Block-level tags would otherwise glue paragraphs together.
	replacer := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "\n\n", "</li>", "\n", "</div>", "\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(replacer.Replace(text)))
	if err != nil {
		return htmlTagPattern.ReplaceAllString(text, "")
	}
	return doc.Text()
}
