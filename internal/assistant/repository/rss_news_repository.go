package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"ai-crypto-assistant/internal/assistant/config"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"

	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

type rssNewsRepository struct {
	feeds         []string
	log           *logger.Logger
	inmemoryCache *cache.Cache
	parser        func() *gofeed.Parser
}

// NewRSSNewsRepository creates a NewsRepository that reads public RSS feeds and keeps
// the items mentioning the asset. Parsed feeds are cached for cfg.RSS.CacheTTL.
func NewRSSNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &rssNewsRepository{
		feeds:         cfg.RSS.Feeds,
		log:           log,
		inmemoryCache: cache.New(cfg.RSS.CacheTTL, 2*cfg.RSS.CacheTTL),
		parser:        gofeed.NewParser,
	}
}

func (r *rssNewsRepository) GetNews(ctx context.Context, asset entity.AssetIdentifier, limit int) (entity.NewsDigest, error) {
	if len(r.feeds) == 0 {
		return entity.NewsDigest{}, fmt.Errorf("%w: rss: %w: no feeds", entity.ErrSourceUnavailable, entity.ErrConfigurationMissing)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		items  entity.NewsDigest
		errs   []error
		seen   = make(map[string]struct{})
		needle = newMentionMatcher(asset)
	)

	for _, feedURL := range r.feeds {
		wg.Add(1)
		go func(feedURL string) {
			defer wg.Done()

			feed, err := r.fetchFeed(ctx, feedURL)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			for _, item := range feed.Items {
				if item == nil || !needle.matches(item.Title) {
					continue
				}
				key := item.Link
				if key == "" {
					key = item.Title
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				items = append(items, toNewsItem(feed, item))
			}
		}(feedURL)
	}
	wg.Wait()

	if len(errs) == len(r.feeds) {
		return entity.NewsDigest{}, fmt.Errorf("%w: rss: %w", entity.ErrSourceUnavailable, errors.Join(errs...))
	}
	if items == nil {
		items = entity.NewsDigest{}
	}
	return limitDigest(items, limit), nil
}

func (r *rssNewsRepository) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	if cached, ok := r.inmemoryCache.Get(feedURL); ok {
		return cached.(*gofeed.Feed), nil
	}

	feed, err := r.parser().ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to parse RSS feed", logger.StringField("url", feedURL), logger.ErrorField(err))
		return nil, classifyFeedError(err)
	}

	r.inmemoryCache.SetDefault(feedURL, feed)
	return feed, nil
}

func classifyFeedError(err error) error {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return fmt.Errorf("%w: %s", entity.ErrRateLimited, httpErr.Status)
		}
		return fmt.Errorf("%w: %d - %s", entity.ErrUnexpectedStatus, httpErr.StatusCode, httpErr.Status)
	}
	if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
		return fmt.Errorf("%w: %w", entity.ErrMalformedPayload, err)
	}
	return err
}

func toNewsItem(feed *gofeed.Feed, item *gofeed.Item) entity.NewsItem {
	news := entity.NewsItem{
		Title:  strings.TrimSpace(item.Title),
		Source: feed.Title,
		URL:    item.Link,
	}
	switch {
	case item.PublishedParsed != nil:
		news.PublishedAt = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		news.PublishedAt = item.UpdatedParsed.UTC()
	}
	return news
}

// mentionMatcher finds an asset name or ticker as whole tokens in a headline.
type mentionMatcher struct {
	ticker string
	name   []string
}

func newMentionMatcher(asset entity.AssetIdentifier) mentionMatcher {
	ticker := ""
	if t := entity.Tokenize(asset.Ticker); len(t) == 1 {
		ticker = t[0]
	}
	return mentionMatcher{ticker: ticker, name: entity.Tokenize(asset.Name)}
}

func (m mentionMatcher) matches(title string) bool {
	tokens := entity.Tokenize(title)
	for i := range tokens {
		if m.ticker != "" && tokens[i] == m.ticker {
			return true
		}
		if len(m.name) > 0 && i+len(m.name) <= len(tokens) && slices.Equal(tokens[i:i+len(m.name)], m.name) {
			return true
		}
	}
	return false
}
