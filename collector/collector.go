package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kova98/redditscrape/config"
	"github.com/kova98/redditscrape/data"
	"github.com/kova98/redditscrape/enums"
	"github.com/kova98/redditscrape/matchers"
	"github.com/kova98/redditscrape/metrics"
	"github.com/kova98/redditscrape/sources"
)

const (
	kindSearch = "search"
	kindTop    = "top"
)

// PostSource is the Reddit API as seen by the collector.
type PostSource interface {
	Search(ctx context.Context, subreddit, keyword string, limit int) sources.Result
	Top(ctx context.Context, subreddit string, window enums.TimeWindow, limit int) sources.Result
}

type Collector struct {
	source  PostSource
	logger  *slog.Logger
	out     io.Writer
	metrics *metrics.Collector
}

type Option func(*Collector)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) { c.logger = logger }
}

// WithProgress sets where the human-readable progress lines go. Defaults to
// io.Discard.
func WithProgress(out io.Writer) Option {
	return func(c *Collector) { c.out = out }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Collector) { c.metrics = m }
}

func New(source PostSource, opts ...Option) *Collector {
	c := &Collector{
		source: source,
		logger: slog.Default(),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectAll searches every configured subreddit for every configured
// keyword, keyword outer and subreddit inner, in configuration order. A
// failed search contributes no records and does not stop the run.
// Duplicates across pairs are kept.
func (c *Collector) CollectAll(ctx context.Context, cfg config.SearchConfig) []data.PostRecord {
	results := make([]data.PostRecord, 0)

	for _, keyword := range cfg.Keywords {
		for _, subreddit := range cfg.Subreddits {
			c.printf("\nSearching: '%s' in r/%s\n", keyword, subreddit)
			results = append(results, c.searchPair(ctx, cfg, keyword, subreddit)...)
		}
	}

	c.printf("\nTotal: found %d posts\n", len(results))
	c.logger.Info("collection finished", "records", len(results),
		"keywords", len(cfg.Keywords), "subreddits", len(cfg.Subreddits))

	return results
}

func (c *Collector) searchPair(ctx context.Context, cfg config.SearchConfig, keyword, subreddit string) []data.PostRecord {
	start := time.Now()
	res := c.source.Search(ctx, subreddit, keyword, cfg.Limit)
	elapsed := time.Since(start)

	if !res.Ok() {
		c.observe(kindSearch, elapsed, 0, res.Err)
		c.printf("✗ Error searching r/%s for '%s': %v\n", subreddit, keyword, res.Err)
		c.logger.Error("search failed", "keyword", keyword, "subreddit", subreddit, "error", res.Err)
		return nil
	}

	records := make([]data.PostRecord, 0, len(res.Posts))
	skipped := 0
	for _, post := range res.Posts {
		if !matchers.MatchesPost(post, keyword, cfg.MatchMode) {
			skipped++
			continue
		}
		records = append(records, data.NewPostRecord(post, subreddit, &keyword))
	}

	c.observe(kindSearch, elapsed, len(records), nil)
	c.printf("✓ Found %d posts about '%s' in r/%s\n", len(records), keyword, subreddit)
	c.logger.Debug("search done", "keyword", keyword, "subreddit", subreddit,
		"records", len(records), "skipped", skipped, "request_ms", elapsed.Milliseconds())

	return records
}

// CollectTop fetches the top posts of every configured subreddit over
// cfg.TopWindow. It returns nothing when no window is configured. Records
// carry no keyword.
func (c *Collector) CollectTop(ctx context.Context, cfg config.SearchConfig) []data.PostRecord {
	if cfg.TopWindow == enums.TimeWindowNone {
		return nil
	}

	results := make([]data.PostRecord, 0)
	for _, subreddit := range cfg.Subreddits {
		start := time.Now()
		res := c.source.Top(ctx, subreddit, cfg.TopWindow, cfg.Limit)
		elapsed := time.Since(start)

		if !res.Ok() {
			c.observe(kindTop, elapsed, 0, res.Err)
			c.printf("✗ Error fetching top posts of r/%s: %v\n", subreddit, res.Err)
			c.logger.Error("top posts failed", "subreddit", subreddit, "window", cfg.TopWindow, "error", res.Err)
			continue
		}

		for _, post := range res.Posts {
			results = append(results, data.NewPostRecord(post, subreddit, nil))
		}
		c.observe(kindTop, elapsed, len(res.Posts), nil)
		c.printf("✓ Fetched %d top posts from r/%s\n", len(res.Posts), subreddit)
	}

	c.logger.Info("top posts finished", "records", len(results), "window", cfg.TopWindow)
	return results
}

func (c *Collector) observe(kind string, elapsed time.Duration, records int, err error) {
	if c.metrics != nil {
		c.metrics.ObserveRequest(kind, elapsed, records, err)
	}
}

func (c *Collector) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
