// Package fetch implements the concurrent page-retrieval phase: a bounded
// pool of workers drains a shared queue of object keys, downloads each page
// from the corpus backend, and parses its outgoing links.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linkgraph/webrank/internal/storage"
)

// fetchProgressEvery controls how often the collector logs a progress line.
const fetchProgressEvery = 1000

// Extractor parses page content into outgoing corpus links.
type Extractor interface {
	Links(content []byte) []string
}

// PageLinks is one fetched page's parsed outgoing links.
type PageLinks struct {
	Key   string
	Links []string
}

// Failure records a page that exhausted its retries.
type Failure struct {
	Key      string
	Attempts int
	Reason   string
}

// Diagnostics aggregates run-level fetch outcomes for the operator.
type Diagnostics struct {
	RunID    string
	Fetched  int
	Degraded int
	Retries  int
	Elapsed  time.Duration
	Failures []Failure
}

// Config controls Pool behavior.
type Config struct {
	Workers       int
	ObjectTimeout time.Duration
}

// Pool downloads every corpus page through a fixed number of workers.
type Pool struct {
	provider  storage.Provider
	extractor Extractor
	retry     *RetryPolicy
	cfg       Config
	logger    *zap.Logger
}

// NewPool constructs a Pool. Zero config values fall back to the defaults
// (20 workers, 60s per-object timeout); a nil retry policy gets the default.
func NewPool(provider storage.Provider, extractor Extractor, retry *RetryPolicy, cfg Config, logger *zap.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 20
	}
	if cfg.ObjectTimeout <= 0 {
		cfg.ObjectTimeout = 60 * time.Second
	}
	if retry == nil {
		retry = DefaultRetryPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		provider:  provider,
		extractor: extractor,
		retry:     retry,
		cfg:       cfg,
		logger:    logger,
	}
}

// result carries one page's outcome from a worker to the collector.
type result struct {
	page    PageLinks
	failure *Failure
	retries int
}

// Run processes every key exactly once and returns the parsed pages plus
// run diagnostics. Pages whose fetches exhaust their retries are returned
// with zero outgoing links and recorded as failures. Run returns an error
// only when the context is canceled; in that case no partial results are
// returned.
func (p *Pool) Run(ctx context.Context, keys []string) ([]PageLinks, *Diagnostics, error) {
	start := time.Now()
	diag := &Diagnostics{RunID: uuid.NewString()}

	p.logger.Info("Starting fetch pool",
		zap.String("run_id", diag.RunID),
		zap.Int("pages", len(keys)),
		zap.Int("workers", p.cfg.Workers),
	)

	work := make(chan string)
	results := make(chan result)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(work)
		for _, key := range keys {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case work <- key:
			}
		}
		return nil
	})

	for i := 0; i < p.cfg.Workers; i++ {
		g.Go(func() error {
			for key := range work {
				res, err := p.fetchOne(gctx, key)
				if err != nil {
					return err
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				case results <- res:
				}
			}
			return nil
		})
	}

	// The collector is the only goroutine touching pages and diag, so
	// no locking is needed on the aggregation side.
	pages := make([]PageLinks, 0, len(keys))
	collectDone := make(chan struct{})
	go func() {
		defer close(collectDone)
		for res := range results {
			pages = append(pages, res.page)
			diag.Retries += res.retries
			if res.failure != nil {
				diag.Degraded++
				diag.Failures = append(diag.Failures, *res.failure)
			} else {
				diag.Fetched++
			}
			if len(pages)%fetchProgressEvery == 0 {
				p.logger.Info("Fetch progress",
					zap.Int("done", len(pages)),
					zap.Int("total", len(keys)),
				)
			}
		}
	}()

	err := g.Wait()
	close(results)
	<-collectDone

	if err != nil {
		return nil, nil, fmt.Errorf("fetch pool aborted: %w", err)
	}

	diag.Elapsed = time.Since(start)
	p.logger.Info("Fetch pool finished",
		zap.String("run_id", diag.RunID),
		zap.Int("fetched", diag.Fetched),
		zap.Int("degraded", diag.Degraded),
		zap.Int("retries", diag.Retries),
		zap.Duration("elapsed", diag.Elapsed),
	)
	return pages, diag, nil
}

// fetchOne downloads and parses a single page, retrying per the policy.
// The error return is reserved for run cancellation; fetch failures degrade
// the page to zero outgoing links instead.
func (p *Pool) fetchOne(ctx context.Context, key string) (result, error) {
	var lastErr error
	retries := 0

	for attempt := 1; ; attempt++ {
		octx, cancel := context.WithTimeout(ctx, p.cfg.ObjectTimeout)
		content, err := p.provider.Fetch(octx, key)
		cancel()
		TotalFetches.Inc()

		if err == nil {
			TotalPages.Inc()
			return result{
				page:    PageLinks{Key: key, Links: p.extractor.Links(content)},
				retries: retries,
			}, nil
		}

		TotalFetchErrors.Inc()
		lastErr = err
		if ctx.Err() != nil {
			return result{}, ctx.Err()
		}
		if !p.retry.ShouldRetry(err, attempt) {
			break
		}

		retries++
		TotalRetries.Inc()
		p.logger.Warn("Retrying fetch",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return result{}, ctx.Err()
		case <-time.After(p.retry.Backoff(attempt)):
		}
	}

	// All attempts exhausted: the page becomes dangling rather than
	// aborting the run.
	TotalDegraded.Inc()
	TotalPages.Inc()
	p.logger.Warn("Giving up on page, treating as dangling",
		zap.String("key", key),
		zap.Int("attempts", p.retry.MaxAttempts()),
		zap.Error(lastErr),
	)
	return result{
		page: PageLinks{Key: key},
		failure: &Failure{
			Key:      key,
			Attempts: p.retry.MaxAttempts(),
			Reason:   lastErr.Error(),
		},
		retries: retries,
	}, nil
}
