// Package pipeline composes loader, extractor, aligner and emitter into the
// two scraping passes: the listing page, then the review pages of the
// restaurants it found.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/use-agent/dinescrape/align"
	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/config"
	"github.com/use-agent/dinescrape/emit"
	"github.com/use-agent/dinescrape/extract"
	"github.com/use-agent/dinescrape/loader"
	"github.com/use-agent/dinescrape/models"
)

// Opener starts a browsing session. Each top-level scrape opens its own
// and closes it before returning.
type Opener func() (browser.Surface, error)

// Pipeline runs scrapes sequentially against one session at a time.
type Pipeline struct {
	cfg     *config.Config
	loader  *loader.Loader
	emitter *emit.Emitter
	logger  *slog.Logger
}

// New creates a Pipeline. A nil logger uses slog.Default().
func New(cfg *config.Config, l *loader.Loader, e *emit.Emitter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, loader: l, emitter: e, logger: logger}
}

// Listings scrapes the infinite-scroll listing at url into dest and
// returns the restaurant URLs it collected, one per card.
func (p *Pipeline) Listings(ctx context.Context, s browser.Surface, url, dest string) ([]string, emit.Summary, error) {
	if err := s.Navigate(ctx, url); err != nil {
		return nil, emit.Summary{}, err
	}

	cards, err := p.loader.Scroll(ctx, s, extract.ListingCard)
	if err != nil {
		return nil, emit.Summary{}, err
	}

	seqs := extract.New(s, p.logger).Collect(ctx, cards, extract.ListingFields)
	urls := append([]string(nil), seqs[extract.URLField]...)

	sum, err := p.emitter.Emit(ctx, extract.Names(extract.ListingFields), seqs, dest)
	if err != nil {
		return nil, emit.Summary{}, err
	}
	return urls, sum, nil
}

// Reviews paginates every seed and writes all reviews found to dest in
// one batch. Seeds that fail are reported in the outcomes and skipped.
func (p *Pipeline) Reviews(ctx context.Context, s browser.Surface, seeds []string, dest string) (emit.Summary, []loader.SeedOutcome, error) {
	fields := extract.ReviewFields(p.cfg.Review)
	x := extract.New(s, p.logger)
	acc := make(map[string]models.Sequence, len(fields))

	target := loader.PageTarget{Container: extract.ReviewContainer, Next: extract.ReviewNext}
	outcomes := p.loader.Paginate(ctx, s, seeds, target, func(ctx context.Context, seed string, page int, container browser.Element) {
		// Align each page on its own so a short field on one page cannot
		// shift every later page out of step.
		got := align.Align(x.Group(ctx, container, fields))
		p.logger.Debug("review page extracted", "url", seed, "page", page, "reviews", align.Shortest(got))
		for name, seq := range got {
			acc[name] = append(acc[name], seq...)
		}
	})

	sum, err := p.emitter.Emit(ctx, extract.GroupNames(fields), acc, dest)
	return sum, outcomes, err
}

// ScrapeListings opens a session, runs Listings and closes the session.
func (p *Pipeline) ScrapeListings(ctx context.Context, open Opener, url, dest string) ([]string, error) {
	s, err := open()
	if err != nil {
		return nil, err
	}
	defer p.closeSession(s)

	urls, _, err := p.Listings(ctx, s, url, dest)
	return urls, err
}

// ScrapeReviews opens a session, runs Reviews and closes the session. With
// no seeds no browser is started and an empty batch is written.
func (p *Pipeline) ScrapeReviews(ctx context.Context, open Opener, seeds []string, dest string) error {
	if len(seeds) == 0 {
		p.logger.Warn("no review seeds, writing empty review file", "dest", dest)
		_, err := p.emitter.Emit(ctx, extract.GroupNames(extract.ReviewFields(p.cfg.Review)), nil, dest)
		return err
	}

	s, err := open()
	if err != nil {
		return err
	}
	defer p.closeSession(s)

	_, outcomes, err := p.Reviews(ctx, s, seeds, dest)
	failed := 0
	for _, o := range outcomes {
		if o.State == loader.SeedFailed {
			failed++
		}
	}
	if failed > 0 {
		p.logger.Warn("some review seeds failed", "failed", failed, "seeds", len(seeds))
	}
	return err
}

// Run scrapes the listing page, derives review URLs from it and scrapes
// those. The URL list is passed along directly; nothing is kept between runs.
func (p *Pipeline) Run(ctx context.Context, open Opener, listingURL, listingsDest, reviewsDest string) error {
	urls, err := p.ScrapeListings(ctx, open, listingURL, listingsDest)
	if err != nil {
		return err
	}
	seeds := ReviewURLs(urls, p.cfg.Review.MaxSeeds)
	p.logger.Info("review seeds selected", "available", len(urls), "selected", len(seeds))
	return p.ScrapeReviews(ctx, open, seeds, reviewsDest)
}

// ReviewURLs maps restaurant order URLs to their review pages, skipping
// unresolved entries, and keeps at most limit of them (limit <= 0 keeps all).
func ReviewURLs(urls []string, limit int) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || u == models.Sentinel {
			continue
		}
		out = append(out, strings.ReplaceAll(u, "/order", "/reviews"))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (p *Pipeline) closeSession(s browser.Surface) {
	if err := s.Close(); err != nil {
		p.logger.Warn("failed to close browser session", "error", err)
	}
}
