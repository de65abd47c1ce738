// Package loader drives a browser.Surface until dynamic content stops
// appearing: scroll-until-stable for listing pages and a bounded
// click-through pager for review pages.
package loader

import (
	"context"
	"log/slog"
	"math"

	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/config"
	"github.com/use-agent/dinescrape/models"
	"golang.org/x/time/rate"
)

// defaultMaxScrolls bounds the scroll loop when config leaves it unset.
const defaultMaxScrolls = 50

// Loader holds the wait policy shared by both loading modes.
type Loader struct {
	cfg     config.LoaderConfig
	clock   Clock
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a Loader. A nil clock uses RealClock and a nil logger uses
// slog.Default(). Seed navigations are paced at cfg.NavRate per second;
// a non-positive rate disables pacing.
func New(cfg config.LoaderConfig, clock Clock, logger *slog.Logger) *Loader {
	if clock == nil {
		clock = RealClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = defaultMaxScrolls
	}
	limit := rate.Inf
	if cfg.NavRate > 0 && !math.IsInf(cfg.NavRate, 1) {
		limit = rate.Limit(cfg.NavRate)
	}
	return &Loader{
		cfg:     cfg,
		clock:   clock,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Scroll repeatedly scrolls to the bottom of the current page, waits for
// it to settle and re-reads the height, stopping once two consecutive
// reads agree or MaxScrolls is reached. It then returns every visible
// container matching card, failing with LOAD_TIMEOUT if none appear
// within VisibleTimeout.
func (l *Loader) Scroll(ctx context.Context, s browser.Surface, card browser.Locator) ([]browser.Element, error) {
	last, err := s.Height(ctx)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeLoadTimeout, "failed to read page height", err)
	}

	scrolls := 0
	for {
		if scrolls >= l.cfg.MaxScrolls {
			l.logger.Warn("page height never settled, giving up on scrolling",
				"scrolls", scrolls,
				"height", last,
			)
			break
		}
		if err := s.ScrollToBottom(ctx); err != nil {
			return nil, models.NewScrapeError(models.ErrCodeLoadTimeout, "scroll to bottom failed", err)
		}
		scrolls++
		if err := l.clock.Sleep(ctx, l.cfg.ScrollSettle); err != nil {
			return nil, models.NewScrapeError(models.ErrCodeLoadTimeout, "interrupted while settling", err)
		}

		height, err := s.Height(ctx)
		if err != nil {
			return nil, models.NewScrapeError(models.ErrCodeLoadTimeout, "failed to read page height", err)
		}
		if height == last {
			break
		}
		last = height
	}
	l.logger.Info("listing page stable", "scrolls", scrolls, "height", last)

	cards, err := s.WaitVisible(ctx, card, l.cfg.VisibleTimeout)
	if err != nil {
		return nil, err
	}
	l.logger.Info("listing cards located", "count", len(cards))
	return cards, nil
}
