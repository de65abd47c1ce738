package loader

import (
	"context"
	"log/slog"

	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/models"
)

// defaultMaxPages is the per-seed page budget when config leaves it unset.
const defaultMaxPages = 10

// State is a step of the review pager.
type State int

const (
	FetchPage State = iota
	ExtractFields
	ClickNext
	Done
	SeedFailed
)

func (s State) String() string {
	switch s {
	case FetchPage:
		return "fetch_page"
	case ExtractFields:
		return "extract_fields"
	case ClickNext:
		return "click_next"
	case Done:
		return "done"
	case SeedFailed:
		return "seed_failed"
	default:
		return "unknown"
	}
}

// Stop says why a seed reached its terminal state.
type Stop string

const (
	StopExhausted        Stop = "next control absent"
	StopBudget           Stop = "page budget reached"
	StopContainerMissing Stop = "review container not found"
	StopNavigation       Stop = "navigation failed"
	StopInterrupted      Stop = "interrupted"
)

// PageTarget names the locators the pager needs on every review page.
type PageTarget struct {
	Container browser.Locator
	Next      browser.Locator
}

// PageFunc receives the container of each fetched page. page counts from
// zero within a seed.
type PageFunc func(ctx context.Context, seed string, page int, container browser.Element)

// SeedOutcome is the terminal result of paginating one seed URL. Err is
// set for every stop except the page budget. A PAGINATION_EXHAUSTED Err
// is the normal end of a seed.
type SeedOutcome struct {
	URL   string
	State State
	Pages int
	Stop  Stop
	Err   error
}

// Paginate walks each seed in order. A seed that fails to load is marked
// SeedFailed and the next one proceeds; nothing a single seed does stops
// the others.
func (l *Loader) Paginate(ctx context.Context, s browser.Surface, seeds []string, target PageTarget, fn PageFunc) []SeedOutcome {
	out := make([]SeedOutcome, 0, len(seeds))
	for _, seed := range seeds {
		res := l.paginateSeed(ctx, s, seed, target, fn)
		l.logger.Info("review seed finished",
			"url", seed,
			"state", res.State.String(),
			"pages", res.Pages,
			"stop", string(res.Stop),
		)
		out = append(out, res)
	}
	return out
}

func (l *Loader) paginateSeed(ctx context.Context, s browser.Surface, seed string, target PageTarget, fn PageFunc) SeedOutcome {
	res := SeedOutcome{URL: seed, State: FetchPage}

	if err := l.limiter.Wait(ctx); err != nil {
		return l.fail(res, StopInterrupted, err)
	}
	if err := s.Navigate(ctx, seed); err != nil {
		if !models.IsCode(err, models.ErrCodeNavigation) {
			err = models.NewScrapeError(models.ErrCodeNavigation, "navigation to "+seed+" failed", err)
		}
		return l.fail(res, StopNavigation, err)
	}
	if err := l.clock.Sleep(ctx, l.cfg.NavigateSettle); err != nil {
		return l.fail(res, StopInterrupted, err)
	}

	maxPages := l.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var container browser.Element
	for res.State != Done {
		switch res.State {
		case FetchPage:
			if res.Pages >= maxPages {
				res.Stop = StopBudget
				res.State = Done
				continue
			}
			el, err := s.Locate(ctx, nil, target.Container)
			if err != nil {
				l.logger.Error("error processing review page",
					"url", seed,
					"page", res.Pages,
					"error", err,
				)
				res.Stop = StopContainerMissing
				res.Err = err
				res.State = Done
				continue
			}
			container = el
			res.State = ExtractFields

		case ExtractFields:
			fn(ctx, seed, res.Pages, container)
			res.Pages++
			res.State = ClickNext

		case ClickNext:
			if res.Pages >= maxPages {
				res.Stop = StopBudget
				res.State = Done
				continue
			}
			next, err := s.Locate(ctx, nil, target.Next)
			if err == nil {
				err = s.Click(ctx, next)
			}
			if err != nil {
				l.logger.Info("no more review pages", "url", seed, "pages", res.Pages, "reason", err)
				res.Stop = StopExhausted
				res.Err = models.NewScrapeError(models.ErrCodePaginationExhausted, "no next review page", err)
				res.State = Done
				continue
			}
			if err := l.clock.Sleep(ctx, l.cfg.ClickSettle); err != nil {
				res.Stop = StopInterrupted
				res.Err = err
				res.State = Done
				continue
			}
			res.State = FetchPage
		}
	}
	return res
}

func (l *Loader) fail(res SeedOutcome, stop Stop, err error) SeedOutcome {
	l.logger.Error("review seed failed", slog.String("url", res.URL), slog.Any("error", err))
	res.State = SeedFailed
	res.Stop = stop
	res.Err = err
	return res
}
