package browser

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/dinescrape/config"
	"github.com/use-agent/dinescrape/models"
	"github.com/ysmood/gson"
)

// visiblePoll is how often WaitVisible re-checks the DOM.
const visiblePoll = 250 * time.Millisecond

// defaultActionTimeout is the per-action deadline when config leaves it unset.
const defaultActionTimeout = 10 * time.Second

// actionContext bounds a single element action. rod's interactable and
// stability waits retry until their context ends.
func actionContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Rod drives a single Chromium tab through go-rod.
type Rod struct {
	browser *rod.Browser
	page    *rod.Page
	router  *rod.HijackRouter
	cfg     config.BrowserConfig
	closed  bool
}

// NewRod launches Chromium and opens the session's page.
func NewRod(cfg config.BrowserConfig) (*Rod, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	// Stealth and hijack only apply to navigations made after they are
	// installed, so both happen before the first Navigate.
	if cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}
	if cfg.AcceptLanguage != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{"Accept-Language": cfg.AcceptLanguage}),
		}.Call(page)
	}

	return &Rod{
		browser: b,
		page:    page,
		router:  setupHijack(page, cfg.BlockedResourceTypes, cfg.BlockAds),
		cfg:     cfg,
	}, nil
}

func (r *Rod) Navigate(ctx context.Context, url string) error {
	timeout := r.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := r.page.Context(navCtx)
	if err := p.Navigate(url); err != nil {
		return categorizeError(err, "navigation to "+url+" failed")
	}
	if err := p.WaitLoad(); err != nil {
		return categorizeError(err, "waiting for "+url+" to load failed")
	}
	return nil
}

func (r *Rod) ScrollToBottom(ctx context.Context) error {
	ctx, cancel := actionContext(ctx, r.cfg.ActionTimeout)
	defer cancel()
	_, err := r.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

func (r *Rod) Height(ctx context.Context) (int, error) {
	ctx, cancel := actionContext(ctx, r.cfg.ActionTimeout)
	defer cancel()
	res, err := r.page.Context(ctx).Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

func (r *Rod) WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(visiblePoll)
	defer ticker.Stop()

	for {
		els, err := r.elements(waitCtx, nil, loc)
		if err == nil {
			visible := make([]Element, 0, len(els))
			for _, el := range els {
				if ok, vErr := el.Visible(); vErr == nil && ok {
					visible = append(visible, el)
				}
			}
			if len(visible) > 0 {
				return visible, nil
			}
		}

		select {
		case <-waitCtx.Done():
			return nil, loadTimeout(loc, timeout, waitCtx.Err())
		case <-ticker.C:
		}
	}
}

func (r *Rod) Locate(ctx context.Context, scope Element, loc Locator) (Element, error) {
	ctx, cancel := actionContext(ctx, r.cfg.ActionTimeout)
	defer cancel()

	var (
		found bool
		el    *rod.Element
		err   error
	)
	if scope == nil {
		p := r.page.Context(ctx)
		if loc.Kind == XPath {
			found, el, err = p.HasX(loc.Expr)
		} else {
			found, el, err = p.Has(loc.Expr)
		}
	} else {
		parent, ok := scope.(*rod.Element)
		if !ok {
			return nil, ErrForeignElement
		}
		parent = parent.Context(ctx)
		if loc.Kind == XPath {
			found, el, err = parent.HasX(loc.Expr)
		} else {
			found, el, err = parent.Has(loc.Expr)
		}
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return el, nil
}

func (r *Rod) LocateAll(ctx context.Context, scope Element, loc Locator) ([]Element, error) {
	ctx, cancel := actionContext(ctx, r.cfg.ActionTimeout)
	defer cancel()

	els, err := r.elements(ctx, scope, loc)
	if err != nil {
		return nil, err
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out, nil
}

func (r *Rod) elements(ctx context.Context, scope Element, loc Locator) (rod.Elements, error) {
	if scope == nil {
		p := r.page.Context(ctx)
		if loc.Kind == XPath {
			return p.ElementsX(loc.Expr)
		}
		return p.Elements(loc.Expr)
	}
	parent, ok := scope.(*rod.Element)
	if !ok {
		return nil, ErrForeignElement
	}
	parent = parent.Context(ctx)
	if loc.Kind == XPath {
		return parent.ElementsX(loc.Expr)
	}
	return parent.Elements(loc.Expr)
}

func (r *Rod) Click(ctx context.Context, el Element) error {
	e, ok := el.(*rod.Element)
	if !ok {
		return ErrForeignElement
	}
	ctx, cancel := actionContext(ctx, r.cfg.ActionTimeout)
	defer cancel()
	return e.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (r *Rod) Text(ctx context.Context, el Element) (string, error) {
	e, ok := el.(*rod.Element)
	if !ok {
		return "", ErrForeignElement
	}
	ctx, cancel := actionContext(ctx, r.cfg.ActionTimeout)
	defer cancel()
	return e.Context(ctx).Text()
}

// Attribute prefers the live DOM property (so href comes back absolute),
// falling back to the raw attribute.
func (r *Rod) Attribute(ctx context.Context, el Element, name string) (string, error) {
	e, ok := el.(*rod.Element)
	if !ok {
		return "", ErrForeignElement
	}
	ctx, cancel := actionContext(ctx, r.cfg.ActionTimeout)
	defer cancel()
	e = e.Context(ctx)
	if prop, err := e.Property(name); err == nil && !prop.Nil() {
		if s := prop.Str(); s != "" {
			return s, nil
		}
	}
	attr, err := e.Attribute(name)
	if err != nil {
		return "", err
	}
	if attr == nil {
		return "", ErrNotFound
	}
	return *attr, nil
}

// Close stops the hijack router and kills the browser process.
func (r *Rod) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	if r.router != nil {
		errs = append(errs, r.router.Stop())
	}
	errs = append(errs, r.page.Close(), r.browser.Close())
	slog.Debug("browser closed")
	return errors.Join(errs...)
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ScrapeErrors.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeNavigation, msg+": timed out", err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeNavigation, "navigation canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}

var _ Surface = (*Rod)(nil)
