package browser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/dinescrape/config"
	"github.com/use-agent/dinescrape/models"
)

// Static is a Surface over server-rendered HTML. It runs no JavaScript:
// scrolling never loads more content, the height proxy is the document
// size, and clicking a link navigates to its href.
type Static struct {
	fetcher *httpFetcher
	doc     *goquery.Document
	base    *url.URL
	height  int
}

// NewStatic creates a Static surface that fetches pages over HTTP.
func NewStatic(cfg config.BrowserConfig) *Static {
	return &Static{
		fetcher: newHTTPFetcher(cfg.Proxy, cfg.AcceptLanguage, cfg.NavigationTimeout),
	}
}

func (s *Static) Navigate(ctx context.Context, rawURL string) error {
	body, final, err := s.fetcher.fetch(ctx, rawURL)
	if err != nil {
		return categorizeError(err, "navigation to "+rawURL+" failed")
	}
	title, err := checkPage(body)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeNavigation, "cannot scrape "+rawURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.NewScrapeError(models.ErrCodeNavigation, "failed to parse "+rawURL, err)
	}
	s.doc = doc
	s.base = final
	s.height = len(body)
	slog.Debug("static page loaded", "url", final.String(), "title", title, "bytes", len(body))
	return nil
}

// ScrollToBottom is a no-op: nothing is lazily loaded without JavaScript.
func (s *Static) ScrollToBottom(context.Context) error {
	if s.doc == nil {
		return errNoPage
	}
	return nil
}

func (s *Static) Height(context.Context) (int, error) {
	if s.doc == nil {
		return 0, errNoPage
	}
	return s.height, nil
}

// WaitVisible does not wait: the document is already complete, so either
// the containers are there or they never will be.
func (s *Static) WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error) {
	els, err := s.LocateAll(ctx, nil, loc)
	if err != nil {
		return nil, loadTimeout(loc, timeout, err)
	}
	if len(els) == 0 {
		return nil, loadTimeout(loc, timeout, nil)
	}
	return els, nil
}

func (s *Static) Locate(ctx context.Context, scope Element, loc Locator) (Element, error) {
	sel, err := s.find(scope, loc)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, ErrNotFound
	}
	return sel.First(), nil
}

func (s *Static) LocateAll(ctx context.Context, scope Element, loc Locator) ([]Element, error) {
	sel, err := s.find(scope, loc)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, node *goquery.Selection) {
		out = append(out, node)
	})
	return out, nil
}

func (s *Static) find(scope Element, loc Locator) (*goquery.Selection, error) {
	if loc.Kind != CSS {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocator, loc)
	}
	if scope == nil {
		if s.doc == nil {
			return nil, errNoPage
		}
		return s.doc.Find(loc.Expr), nil
	}
	sel, ok := scope.(*goquery.Selection)
	if !ok {
		return nil, ErrForeignElement
	}
	return sel.Find(loc.Expr), nil
}

// Click follows the element's href, or the href of its closest anchor.
func (s *Static) Click(ctx context.Context, el Element) error {
	sel, ok := el.(*goquery.Selection)
	if !ok {
		return ErrForeignElement
	}
	anchor := sel.Closest("a[href]")
	href, exists := anchor.Attr("href")
	if !exists || href == "" {
		return fmt.Errorf("static click: element is not a link")
	}
	return s.Navigate(ctx, s.resolve(href))
}

func (s *Static) Text(_ context.Context, el Element) (string, error) {
	sel, ok := el.(*goquery.Selection)
	if !ok {
		return "", ErrForeignElement
	}
	return strings.TrimSpace(sel.Text()), nil
}

// Attribute resolves href and src against the page URL, matching what a
// browser reports for the DOM property.
func (s *Static) Attribute(_ context.Context, el Element, name string) (string, error) {
	sel, ok := el.(*goquery.Selection)
	if !ok {
		return "", ErrForeignElement
	}
	v, exists := sel.Attr(name)
	if !exists {
		return "", ErrNotFound
	}
	if name == "href" || name == "src" {
		return s.resolve(v), nil
	}
	return v, nil
}

func (s *Static) resolve(ref string) string {
	if s.base == nil {
		return ref
	}
	u, err := s.base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func (s *Static) Close() error {
	s.fetcher.close()
	s.doc = nil
	return nil
}

var errNoPage = fmt.Errorf("static surface: no page loaded")

var _ Surface = (*Static)(nil)
