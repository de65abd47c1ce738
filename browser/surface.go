// Package browser defines the page automation surface the scraping core
// drives, plus a Chromium implementation (rod) and a plain-HTTP one.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/dinescrape/config"
	"github.com/use-agent/dinescrape/models"
)

var (
	// ErrNotFound is returned by Locate and Attribute when nothing matches.
	ErrNotFound = errors.New("browser: element not found")

	// ErrUnsupportedLocator is returned when a Surface cannot evaluate a
	// locator kind (the static surface has no XPath engine).
	ErrUnsupportedLocator = errors.New("browser: unsupported locator")

	// ErrForeignElement is returned when an Element handle was produced by a
	// different Surface implementation.
	ErrForeignElement = errors.New("browser: element belongs to another surface")
)

// Kind selects the lookup language of a Locator.
type Kind int

const (
	CSS Kind = iota
	XPath
)

func (k Kind) String() string {
	if k == XPath {
		return "xpath"
	}
	return "css"
}

// Locator is a lookup rule evaluated against the page or an element.
type Locator struct {
	Kind Kind
	Expr string
}

// ByCSS builds a CSS selector locator.
func ByCSS(expr string) Locator { return Locator{Kind: CSS, Expr: expr} }

// ByXPath builds an XPath locator.
func ByXPath(expr string) Locator { return Locator{Kind: XPath, Expr: expr} }

func (l Locator) String() string {
	return fmt.Sprintf("%s(%s)", l.Kind, l.Expr)
}

// Validate checks that the locator is well formed. CSS selectors are parsed
// with cascadia so typos fail at startup instead of as a column of NA.
func (l Locator) Validate() error {
	if l.Expr == "" {
		return fmt.Errorf("empty %s locator", l.Kind)
	}
	if l.Kind == CSS {
		if _, err := cascadia.ParseGroup(l.Expr); err != nil {
			return fmt.Errorf("invalid css selector %q: %w", l.Expr, err)
		}
	}
	return nil
}

// Element is an opaque handle to a node owned by the Surface that
// produced it. Handles never outlive the page load that created them.
type Element any

// Surface is the browser capability the scraping core consumes. Every call
// blocks the pipeline until it completes.
type Surface interface {
	// Navigate loads url in the session's single page.
	Navigate(ctx context.Context, url string) error

	// ScrollToBottom scrolls the page to its current bottom.
	ScrollToBottom(ctx context.Context) error

	// Height reads the page-height proxy used to detect new content.
	Height(ctx context.Context) (int, error)

	// WaitVisible waits up to timeout for at least one element matching loc
	// to become visible and returns all visible matches. It fails with a
	// LOAD_TIMEOUT ScrapeError when none appear.
	WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error)

	// Locate returns the first match of loc inside scope (nil scope means the
	// whole page), or ErrNotFound.
	Locate(ctx context.Context, scope Element, loc Locator) (Element, error)

	// LocateAll returns every match of loc inside scope in document order.
	LocateAll(ctx context.Context, scope Element, loc Locator) ([]Element, error)

	Click(ctx context.Context, el Element) error
	Text(ctx context.Context, el Element) (string, error)

	// Attribute reads a named attribute, or ErrNotFound when it is absent.
	Attribute(ctx context.Context, el Element, name string) (string, error)

	// Close releases the session. It is safe to call more than once.
	Close() error
}

// Open starts a browsing session using the engine named in cfg.
func Open(cfg config.BrowserConfig) (Surface, error) {
	switch cfg.Engine {
	case "", "rod":
		return NewRod(cfg)
	case "http":
		return NewStatic(cfg), nil
	default:
		return nil, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown browser engine %q", cfg.Engine),
			nil,
		)
	}
}

// loadTimeout builds the error WaitVisible returns when nothing shows up.
func loadTimeout(loc Locator, timeout time.Duration, err error) *models.ScrapeError {
	return models.NewScrapeError(
		models.ErrCodeLoadTimeout,
		fmt.Sprintf("no element matching %s became visible within %s", loc, timeout),
		err,
	)
}
