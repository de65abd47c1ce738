// Package browsertest provides an in-memory browser.Surface for tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/models"
)

// Node is a fake DOM node. Children are keyed by the locator that finds
// them, so tests describe exactly what each lookup returns.
type Node struct {
	Text     string
	TextErr  error
	Attrs    map[string]string
	Children map[browser.Locator][]*Node

	// ClickTo names the page a click on this node loads.
	ClickTo  string
	ClickErr error
}

// El builds a node with text and optional children.
func El(text string) *Node {
	return &Node{Text: text, Children: map[browser.Locator][]*Node{}}
}

// With registers children under loc and returns n for chaining.
func (n *Node) With(loc browser.Locator, kids ...*Node) *Node {
	if n.Children == nil {
		n.Children = map[browser.Locator][]*Node{}
	}
	n.Children[loc] = append(n.Children[loc], kids...)
	return n
}

// Attr sets an attribute and returns n for chaining.
func (n *Node) Attr(name, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[name] = value
	return n
}

// Surface is a scripted browser.Surface. Pages are keyed by URL (or any
// name used in Node.ClickTo).
type Surface struct {
	Pages     map[string]*Node
	NavErrors map[string]error

	// Heights is replayed by Height, one entry per call; the last value
	// repeats once exhausted.
	Heights []int

	Current     *Node
	Navigations []string
	Scrolls     int
	HeightReads int
	Clicks      int
	Closed      bool
}

// New returns an empty fake surface.
func New() *Surface {
	return &Surface{Pages: map[string]*Node{}, NavErrors: map[string]error{}}
}

func (s *Surface) Navigate(_ context.Context, url string) error {
	s.Navigations = append(s.Navigations, url)
	if err := s.NavErrors[url]; err != nil {
		return models.NewScrapeError(models.ErrCodeNavigation, "navigation to "+url+" failed", err)
	}
	page, ok := s.Pages[url]
	if !ok {
		return models.NewScrapeError(models.ErrCodeNavigation, "no such page "+url, nil)
	}
	s.Current = page
	return nil
}

func (s *Surface) ScrollToBottom(context.Context) error {
	s.Scrolls++
	return nil
}

func (s *Surface) Height(context.Context) (int, error) {
	if len(s.Heights) == 0 {
		return 0, errors.New("browsertest: no heights scripted")
	}
	i := s.HeightReads
	if i >= len(s.Heights) {
		i = len(s.Heights) - 1
	}
	s.HeightReads++
	return s.Heights[i], nil
}

func (s *Surface) WaitVisible(_ context.Context, loc browser.Locator, timeout time.Duration) ([]browser.Element, error) {
	if s.Current != nil {
		if kids := s.Current.Children[loc]; len(kids) > 0 {
			return elements(kids), nil
		}
	}
	return nil, models.NewScrapeError(
		models.ErrCodeLoadTimeout,
		fmt.Sprintf("no element matching %s became visible within %s", loc, timeout),
		nil,
	)
}

func (s *Surface) Locate(ctx context.Context, scope browser.Element, loc browser.Locator) (browser.Element, error) {
	kids, err := s.children(scope, loc)
	if err != nil {
		return nil, err
	}
	if len(kids) == 0 {
		return nil, browser.ErrNotFound
	}
	return kids[0], nil
}

func (s *Surface) LocateAll(ctx context.Context, scope browser.Element, loc browser.Locator) ([]browser.Element, error) {
	kids, err := s.children(scope, loc)
	if err != nil {
		return nil, err
	}
	return elements(kids), nil
}

func (s *Surface) Click(_ context.Context, el browser.Element) error {
	n, ok := el.(*Node)
	if !ok {
		return browser.ErrForeignElement
	}
	s.Clicks++
	if n.ClickErr != nil {
		return n.ClickErr
	}
	page, ok := s.Pages[n.ClickTo]
	if !ok {
		return fmt.Errorf("browsertest: click target %q not scripted", n.ClickTo)
	}
	s.Current = page
	return nil
}

func (s *Surface) Text(_ context.Context, el browser.Element) (string, error) {
	n, ok := el.(*Node)
	if !ok {
		return "", browser.ErrForeignElement
	}
	if n.TextErr != nil {
		return "", n.TextErr
	}
	return n.Text, nil
}

func (s *Surface) Attribute(_ context.Context, el browser.Element, name string) (string, error) {
	n, ok := el.(*Node)
	if !ok {
		return "", browser.ErrForeignElement
	}
	v, ok := n.Attrs[name]
	if !ok {
		return "", browser.ErrNotFound
	}
	return v, nil
}

func (s *Surface) Close() error {
	s.Closed = true
	return nil
}

func (s *Surface) children(scope browser.Element, loc browser.Locator) ([]*Node, error) {
	if scope == nil {
		if s.Current == nil {
			return nil, errors.New("browsertest: no page loaded")
		}
		return s.Current.Children[loc], nil
	}
	n, ok := scope.(*Node)
	if !ok {
		return nil, browser.ErrForeignElement
	}
	return n.Children[loc], nil
}

func elements(nodes []*Node) []browser.Element {
	out := make([]browser.Element, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

var _ browser.Surface = (*Surface)(nil)
