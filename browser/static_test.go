package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/dinescrape/config"
	"github.com/use-agent/dinescrape/models"
)

const listingPage = `<html><head><title>Delivery</title></head><body>
<div class="card"><h4>Truffles</h4><a class="link" href="/bangalore/truffles/order">open</a></div>
<div class="card"><h4>Meghana Foods</h4></div>
<a id="next" href="/page2">Next</a>
</body></html>`

const secondPage = `<html><body><div class="card"><h4>Empire</h4></div></body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage)
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, secondPage)
	})
	mux.HandleFunc("/shell", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Zomato</title></head><body><div id="root"></div><script>boot()</script></body></html>`)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStatic_LocateAndRead(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	s := NewStatic(config.BrowserConfig{NavigationTimeout: 5 * time.Second})
	defer s.Close()

	require.NoError(t, s.Navigate(ctx, srv.URL+"/"))

	cards, err := s.WaitVisible(ctx, ByCSS("div.card"), time.Second)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	name, err := s.Locate(ctx, cards[0], ByCSS("h4"))
	require.NoError(t, err)
	text, err := s.Text(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "Truffles", text)

	link, err := s.Locate(ctx, cards[0], ByCSS("a.link"))
	require.NoError(t, err)
	href, err := s.Attribute(ctx, link, "href")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/bangalore/truffles/order", href)

	_, err = s.Locate(ctx, cards[1], ByCSS("a.link"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Attribute(ctx, name, "href")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatic_HeightIsStable(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	s := NewStatic(config.BrowserConfig{})
	defer s.Close()

	require.NoError(t, s.Navigate(ctx, srv.URL+"/"))
	h1, err := s.Height(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ScrollToBottom(ctx))
	h2, err := s.Height(ctx)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Equal(t, len(listingPage), h1)
}

func TestStatic_ClickFollowsLink(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	s := NewStatic(config.BrowserConfig{})
	defer s.Close()

	require.NoError(t, s.Navigate(ctx, srv.URL+"/"))
	next, err := s.Locate(ctx, nil, ByCSS("#next"))
	require.NoError(t, err)
	require.NoError(t, s.Click(ctx, next))

	cards, err := s.LocateAll(ctx, nil, ByCSS("div.card h4"))
	require.NoError(t, err)
	require.Len(t, cards, 1)
	text, _ := s.Text(ctx, cards[0])
	assert.Equal(t, "Empire", text)

	_, err = s.Locate(ctx, nil, ByCSS("#next"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatic_Errors(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	s := NewStatic(config.BrowserConfig{})
	defer s.Close()

	err := s.Navigate(ctx, srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.ErrCodeNavigation))

	_, err = s.WaitVisible(ctx, ByCSS("div.card"), time.Second)
	assert.True(t, models.IsCode(err, models.ErrCodeLoadTimeout))

	require.NoError(t, s.Navigate(ctx, srv.URL+"/"))
	_, err = s.WaitVisible(ctx, ByCSS("section.none"), time.Second)
	assert.True(t, models.IsCode(err, models.ErrCodeLoadTimeout))

	_, err = s.Locate(ctx, nil, ByXPath("//div"))
	assert.ErrorIs(t, err, ErrUnsupportedLocator)

	_, err = s.Text(ctx, "not a selection")
	assert.ErrorIs(t, err, ErrForeignElement)
}

func TestStatic_RejectsScriptShell(t *testing.T) {
	srv := newTestServer(t)
	s := NewStatic(config.BrowserConfig{})
	defer s.Close()

	err := s.Navigate(context.Background(), srv.URL+"/shell")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.ErrCodeNavigation))
	assert.ErrorIs(t, err, errUnusablePage)

	_, err = s.Height(context.Background())
	assert.ErrorIs(t, err, errNoPage)
}

func TestCheckPage(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTitle string
		wantErr   bool
	}{
		{"content", listingPage, "Delivery", false},
		{"no title", secondPage, "", false},
		{"challenge", `<html><head><title>Just a moment...</title></head><body><p>Checking your browser</p></body></html>`, "Just a moment...", true},
		{"empty body", `<html><head><title>Menu</title></head><body>  </body></html>`, "Menu", true},
		{"only scripts", `<html><body><script>var x = "text";</script><noscript>enable js</noscript></body></html>`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, err := checkPage([]byte(tt.body))
			assert.Equal(t, tt.wantTitle, title)
			if tt.wantErr {
				assert.ErrorIs(t, err, errUnusablePage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocator_Validate(t *testing.T) {
	assert.NoError(t, ByCSS("div.card > h4").Validate())
	assert.NoError(t, ByCSS(`p[class="sc-1hez2tp-0 fKvqMN"]`).Validate())
	assert.NoError(t, ByXPath("//*[@id='root']").Validate())
	assert.Error(t, ByCSS("div[").Validate())
	assert.Error(t, ByCSS("").Validate())
}

func TestOpen_UnknownEngine(t *testing.T) {
	_, err := Open(config.BrowserConfig{Engine: "lynx"})
	assert.True(t, models.IsCode(err, models.ErrCodeInvalidInput))
}
