package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Target  TargetConfig
	Browser BrowserConfig
	Loader  LoaderConfig
	Review  ReviewConfig
	Output  OutputConfig
	Log     LogConfig
}

// TargetConfig names the listing page to start from.
type TargetConfig struct {
	ListingURL string // default: "https://www.zomato.com/bangalore/delivery"
}

// BrowserConfig controls the browsing session.
type BrowserConfig struct {
	// Engine selects the Surface implementation: "rod" or "http".
	Engine string // default: "rod"

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL for all requests.
	Proxy string

	// Stealth enables anti-bot-detection evasions.
	Stealth bool // default: true

	// NavigationTimeout is the max time for a single navigation.
	NavigationTimeout time.Duration // default: 30s

	// ActionTimeout bounds each element action (locate, click, read).
	ActionTimeout time.Duration // default: 10s

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds drops requests to well-known ad and tracking domains.
	BlockAds bool // default: true

	// AcceptLanguage is sent with every request.
	AcceptLanguage string // default: "en-IN,en;q=0.9"
}

// LoaderConfig controls scrolling, pagination and settle intervals.
type LoaderConfig struct {
	// ScrollSettle is the pause after each scroll-to-bottom.
	ScrollSettle time.Duration // default: 10s

	// MaxScrolls bounds the scroll loop when the page height never settles.
	MaxScrolls int // default: 50

	// VisibleTimeout is how long to wait for listing cards to become visible.
	VisibleTimeout time.Duration // default: 20s

	// NavigateSettle is the pause after loading a review seed URL.
	NavigateSettle time.Duration // default: 3s

	// ClickSettle is the pause after clicking the "next" control.
	ClickSettle time.Duration // default: 5s

	// MaxPages is the per-seed page budget for review pagination.
	MaxPages int // default: 10

	// NavRate is the navigation rate limit in navigations per second.
	NavRate float64 // default: 1
}

// ReviewConfig controls the review pass.
type ReviewConfig struct {
	// MaxSeeds caps how many restaurants have their reviews scraped.
	MaxSeeds int // default: 2

	// ParagraphPeriod and the offsets below describe the interleaved
	// rendering order of review blocks. They track the live page markup.
	ParagraphPeriod     int // default: 4
	ReviewerNameOffset  int // default: 0
	ReviewTextOffset    int // default: 2
	SpanPeriod          int // default: 7
	ReviewCountOffset   int // default: 0
	FollowerCountOffset int // default: 1
}

// Interleave defaults for review blocks: four <p> per review (name, -,
// text, -) and seven <span> (review count, followers, ...).
const (
	DefaultParagraphPeriod     = 4
	DefaultReviewerNameOffset  = 0
	DefaultReviewTextOffset    = 2
	DefaultSpanPeriod          = 7
	DefaultReviewCountOffset   = 0
	DefaultFollowerCountOffset = 1
)

// DefaultReviewConfig returns the review settings used when nothing is
// configured.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		MaxSeeds:            2,
		ParagraphPeriod:     DefaultParagraphPeriod,
		ReviewerNameOffset:  DefaultReviewerNameOffset,
		ReviewTextOffset:    DefaultReviewTextOffset,
		SpanPeriod:          DefaultSpanPeriod,
		ReviewCountOffset:   DefaultReviewCountOffset,
		FollowerCountOffset: DefaultFollowerCountOffset,
	}
}

// OutputConfig names the default CSV destinations.
type OutputConfig struct {
	ListingsPath string // default: "zomato_data.csv"
	ReviewsPath  string // default: "zomato_reviews.csv"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	review := DefaultReviewConfig()
	return &Config{
		Target: TargetConfig{
			ListingURL: envOr("DINESCRAPE_LISTING_URL", "https://www.zomato.com/bangalore/delivery"),
		},
		Browser: BrowserConfig{
			Engine:            envOr("DINESCRAPE_ENGINE", "rod"),
			Headless:          envBoolOr("DINESCRAPE_HEADLESS", true),
			NoSandbox:         envBoolOr("DINESCRAPE_NO_SANDBOX", false),
			BrowserBin:        os.Getenv("DINESCRAPE_BROWSER_BIN"),
			Proxy:             os.Getenv("DINESCRAPE_PROXY"),
			Stealth:           envBoolOr("DINESCRAPE_STEALTH", true),
			NavigationTimeout: envDurationOr("DINESCRAPE_NAV_TIMEOUT", 30*time.Second),
			ActionTimeout:     envDurationOr("DINESCRAPE_ACTION_TIMEOUT", 10*time.Second),
			BlockedResourceTypes: envSliceOr("DINESCRAPE_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			BlockAds:       envBoolOr("DINESCRAPE_BLOCK_ADS", true),
			AcceptLanguage: envOr("DINESCRAPE_ACCEPT_LANGUAGE", "en-IN,en;q=0.9"),
		},
		Loader: LoaderConfig{
			ScrollSettle:   envDurationOr("DINESCRAPE_SCROLL_SETTLE", 10*time.Second),
			MaxScrolls:     envIntOr("DINESCRAPE_MAX_SCROLLS", 50),
			VisibleTimeout: envDurationOr("DINESCRAPE_VISIBLE_TIMEOUT", 20*time.Second),
			NavigateSettle: envDurationOr("DINESCRAPE_NAVIGATE_SETTLE", 3*time.Second),
			ClickSettle:    envDurationOr("DINESCRAPE_CLICK_SETTLE", 5*time.Second),
			MaxPages:       envIntOr("DINESCRAPE_MAX_PAGES", 10),
			NavRate:        envFloatOr("DINESCRAPE_NAV_RATE", 1.0),
		},
		Review: ReviewConfig{
			MaxSeeds:            envIntOr("DINESCRAPE_REVIEW_SEEDS", review.MaxSeeds),
			ParagraphPeriod:     envIntOr("DINESCRAPE_PARAGRAPH_PERIOD", review.ParagraphPeriod),
			ReviewerNameOffset:  envIntOr("DINESCRAPE_REVIEWER_NAME_OFFSET", review.ReviewerNameOffset),
			ReviewTextOffset:    envIntOr("DINESCRAPE_REVIEW_TEXT_OFFSET", review.ReviewTextOffset),
			SpanPeriod:          envIntOr("DINESCRAPE_SPAN_PERIOD", review.SpanPeriod),
			ReviewCountOffset:   envIntOr("DINESCRAPE_REVIEW_COUNT_OFFSET", review.ReviewCountOffset),
			FollowerCountOffset: envIntOr("DINESCRAPE_FOLLOWER_COUNT_OFFSET", review.FollowerCountOffset),
		},
		Output: OutputConfig{
			ListingsPath: envOr("DINESCRAPE_LISTINGS_OUT", "zomato_data.csv"),
			ReviewsPath:  envOr("DINESCRAPE_REVIEWS_OUT", "zomato_reviews.csv"),
		},
		Log: LogConfig{
			Level:  envOr("DINESCRAPE_LOG_LEVEL", "info"),
			Format: envOr("DINESCRAPE_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
