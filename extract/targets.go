package extract

import (
	"errors"
	"fmt"

	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/config"
)

// Listing page locators.
var (
	ListingCard = browser.ByCSS(".sc-kDgGX.fjYwDL")

	ListingFields = []Field{
		{Name: "Restaurant_Name", Locator: browser.ByCSS("h4.sc-1hp8d8a-0.sc-lXiCt.hoNwWu")},
		{Name: "Rating", Locator: browser.ByCSS("div.sc-1q7bklc-1.cILgox")},
		{Name: "Cuisine_Type", Locator: browser.ByCSS(".sc-1hez2tp-0.sc-dcOKER.zafot")},
		{Name: "Cost_for_One", Locator: browser.ByCSS(".sc-1hez2tp-0.sc-dcOKER.imYCjj")},
		{Name: "Delivery_Time", Locator: browser.ByCSS("div.min-basic-info-right")},
		{Name: "OFF_offer", Locator: browser.ByCSS(".sc-1hez2tp-0.sc-hPeUyl.kxuuMh")},
		{Name: URLField, Locator: browser.ByCSS("a.sc-gLdKKF.kSLcCi"), Attr: "href"},
	}
)

// URLField is the listing column that feeds the review pass.
const URLField = "Url_link"

// Review page locators.
var (
	ReviewContainer = browser.ByCSS("#root > div > main > div > section:nth-of-type(4) > div > div > section > div:nth-of-type(2)")
	ReviewNext      = browser.ByCSS("#root > div > main > div > section:nth-of-type(4) > div > div > section > div:nth-of-type(3) > div:nth-of-type(2) > div > a:nth-of-type(6)")

	reviewParagraphs = browser.ByCSS("p")
	reviewSpans      = browser.ByCSS("span")
)

// Interleaving of review blocks as rendered today.
const (
	ParagraphPeriod     = config.DefaultParagraphPeriod
	ReviewerNameOffset  = config.DefaultReviewerNameOffset
	ReviewTextOffset    = config.DefaultReviewTextOffset
	SpanPeriod          = config.DefaultSpanPeriod
	ReviewCountOffset   = config.DefaultReviewCountOffset
	FollowerCountOffset = config.DefaultFollowerCountOffset
)

// ReviewFields builds the review group from cfg. A zero period means that
// interleave was not configured, and it takes the default period together
// with the default offsets for it. Offsets alone are taken as given.
func ReviewFields(cfg config.ReviewConfig) []GroupField {
	d := config.DefaultReviewConfig()
	if cfg.ParagraphPeriod == 0 {
		cfg.ParagraphPeriod = d.ParagraphPeriod
		cfg.ReviewerNameOffset = d.ReviewerNameOffset
		cfg.ReviewTextOffset = d.ReviewTextOffset
	}
	if cfg.SpanPeriod == 0 {
		cfg.SpanPeriod = d.SpanPeriod
		cfg.ReviewCountOffset = d.ReviewCountOffset
		cfg.FollowerCountOffset = d.FollowerCountOffset
	}
	pPeriod, sPeriod := cfg.ParagraphPeriod, cfg.SpanPeriod

	return []GroupField{
		{Name: "Customer_name", Locator: reviewParagraphs, Pattern: Pattern{Period: pPeriod, Offset: cfg.ReviewerNameOffset}},
		{Name: "Number_of_Reviews", Locator: reviewSpans, Pattern: Pattern{Period: sPeriod, Offset: cfg.ReviewCountOffset}},
		{Name: "Number_of_Followers", Locator: reviewSpans, Pattern: Pattern{Period: sPeriod, Offset: cfg.FollowerCountOffset}},
		{Name: "Star_Rating", Locator: browser.ByCSS(`div[class="sc-1q7bklc-1 cILgox"]`), Pattern: Every},
		{Name: "Time_of_Posting", Locator: browser.ByCSS(`p[class="sc-1hez2tp-0 fKvqMN time-stamp"]`), Pattern: Every},
		{Name: "Votes_&_Comments", Locator: browser.ByCSS(`p[class="sc-1hez2tp-0 fKvqMN"]`), Pattern: Every},
		{Name: "Review_Text", Locator: reviewParagraphs, Pattern: Pattern{Period: pPeriod, Offset: cfg.ReviewTextOffset}},
		{Name: "Type", Locator: browser.ByCSS(`div[class="sc-1q7bklc-9 dYrjiw"]`), Pattern: Every},
	}
}

// ValidateTargets checks every built-in locator and the configured review
// patterns so a broken selector fails before a browser is launched.
func ValidateTargets(cfg config.ReviewConfig) error {
	var errs []error
	for _, loc := range []browser.Locator{ListingCard, ReviewContainer, ReviewNext} {
		if err := loc.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range ListingFields {
		if err := f.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range ReviewFields(cfg) {
		if err := f.Locator.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", f.Name, err))
		}
		if err := f.Pattern.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}
