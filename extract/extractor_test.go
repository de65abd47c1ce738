package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/browser/browsertest"
	"github.com/use-agent/dinescrape/config"
	"github.com/use-agent/dinescrape/models"
)

// card builds a listing card with every field present except those named
// in missing.
func card(name string, missing ...string) *browsertest.Node {
	skip := map[string]bool{}
	for _, m := range missing {
		skip[m] = true
	}
	c := browsertest.El("")
	for _, f := range ListingFields {
		if skip[f.Name] {
			continue
		}
		n := browsertest.El(name + " " + f.Name)
		if f.Attr != "" {
			n.Attr(f.Attr, "https://www.zomato.com/bangalore/"+name+"/order")
		}
		c.With(f.Locator, n)
	}
	return c
}

func TestOne_TwoOfSevenMissing(t *testing.T) {
	s := browsertest.New()
	x := New(s, nil)

	rec := x.One(context.Background(), card("truffles", "Rating", "OFF_offer"), ListingFields)

	want := models.Record{
		"Restaurant_Name": "truffles Restaurant_Name",
		"Rating":          models.Sentinel,
		"Cuisine_Type":    "truffles Cuisine_Type",
		"Cost_for_One":    "truffles Cost_for_One",
		"Delivery_Time":   "truffles Delivery_Time",
		"OFF_offer":       models.Sentinel,
		"Url_link":        "https://www.zomato.com/bangalore/truffles/order",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("One() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Failures(t *testing.T) {
	s := browsertest.New()
	x := New(s, nil)
	ctx := context.Background()
	loc := browser.ByCSS("h4")

	stale := browsertest.El("")
	stale.With(loc, &browsertest.Node{TextErr: errors.New("node detached")})
	res := x.Resolve(ctx, stale, Field{Name: "name", Locator: loc})
	require.False(t, res.OK())
	assert.Equal(t, models.Sentinel, res.OrSentinel())
	assert.Contains(t, res.Err.Error(), models.ErrCodeFieldResolution)

	noAttr := browsertest.El("").With(loc, browsertest.El("x"))
	res = x.Resolve(ctx, noAttr, Field{Name: "url", Locator: loc, Attr: "href"})
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, browser.ErrNotFound)

	res = x.Resolve(ctx, "foreign", Field{Name: "name", Locator: loc})
	assert.ErrorIs(t, res.Err, browser.ErrForeignElement)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	loc := browser.ByCSS("h4")
	c := browsertest.El("").With(loc, browsertest.El("first"), browsertest.El("second"))

	res := New(browsertest.New(), nil).Resolve(context.Background(), c, Field{Name: "n", Locator: loc})

	require.True(t, res.OK())
	assert.Equal(t, "first", res.Value)
}

func TestCollect_EqualLengths(t *testing.T) {
	x := New(browsertest.New(), nil)
	containers := []browser.Element{card("a"), card("b", "Rating"), card("c", "Url_link")}

	seqs := x.Collect(context.Background(), containers, ListingFields)

	for _, name := range Names(ListingFields) {
		assert.Len(t, seqs[name], 3, name)
	}
	assert.Equal(t, models.Sequence{"a Rating", models.Sentinel, "c Rating"}, seqs["Rating"])
	assert.Equal(t, models.Sentinel, seqs[URLField][2])
}

func TestGroup_Interleaved(t *testing.T) {
	cfg := config.ReviewConfig{}
	fields := ReviewFields(cfg)
	block := browsertest.El("")

	// Three reviews: four paragraphs and seven spans each.
	for i := 0; i < 3; i++ {
		block.With(reviewParagraphs,
			browsertest.El(fmt.Sprintf("name%d", i)),
			browsertest.El("badge"),
			browsertest.El(fmt.Sprintf("text%d", i)),
			browsertest.El("footer"),
		)
		for j := 0; j < SpanPeriod; j++ {
			block.With(reviewSpans, browsertest.El(fmt.Sprintf("span%d-%d", i, j)))
		}
	}
	block.With(fields[3].Locator, browsertest.El("5"), browsertest.El("4"))

	seqs := New(browsertest.New(), nil).Group(context.Background(), block, fields)

	assert.Equal(t, models.Sequence{"name0", "name1", "name2"}, seqs["Customer_name"])
	assert.Equal(t, models.Sequence{"text0", "text1", "text2"}, seqs["Review_Text"])
	assert.Equal(t, models.Sequence{"span0-0", "span1-0", "span2-0"}, seqs["Number_of_Reviews"])
	assert.Equal(t, models.Sequence{"span0-1", "span1-1", "span2-1"}, seqs["Number_of_Followers"])
	assert.Equal(t, models.Sequence{"5", "4"}, seqs["Star_Rating"])
	assert.Empty(t, seqs["Type"])
	assert.Len(t, seqs, len(fields))
}

func TestGroup_InvalidPatternSkipped(t *testing.T) {
	loc := browser.ByCSS("p")
	block := browsertest.El("").With(loc, browsertest.El("a"), browsertest.El("b"))
	fields := []GroupField{
		{Name: "bad", Locator: loc, Pattern: Pattern{Period: 2, Offset: 2}},
		{Name: "good", Locator: loc, Pattern: Pattern{Period: 2, Offset: 1}},
	}

	seqs := New(browsertest.New(), nil).Group(context.Background(), block, fields)

	assert.Empty(t, seqs["bad"])
	assert.Equal(t, models.Sequence{"b"}, seqs["good"])
}

func TestGroup_TextFailureBecomesSentinel(t *testing.T) {
	loc := browser.ByCSS("div.type")
	block := browsertest.El("").With(loc, browsertest.El("Delivery"), &browsertest.Node{TextErr: errors.New("stale")})

	seqs := New(browsertest.New(), nil).Group(context.Background(), block,
		[]GroupField{{Name: "Type", Locator: loc, Pattern: Every}})

	assert.Equal(t, models.Sequence{"Delivery", models.Sentinel}, seqs["Type"])
}

func TestReviewFields_Patterns(t *testing.T) {
	patterns := func(cfg config.ReviewConfig) map[string]Pattern {
		out := map[string]Pattern{}
		for _, f := range ReviewFields(cfg) {
			out[f.Name] = f.Pattern
		}
		return out
	}

	tests := []struct {
		name string
		cfg  config.ReviewConfig
		want map[string]Pattern
	}{
		{
			name: "zero config uses defaults",
			cfg:  config.ReviewConfig{},
			want: map[string]Pattern{
				"Customer_name":       {Period: 4, Offset: 0},
				"Review_Text":         {Period: 4, Offset: 2},
				"Number_of_Reviews":   {Period: 7, Offset: 0},
				"Number_of_Followers": {Period: 7, Offset: 1},
			},
		},
		{
			name: "default config",
			cfg:  config.DefaultReviewConfig(),
			want: map[string]Pattern{
				"Customer_name":       {Period: 4, Offset: 0},
				"Review_Text":         {Period: 4, Offset: 2},
				"Number_of_Reviews":   {Period: 7, Offset: 0},
				"Number_of_Followers": {Period: 7, Offset: 1},
			},
		},
		{
			name: "configured zero offsets kept",
			cfg:  config.ReviewConfig{ParagraphPeriod: 3, ReviewTextOffset: 0, SpanPeriod: 5, FollowerCountOffset: 0},
			want: map[string]Pattern{
				"Customer_name":       {Period: 3, Offset: 0},
				"Review_Text":         {Period: 3, Offset: 0},
				"Number_of_Reviews":   {Period: 5, Offset: 0},
				"Number_of_Followers": {Period: 5, Offset: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := patterns(tt.cfg)
			for name, want := range tt.want {
				assert.Equal(t, want, got[name], name)
			}
			assert.Equal(t, Every, got["Star_Rating"])
		})
	}
}

func TestValidateTargets(t *testing.T) {
	require.NoError(t, ValidateTargets(config.ReviewConfig{}))

	err := ValidateTargets(config.ReviewConfig{ParagraphPeriod: 4, ReviewTextOffset: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Review_Text")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"Restaurant_Name", "Rating", "Cuisine_Type", "Cost_for_One",
		"Delivery_Time", "OFF_offer", "Url_link",
	}, Names(ListingFields))
	assert.Equal(t, []string{
		"Customer_name", "Number_of_Reviews", "Number_of_Followers", "Star_Rating",
		"Time_of_Posting", "Votes_&_Comments", "Review_Text", "Type",
	}, GroupNames(ReviewFields(config.ReviewConfig{})))
}
