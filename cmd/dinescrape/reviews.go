package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/use-agent/dinescrape/pipeline"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews [restaurant-url...]",
	Short: "Scrape review pages for the given restaurants",
	Long:  "Pages through the reviews of each restaurant URL given as an argument or with --seed. Order URLs (.../order) are mapped to their review pages.",
	RunE:  runReviews,
}

var (
	reviewsSeeds []string
	reviewsOut   string
)

func init() {
	reviewsCmd.Flags().StringArrayVarP(&reviewsSeeds, "seed", "s", nil, "Restaurant URL (repeatable)")
	reviewsCmd.Flags().StringVarP(&reviewsOut, "out", "o", "", "CSV destination (default from DINESCRAPE_REVIEWS_OUT)")

	rootCmd.AddCommand(reviewsCmd)
}

func runReviews(cmd *cobra.Command, args []string) error {
	seeds := pipeline.ReviewURLs(append(append([]string(nil), reviewsSeeds...), args...), 0)
	if len(seeds) == 0 {
		return fmt.Errorf("at least one restaurant URL is required")
	}
	dest := orString(reviewsOut, cfg.Output.ReviewsPath)

	return newPipeline(cmd).ScrapeReviews(cmd.Context(), openSession, seeds, dest)
}
