package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape the listing page, then the reviews of the first restaurants",
	Long:  "Scrapes every restaurant card on the listing page into --listings-out, then follows the first --review-seeds restaurant links and writes their reviews to --reviews-out.",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

var (
	runURL         string
	runListingsOut string
	runReviewsOut  string
	runSeeds       int
)

func init() {
	runCmd.Flags().StringVarP(&runURL, "url", "u", "", "Listing page URL (default from DINESCRAPE_LISTING_URL)")
	runCmd.Flags().StringVar(&runListingsOut, "listings-out", "", "Listing CSV destination (default from DINESCRAPE_LISTINGS_OUT)")
	runCmd.Flags().StringVar(&runReviewsOut, "reviews-out", "", "Review CSV destination (default from DINESCRAPE_REVIEWS_OUT)")
	runCmd.Flags().IntVar(&runSeeds, "review-seeds", 0, "How many restaurants to scrape reviews for (default from DINESCRAPE_REVIEW_SEEDS)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	url := orString(runURL, cfg.Target.ListingURL)
	listingsOut := orString(runListingsOut, cfg.Output.ListingsPath)
	reviewsOut := orString(runReviewsOut, cfg.Output.ReviewsPath)
	if runSeeds > 0 {
		cfg.Review.MaxSeeds = runSeeds
	}

	return newPipeline(cmd).Run(cmd.Context(), openSession, url, listingsOut, reviewsOut)
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
