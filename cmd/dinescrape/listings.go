package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Scrape only the listing page",
	Long:  "Scrolls the listing page until it stops growing and writes one row per restaurant card. With --print-urls the collected restaurant URLs are printed, one per line.",
	Args:  cobra.NoArgs,
	RunE:  runListings,
}

var (
	listingsURL       string
	listingsOut       string
	listingsPrintURLs bool
)

func init() {
	listingsCmd.Flags().StringVarP(&listingsURL, "url", "u", "", "Listing page URL (default from DINESCRAPE_LISTING_URL)")
	listingsCmd.Flags().StringVarP(&listingsOut, "out", "o", "", "CSV destination (default from DINESCRAPE_LISTINGS_OUT)")
	listingsCmd.Flags().BoolVar(&listingsPrintURLs, "print-urls", false, "Print collected restaurant URLs")

	rootCmd.AddCommand(listingsCmd)
}

func runListings(cmd *cobra.Command, _ []string) error {
	url := orString(listingsURL, cfg.Target.ListingURL)
	dest := orString(listingsOut, cfg.Output.ListingsPath)

	urls, err := newPipeline(cmd).ScrapeListings(cmd.Context(), openSession, url, dest)
	if err != nil {
		return err
	}
	if listingsPrintURLs {
		for _, u := range urls {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
		}
	}
	return nil
}
