package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/robertadelima/data-visualization-gas-prices/internal/fetch"
	"github.com/spf13/cobra"
)

var (
	fetchIndexURL  string
	fetchRateLimit float64
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the survey source files from an open-data index page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("index-url") && cfg.Fetch.IndexURL != "" {
			fetchIndexURL = cfg.Fetch.IndexURL
		}
		if !cmd.Flags().Changed("rate-limit") {
			fetchRateLimit = cfg.Fetch.RateLimit
		}
		if fetchIndexURL == "" {
			return fmt.Errorf("no index URL configured (set fetch.index_url or pass --index-url)")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		f := fetch.New(fetchRateLimit)

		fmt.Printf("Listing CSV files at %s...\n", fetchIndexURL)
		links, err := f.ListCSVLinks(ctx, fetchIndexURL)
		if err != nil {
			return fmt.Errorf("listing source files: %w", err)
		}
		if len(links) == 0 {
			fmt.Println("No CSV links found.")
			return nil
		}

		for i, link := range links {
			fmt.Printf("  [%d/%d] %s...", i+1, len(links), link)
			dest, err := f.Download(ctx, link, dataDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, " ERROR: %v\n", err)
				continue
			}
			fmt.Printf(" saved to %s\n", dest)
		}

		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchIndexURL, "index-url", "", "Open-data page listing the survey CSV files")
	fetchCmd.Flags().Float64Var(&fetchRateLimit, "rate-limit", 1.0, "Maximum requests per second")
	rootCmd.AddCommand(fetchCmd)
}
