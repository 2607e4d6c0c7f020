package cmd

import (
	"fmt"
	"sort"

	"github.com/robertadelima/data-visualization-gas-prices/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ingested dataset status",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		rows := s.RowCount()
		matched := s.MatchedCount()
		products := s.Products()
		first, last := s.MonthRange()

		fmt.Printf("Dataset Status\n")
		fmt.Printf("==============\n")
		fmt.Printf("Joined rows:      %d\n", rows)
		fmt.Printf("With coordinates: %d / %d\n", matched, rows)
		fmt.Printf("Products:         %d\n", len(products))
		if first != "" {
			fmt.Printf("Months:           %s .. %s\n", first, last)
		}
		if mode := s.Meta("join_mode"); mode != "" {
			fmt.Printf("Join mode:        %s\n", mode)
		}
		if at := s.Meta("ingested_at"); at != "" {
			fmt.Printf("Ingested at:      %s\n", at)
		}

		byRegion := s.RowCountByRegion()
		if len(byRegion) > 0 {
			fmt.Printf("\nPer-Region Breakdown\n")
			fmt.Printf("--------------------\n")

			var regions []string
			for r := range byRegion {
				regions = append(regions, r)
			}
			sort.Strings(regions)

			for _, region := range regions {
				fmt.Printf("  %-14s rows: %6d\n", region, byRegion[region])
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
