package cmd

import (
	"fmt"
	"time"

	"github.com/robertadelima/data-visualization-gas-prices/internal/ingest"
	"github.com/robertadelima/data-visualization-gas-prices/internal/join"
	"github.com/robertadelima/data-visualization-gas-prices/internal/store"
	"github.com/spf13/cobra"
)

var (
	ingestPricesCSV string
	ingestPlacesCSV string
	ingestJoinMode  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parse the survey files, join them, and persist the base table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("prices") {
			ingestPricesCSV = cfg.Ingest.PricesCSV
		}
		if !cmd.Flags().Changed("municipalities") {
			ingestPlacesCSV = cfg.Ingest.MunicipalitiesCSV
		}
		if !cmd.Flags().Changed("join-mode") {
			ingestJoinMode = cfg.Ingest.JoinMode
		}

		mode, err := join.ParseMode(ingestJoinMode)
		if err != nil {
			return err
		}

		fmt.Printf("Reading price survey %s...\n", ingestPricesCSV)
		prices, priceStats, err := ingest.LoadPriceCSV(ingestPricesCSV)
		if err != nil {
			return fmt.Errorf("loading price survey: %w", err)
		}
		fmt.Printf("  %d rows (%d skipped, %d missing values)\n",
			priceStats.Rows, priceStats.SkippedRows, priceStats.MissingValues)

		fmt.Printf("Reading gazetteer %s...\n", ingestPlacesCSV)
		gazetteer, placeStats, err := ingest.LoadGazetteerCSV(ingestPlacesCSV)
		if err != nil {
			return fmt.Errorf("loading gazetteer: %w", err)
		}
		fmt.Printf("  %d rows (%d skipped)\n", placeStats.Rows, placeStats.SkippedRows)

		joined := join.Join(prices, gazetteer, mode)
		matched := 0
		for _, r := range joined {
			if r.Matched {
				matched++
			}
		}
		fmt.Printf("Joined (%s): %d rows, %d with coordinates\n", mode, len(joined), matched)
		logVerbose("dropped %d unmatched price rows", len(prices)-len(joined))

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.WriteJoined(joined); err != nil {
			return fmt.Errorf("persisting base table: %w", err)
		}
		if err := s.SetMeta("join_mode", string(mode)); err != nil {
			return err
		}
		if err := s.SetMeta("ingested_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
			return err
		}

		fmt.Println("Base table persisted.")
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPricesCSV, "prices", "", "Path to the ANP price-survey CSV")
	ingestCmd.Flags().StringVar(&ingestPlacesCSV, "municipalities", "", "Path to the IBGE municipality CSV")
	ingestCmd.Flags().StringVar(&ingestJoinMode, "join-mode", "inner", "Join mode: inner drops unmatched rows, left keeps them")
	rootCmd.AddCommand(ingestCmd)
}
