package cmd

import (
	"fmt"

	"github.com/robertadelima/data-visualization-gas-prices/internal/dataset"
	"github.com/robertadelima/data-visualization-gas-prices/internal/store"
	"github.com/robertadelima/data-visualization-gas-prices/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("host") {
			serveHost = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") {
			servePort = cfg.Server.Port
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		joined, err := s.ReadJoined()
		if err != nil {
			return fmt.Errorf("loading base table (run ingest first): %w", err)
		}
		if len(joined) == 0 {
			fmt.Println("Warning: base table is empty; run ingest first.")
		}
		logVerbose("loaded %d joined rows", len(joined))

		srv := &web.Server{
			Data: dataset.New(joined),
			Addr: fmt.Sprintf("%s:%d", serveHost, servePort),
		}
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
