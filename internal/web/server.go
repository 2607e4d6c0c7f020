package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/robertadelima/data-visualization-gas-prices/internal/dataset"
)

//go:embed all:static
var staticFS embed.FS

// Server serves the dashboard API and the static app shell. The
// dataset is immutable, so handlers may run concurrently without
// locking.
type Server struct {
	Data *dataset.Dataset
	Addr string
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/places", s.handlePlaces)
	mux.HandleFunc("/api/products", s.handleProducts)
	mux.HandleFunc("/api/years", s.handleYears)
	mux.HandleFunc("/api/aggregated", s.handleAggregated)
	mux.HandleFunc("/api/summary", s.handleSummary)

	// Static files
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("creating sub filesystem: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticSub)))

	fmt.Printf("Serving at http://%s\n", s.Addr)
	return http.ListenAndServe(s.Addr, mux)
}
