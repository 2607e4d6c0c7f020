package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/robertadelima/data-visualization-gas-prices/internal/aggregate"
	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

// placeOption is one entry of the place-selector widget.
type placeOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// productOption carries the product name and its measurement unit for
// chart titles.
type productOption struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	options := make([]placeOption, 0, len(s.Data.Places.Entries))
	for _, e := range s.Data.Places.Entries {
		options = append(options, placeOption{ID: e.ID, Label: e.DisplayName})
	}
	writeJSON(w, options)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	options := make([]productOption, 0, len(s.Data.Products))
	for _, p := range s.Data.Products {
		options = append(options, productOption{Name: p, Unit: s.Data.Units[p]})
	}
	writeJSON(w, options)
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years := s.Data.Years
	if years == nil {
		years = []int{}
	}
	writeJSON(w, years)
}

func (s *Server) handleAggregated(w http.ResponseWriter, r *http.Request) {
	selection, _, ok := s.selectRows(w, r)
	if !ok {
		return
	}
	writeJSON(w, selection)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	selection, placeIDs, ok := s.selectRows(w, r)
	if !ok {
		return
	}
	writeJSON(w, aggregate.Summarize(selection, s.Data.Joined, placeIDs))
}

// selectRows runs one full filter interaction: product and year range
// filters, three-level aggregation, then the place selection. On
// failure it writes the HTTP error itself and reports ok=false.
func (s *Server) selectRows(w http.ResponseWriter, r *http.Request) ([]model.AggregatedRow, []string, bool) {
	q := r.URL.Query()

	product := q.Get("product")
	if product == "" {
		http.Error(w, "missing 'product' parameter", http.StatusBadRequest)
		return nil, nil, false
	}

	from, to, ok := s.Data.YearRange()
	if !ok {
		// Empty dataset: every selection is empty, not an error.
		return []model.AggregatedRow{}, q["place"], true
	}
	if v := q.Get("from"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid 'from' parameter", http.StatusBadRequest)
			return nil, nil, false
		}
		from = year
	}
	if v := q.Get("to"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid 'to' parameter", http.StatusBadRequest)
			return nil, nil, false
		}
		to = year
	}

	placeIDs := q["place"]

	rows := aggregate.FilterByProduct(s.Data.Joined, product)
	rows = aggregate.FilterByYears(rows, from, to)
	aggregated := aggregate.Aggregate(rows)

	selection, err := aggregate.FilterByPlaces(aggregated, s.Data.Places, placeIDs)
	if err != nil {
		var invalid *aggregate.InvalidPlaceIDError
		if errors.As(err, &invalid) {
			http.Error(w, invalid.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return nil, nil, false
	}

	return selection, placeIDs, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Wildcard CORS: this is a local analysis tool, not a public API.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if v == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
