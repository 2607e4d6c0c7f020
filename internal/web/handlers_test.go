package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robertadelima/data-visualization-gas-prices/internal/aggregate"
	"github.com/robertadelima/data-visualization-gas-prices/internal/dataset"
	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	mk := func(month model.YearMonth, product, city, state, region string, stations int, priceMean float64) model.JoinedRecord {
		r := model.JoinedRecord{
			PriceRecord: model.PriceRecord{
				Month:        month,
				Product:      product,
				City:         city,
				State:        state,
				Region:       region,
				StationCount: stations,
				Unit:         "R$/l",
			},
			Lat:     -20,
			Lon:     -46,
			Matched: true,
		}
		r.MarketPriceMean = model.Float(priceMean)
		r.MarketPriceStd = 0.1
		r.MarketPriceMin = model.Float(priceMean) - 0.3
		r.MarketPriceMax = model.Float(priceMean) + 0.3
		r.MarketPriceVarCoef = 0.02
		r.MarketMargin = 0.35
		r.DistPriceMean = model.Float(priceMean) - 0.5
		r.DistPriceStd = 0.08
		r.DistPriceMin = model.Float(priceMean) - 0.8
		r.DistPriceMax = model.Float(priceMean) - 0.2
		r.DistPriceVarCoef = 0.018
		return r
	}

	jan := model.YearMonth{Year: 2019, Month: 1}
	feb := model.YearMonth{Year: 2019, Month: 2}
	joined := []model.JoinedRecord{
		mk(jan, "GASOLINA COMUM", "SAO PAULO", "SAO PAULO", "SUDESTE", 10, 4.50),
		mk(feb, "GASOLINA COMUM", "SAO PAULO", "SAO PAULO", "SUDESTE", 11, 4.55),
		mk(jan, "GASOLINA COMUM", "MANAUS", "AMAZONAS", "NORTE", 7, 4.80),
		mk(jan, "OLEO DIESEL", "SAO PAULO", "SAO PAULO", "SUDESTE", 9, 3.70),
	}

	return &Server{Data: dataset.New(joined), Addr: "localhost:0"}
}

func TestHandlePlaces(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/places", nil)
	w := httptest.NewRecorder()
	srv.handlePlaces(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var options []placeOption
	if err := json.NewDecoder(w.Body).Decode(&options); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	// 2 cities + 2 states + 2 regions
	if len(options) != 6 {
		t.Fatalf("expected 6 place options, got %d", len(options))
	}
	byID := make(map[string]string)
	for _, o := range options {
		byID[o.ID] = o.Label
	}
	if byID["region_NORTE"] != "REGIAO NORTE" {
		t.Errorf("region label = %q", byID["region_NORTE"])
	}
	if byID["city_MANAUS"] != "MANAUS" {
		t.Errorf("city label = %q", byID["city_MANAUS"])
	}
}

func TestHandleProducts(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/products", nil)
	w := httptest.NewRecorder()
	srv.handleProducts(w, req)

	var options []productOption
	if err := json.NewDecoder(w.Body).Decode(&options); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 products, got %d", len(options))
	}
	if options[0].Name != "GASOLINA COMUM" || options[0].Unit != "R$/l" {
		t.Errorf("unexpected first product: %+v", options[0])
	}
}

func TestHandleAggregated(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/aggregated?product=GASOLINA+COMUM&place=state_SAO+PAULO", nil)
	w := httptest.NewRecorder()
	srv.handleAggregated(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var rows []model.AggregatedRow
	if err := json.NewDecoder(w.Body).Decode(&rows); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	// One state row per month
	if len(rows) != 2 {
		t.Fatalf("expected 2 state rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.PlaceType != model.PlaceState || r.PlaceName != "SAO PAULO" {
			t.Errorf("unexpected row: %+v", r)
		}
	}
}

func TestHandleAggregatedYearFilter(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/aggregated?product=GASOLINA+COMUM&from=2020&to=2020&place=city_MANAUS", nil)
	w := httptest.NewRecorder()
	srv.handleAggregated(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var rows []model.AggregatedRow
	if err := json.NewDecoder(w.Body).Decode(&rows); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty selection outside the surveyed years, got %d rows", len(rows))
	}
}

func TestHandleAggregatedInvalidPlace(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/aggregated?product=GASOLINA+COMUM&place=foo_bar", nil)
	w := httptest.NewRecorder()
	srv.handleAggregated(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid place id, got %d", w.Code)
	}
}

func TestHandleAggregatedMissingProduct(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/aggregated", nil)
	w := httptest.NewRecorder()
	srv.handleAggregated(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product, got %d", w.Code)
	}
}

func TestHandleSummary(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET",
		"/api/summary?product=GASOLINA+COMUM&place=region_SUDESTE&place=state_SAO+PAULO", nil)
	w := httptest.NewRecorder()
	srv.handleSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var s aggregate.Summary
	if err := json.NewDecoder(w.Body).Decode(&s); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if s.PlacesSelected != 2 {
		t.Errorf("PlacesSelected = %d", s.PlacesSelected)
	}
	// The state is subsumed by its selected region: region totals only
	// (10+11 across the two months).
	if s.StationCount != 21 {
		t.Errorf("StationCount = %d, want 21", s.StationCount)
	}
	if s.MonthCount != 2 {
		t.Errorf("MonthCount = %d", s.MonthCount)
	}
}

func TestWriteJSONNil(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, nil)

	if w.Body.String() != "[]" {
		t.Errorf("expected '[]' for nil, got %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}
