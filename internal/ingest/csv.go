package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

// Survey file column headers. Both source files are semicolon
// separated, cp1252 encoded, with decimal commas.
const (
	colMonth        = "MÊS"
	colProduct      = "PRODUTO"
	colCity         = "MUNICÍPIO"
	colRegion       = "REGIÃO"
	colState        = "ESTADO"
	colStationCount = "NÚMERO DE POSTOS PESQUISADOS"
	colUnit         = "UNIDADE DE MEDIDA"

	colMarketPriceMean    = "PREÇO MÉDIO REVENDA"
	colMarketPriceStd     = "DESVIO PADRÃO REVENDA"
	colMarketPriceMin     = "PREÇO MÍNIMO REVENDA"
	colMarketPriceMax     = "PREÇO MÁXIMO REVENDA"
	colMarketPriceVarCoef = "COEF DE VARIAÇÃO REVENDA"
	colMarketMargin       = "MARGEM MÉDIA REVENDA"

	colDistPriceMean    = "PREÇO MÉDIO DISTRIBUIÇÃO"
	colDistPriceStd     = "DESVIO PADRÃO DISTRIBUIÇÃO"
	colDistPriceMin     = "PREÇO MÍNIMO DISTRIBUIÇÃO"
	colDistPriceMax     = "PREÇO MÁXIMO DISTRIBUIÇÃO"
	colDistPriceVarCoef = "COEF DE VARIAÇÃO DISTRIBUIÇÃO"

	colPlaceName = "NOME MUNICIPIO"
	colPlaceUF   = "UF"
	colLatitude  = "LATITUDE"
	colLongitude = "LONGITUDE"
)

// Stats reports data-quality figures from one load. Malformed values
// degrade quality silently; they never abort the load.
type Stats struct {
	Rows          int
	SkippedRows   int
	MissingValues int
}

// header resolves column names to indices for one parsed file.
type header map[string]int

func newHeader(record []string) header {
	h := make(header, len(record))
	for i, name := range record {
		h[strings.TrimSpace(name)] = i
	}
	return h
}

func (h header) require(names ...string) error {
	for _, name := range names {
		if _, ok := h[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}
	return nil
}

func (h header) get(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseDecimal parses a decimal-comma numeric field. Empty and
// non-numeric values (the source uses "-" for absent measurements)
// come back missing.
func parseDecimal(s string) (model.Float, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || s == "-" {
		return model.MissingFloat(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.MissingFloat(), false
	}
	return model.Float(v), true
}

// LoadPriceCSV reads the price-survey file from disk, decoding cp1252.
func LoadPriceCSV(path string) ([]model.PriceRecord, *Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening price survey: %w", err)
	}
	defer f.Close()
	return ParsePriceRecords(charmap.Windows1252.NewDecoder().Reader(f))
}

// ParsePriceRecords parses the semicolon-separated price survey from
// an already-decoded reader. Rows failing type coercion on a metric
// keep the row with the value missing; rows without a parseable month
// are skipped since every downstream grouping keys on it.
func ParsePriceRecords(r io.Reader) ([]model.PriceRecord, *Stats, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err == io.EOF {
		return nil, &Stats{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading price survey header: %w", err)
	}
	h := newHeader(first)
	if err := h.require(colMonth, colProduct, colCity, colRegion, colState, colStationCount); err != nil {
		return nil, nil, fmt.Errorf("price survey: %w", err)
	}

	var records []model.PriceRecord
	stats := &Stats{}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading price survey row: %w", err)
		}

		month, err := ParseMonth(h.get(rec, colMonth))
		if err != nil {
			stats.SkippedRows++
			continue
		}

		pr := model.PriceRecord{
			Month:   month,
			Product: h.get(rec, colProduct),
			City:    h.get(rec, colCity),
			Region:  h.get(rec, colRegion),
			State:   h.get(rec, colState),
			Unit:    h.get(rec, colUnit),
		}

		count, err := strconv.Atoi(h.get(rec, colStationCount))
		if err != nil || count < 0 {
			stats.MissingValues++
			count = 0
		}
		pr.StationCount = count

		pr.Metrics = parseMetrics(h, rec, stats)

		records = append(records, pr)
		stats.Rows++
	}

	return records, stats, nil
}

func parseMetrics(h header, rec []string, stats *Stats) model.Metrics {
	parse := func(name string) model.Float {
		v, ok := parseDecimal(h.get(rec, name))
		if !ok {
			stats.MissingValues++
		}
		return v
	}
	return model.Metrics{
		MarketPriceMean:    parse(colMarketPriceMean),
		MarketPriceStd:     parse(colMarketPriceStd),
		MarketPriceMin:     parse(colMarketPriceMin),
		MarketPriceMax:     parse(colMarketPriceMax),
		MarketPriceVarCoef: parse(colMarketPriceVarCoef),
		MarketMargin:       parse(colMarketMargin),
		DistPriceMean:      parse(colDistPriceMean),
		DistPriceStd:       parse(colDistPriceStd),
		DistPriceMin:       parse(colDistPriceMin),
		DistPriceMax:       parse(colDistPriceMax),
		DistPriceVarCoef:   parse(colDistPriceVarCoef),
	}
}

// LoadGazetteerCSV reads the municipality gazetteer from disk,
// decoding cp1252.
func LoadGazetteerCSV(path string) ([]model.PlaceRecord, *Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening gazetteer: %w", err)
	}
	defer f.Close()
	return ParseGazetteer(charmap.Windows1252.NewDecoder().Reader(f))
}

// ParseGazetteer parses the semicolon-separated gazetteer. Rows
// without parseable coordinates are skipped; a coordinate-less entry
// can never serve the join's purpose.
func ParseGazetteer(r io.Reader) ([]model.PlaceRecord, *Stats, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err == io.EOF {
		return nil, &Stats{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading gazetteer header: %w", err)
	}
	h := newHeader(first)
	if err := h.require(colPlaceName, colLatitude, colLongitude); err != nil {
		return nil, nil, fmt.Errorf("gazetteer: %w", err)
	}

	var records []model.PlaceRecord
	stats := &Stats{}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading gazetteer row: %w", err)
		}

		lat, okLat := parseDecimal(h.get(rec, colLatitude))
		lon, okLon := parseDecimal(h.get(rec, colLongitude))
		if !okLat || !okLon {
			stats.SkippedRows++
			continue
		}

		records = append(records, model.PlaceRecord{
			Name: h.get(rec, colPlaceName),
			UF:   h.get(rec, colPlaceUF),
			Lat:  float64(lat),
			Lon:  float64(lon),
		})
		stats.Rows++
	}

	return records, stats, nil
}
