package model

import (
	"fmt"
	"math"
	"time"
)

// PlaceType classifies a row of the aggregated table by hierarchy level.
type PlaceType string

const (
	PlaceCity   PlaceType = "CIDADE"
	PlaceState  PlaceType = "ESTADO"
	PlaceRegion PlaceType = "REGIAO"
)

// RegionDisplayPrefix disambiguates region rows from states of a
// similar name in the unioned aggregated table.
const RegionDisplayPrefix = "REGIAO "

// Float is a metric value that may be missing. Missing values are NaN
// in memory and null on the wire.
type Float float64

// Missing reports whether the value is absent (failed coercion or an
// unmatched join).
func (f Float) Missing() bool {
	return math.IsNaN(float64(f))
}

// MissingFloat is the in-memory representation of a null metric.
func MissingFloat() Float {
	return Float(math.NaN())
}

func (f Float) MarshalJSON() ([]byte, error) {
	if f.Missing() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%g", float64(f))), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = MissingFloat()
		return nil
	}
	var v float64
	if _, err := fmt.Sscanf(string(b), "%g", &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// YearMonth is a survey month. The survey has month resolution only.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// ParseYearMonth parses the canonical "YYYY-MM" form.
func ParseYearMonth(s string) (YearMonth, error) {
	var y, m int
	if _, err := fmt.Sscanf(s, "%d-%d", &y, &m); err != nil {
		return YearMonth{}, fmt.Errorf("parsing year-month %q: %w", s, err)
	}
	if m < 1 || m > 12 {
		return YearMonth{}, fmt.Errorf("parsing year-month %q: month out of range", s)
	}
	return YearMonth{Year: y, Month: time.Month(m)}, nil
}

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ym.String() + `"`), nil
}

func (ym *YearMonth) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("year-month must be a string, got %s", s)
	}
	parsed, err := ParseYearMonth(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// Before orders year-months chronologically.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Metrics holds the per-row survey metric columns. Market metrics come
// from the resale surveys at gas stations, distribution metrics from
// the distributor surveys.
type Metrics struct {
	MarketPriceMean    Float `json:"market_price_mean"`
	MarketPriceStd     Float `json:"market_price_std"`
	MarketPriceMin     Float `json:"market_price_min"`
	MarketPriceMax     Float `json:"market_price_max"`
	MarketPriceVarCoef Float `json:"market_price_var_coef"`
	MarketMargin       Float `json:"market_margin"`
	DistPriceMean      Float `json:"dist_price_mean"`
	DistPriceStd       Float `json:"dist_price_std"`
	DistPriceMin       Float `json:"dist_price_min"`
	DistPriceMax       Float `json:"dist_price_max"`
	DistPriceVarCoef   Float `json:"dist_price_var_coef"`
}

// PriceRecord is one surveyed place x month x product row. The source
// does not guarantee (month, city, product) uniqueness; duplicates are
// tolerated and flow into aggregation as-is.
type PriceRecord struct {
	Month        YearMonth `json:"month"`
	Product      string    `json:"product"`
	City         string    `json:"city"` // survey spelling: uppercase, accent-free
	Region       string    `json:"region"`
	State        string    `json:"state"`
	StationCount int       `json:"station_count"`
	Unit         string    `json:"unit"`
	Metrics
}

// PlaceRecord is one gazetteer row.
type PlaceRecord struct {
	Name string  `json:"name"` // canonical after normalization
	UF   string  `json:"uf"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// JoinedRecord is a PriceRecord with gazetteer coordinates attached.
// Built once per ingestion cycle and read-only afterwards; every
// downstream step derives new tables instead of mutating these.
type JoinedRecord struct {
	PriceRecord
	Lat     Float `json:"lat"`
	Lon     Float `json:"lon"`
	Matched bool  `json:"matched"`
}

// AggregatedRow is one output row of the aggregator, tagged with the
// hierarchy level it represents. State and Region carry the parent
// linkage for CITY rows only; grouped STATE/REGION rows leave them
// empty because the grouping collapses them.
type AggregatedRow struct {
	PlaceType    PlaceType `json:"place_type"`
	PlaceName    string    `json:"place_name"`
	Month        YearMonth `json:"month"`
	Product      string    `json:"product"`
	Unit         string    `json:"unit"`
	State        string    `json:"state,omitempty"`
	Region       string    `json:"region,omitempty"`
	StationCount int       `json:"station_count"`
	Lat          Float     `json:"lat"`
	Lon          Float     `json:"lon"`
	Metrics
}
