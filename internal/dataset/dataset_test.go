package dataset

import (
	"testing"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

func record(year int, product, unit, city string) model.JoinedRecord {
	return model.JoinedRecord{
		PriceRecord: model.PriceRecord{
			Month:   model.YearMonth{Year: year, Month: 1},
			Product: product,
			Unit:    unit,
			City:    city,
			State:   "SAO PAULO",
			Region:  "SUDESTE",
		},
	}
}

func TestNew(t *testing.T) {
	joined := []model.JoinedRecord{
		record(2019, "GASOLINA COMUM", "R$/l", "SAO PAULO"),
		record(2018, "OLEO DIESEL", "R$/l", "CAMPINAS"),
		record(2019, "GLP", "R$/13kg", "SAO PAULO"),
		record(2019, "GASOLINA COMUM", "R$/l", "CAMPINAS"),
	}

	ds := New(joined)

	if want := []string{"GASOLINA COMUM", "GLP", "OLEO DIESEL"}; len(ds.Products) != 3 ||
		ds.Products[0] != want[0] || ds.Products[1] != want[1] || ds.Products[2] != want[2] {
		t.Errorf("wrong products: %v", ds.Products)
	}
	if len(ds.Years) != 2 || ds.Years[0] != 2018 || ds.Years[1] != 2019 {
		t.Errorf("wrong years: %v", ds.Years)
	}
	if ds.Units["GLP"] != "R$/13kg" {
		t.Errorf("wrong unit for GLP: %q", ds.Units["GLP"])
	}
	if ds.Places == nil || len(ds.Places.Cities) != 2 {
		t.Errorf("place index not built: %+v", ds.Places)
	}

	from, to, ok := ds.YearRange()
	if !ok || from != 2018 || to != 2019 {
		t.Errorf("wrong year range: %d-%d ok=%v", from, to, ok)
	}
}

func TestNewEmpty(t *testing.T) {
	ds := New(nil)
	if len(ds.Products) != 0 || len(ds.Years) != 0 {
		t.Errorf("empty input must build an empty dataset: %+v", ds)
	}
	if _, _, ok := ds.YearRange(); ok {
		t.Error("YearRange must report not-ok for an empty dataset")
	}
}
