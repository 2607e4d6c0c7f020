package dataset

import (
	"sort"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
	"github.com/robertadelima/data-visualization-gas-prices/internal/places"
)

// Dataset is the shared base state of one dashboard session: the
// joined survey table plus the read-only exports the filter widgets
// need. Built once at startup and never mutated afterwards, so
// concurrent requests may read it without locking.
type Dataset struct {
	Joined   []model.JoinedRecord
	Places   *places.Index
	Products []string
	Years    []int

	// Units maps each product to its measurement unit, for chart
	// titles.
	Units map[string]string
}

// New derives the session dataset from the joined base table.
func New(joined []model.JoinedRecord) *Dataset {
	ds := &Dataset{
		Joined: joined,
		Places: places.BuildIndex(joined),
		Units:  make(map[string]string),
	}

	productSeen := make(map[string]bool)
	yearSeen := make(map[int]bool)
	for _, r := range joined {
		if r.Product != "" && !productSeen[r.Product] {
			productSeen[r.Product] = true
			ds.Products = append(ds.Products, r.Product)
		}
		if _, ok := ds.Units[r.Product]; !ok && r.Unit != "" {
			ds.Units[r.Product] = r.Unit
		}
		if !yearSeen[r.Month.Year] {
			yearSeen[r.Month.Year] = true
			ds.Years = append(ds.Years, r.Month.Year)
		}
	}
	sort.Strings(ds.Products)
	sort.Ints(ds.Years)

	return ds
}

// YearRange returns the first and last survey years, or ok=false for
// an empty dataset.
func (ds *Dataset) YearRange() (from, to int, ok bool) {
	if len(ds.Years) == 0 {
		return 0, 0, false
	}
	return ds.Years[0], ds.Years[len(ds.Years)-1], true
}
