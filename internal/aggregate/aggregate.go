package aggregate

import (
	"sort"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

// reducer folds the values of one metric column across a group.
// Missing values are skipped, matching how the source dataset treats
// failed coercions as absent rather than zero.
type reducer func(values []model.Float) model.Float

func mean(values []model.Float) model.Float {
	var total model.Float
	n := 0
	for _, v := range values {
		if v.Missing() {
			continue
		}
		total += v
		n++
	}
	if n == 0 {
		return model.MissingFloat()
	}
	return total / model.Float(n)
}

func min(values []model.Float) model.Float {
	best := model.MissingFloat()
	for _, v := range values {
		if v.Missing() {
			continue
		}
		if best.Missing() || v < best {
			best = v
		}
	}
	return best
}

func max(values []model.Float) model.Float {
	best := model.MissingFloat()
	for _, v := range values {
		if v.Missing() {
			continue
		}
		if best.Missing() || v > best {
			best = v
		}
	}
	return best
}

// stdDevReducer aggregates per-city standard deviations (and variation
// coefficients) into a state or region figure. The dashboard has
// always shown the mean of the member deviations, which is not a
// pooled estimate; the policy lives here so it can be swapped without
// touching the rest of the aggregation.
var stdDevReducer reducer = mean

// groupKey identifies one (place, month) group at the state or region
// level.
type groupKey struct {
	Place string
	Month model.YearMonth
}

// Aggregate expands filtered joined rows into the unioned three-level
// table: CITY rows pass through unchanged, STATE rows group by
// (state, month), REGION rows group by (region, month). Region place
// names carry the REGIAO prefix. The expansion is recomputed from
// scratch on every filter change; the tables are small enough that
// this beats incremental bookkeeping.
func Aggregate(rows []model.JoinedRecord) []model.AggregatedRow {
	out := make([]model.AggregatedRow, 0, len(rows))

	for _, r := range rows {
		out = append(out, model.AggregatedRow{
			PlaceType:    model.PlaceCity,
			PlaceName:    r.City,
			Month:        r.Month,
			Product:      r.Product,
			Unit:         r.Unit,
			State:        r.State,
			Region:       r.Region,
			StationCount: r.StationCount,
			Lat:          r.Lat,
			Lon:          r.Lon,
			Metrics:      r.Metrics,
		})
	}

	out = append(out, groupBy(rows, model.PlaceState, func(r model.JoinedRecord) string { return r.State })...)
	out = append(out, groupBy(rows, model.PlaceRegion, func(r model.JoinedRecord) string { return r.Region })...)

	return out
}

// groupBy produces one aggregated row per (place, month) group, using
// the level-specific reducer per metric: station counts sum, price
// minima/maxima take min/max, and everything else averages (including
// coordinates, yielding an approximate centroid).
func groupBy(rows []model.JoinedRecord, placeType model.PlaceType, place func(model.JoinedRecord) string) []model.AggregatedRow {
	groups := make(map[groupKey][]model.JoinedRecord)
	var order []groupKey
	for _, r := range rows {
		key := groupKey{Place: place(r), Month: r.Month}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].Place != order[j].Place {
			return order[i].Place < order[j].Place
		}
		return order[i].Month.Before(order[j].Month)
	})

	out := make([]model.AggregatedRow, 0, len(order))
	for _, key := range order {
		members := groups[key]

		name := key.Place
		if placeType == model.PlaceRegion {
			name = model.RegionDisplayPrefix + key.Place
		}

		row := model.AggregatedRow{
			PlaceType: placeType,
			PlaceName: name,
			Month:     key.Month,
			Product:   members[0].Product,
			Unit:      members[0].Unit,
			Lat:       mean(column(members, func(r model.JoinedRecord) model.Float { return r.Lat })),
			Lon:       mean(column(members, func(r model.JoinedRecord) model.Float { return r.Lon })),
		}

		for _, m := range members {
			row.StationCount += m.StationCount
		}

		row.MarketPriceMean = mean(metric(members, func(m model.Metrics) model.Float { return m.MarketPriceMean }))
		row.MarketPriceStd = stdDevReducer(metric(members, func(m model.Metrics) model.Float { return m.MarketPriceStd }))
		row.MarketPriceMin = min(metric(members, func(m model.Metrics) model.Float { return m.MarketPriceMin }))
		row.MarketPriceMax = max(metric(members, func(m model.Metrics) model.Float { return m.MarketPriceMax }))
		row.MarketPriceVarCoef = stdDevReducer(metric(members, func(m model.Metrics) model.Float { return m.MarketPriceVarCoef }))
		row.MarketMargin = mean(metric(members, func(m model.Metrics) model.Float { return m.MarketMargin }))
		row.DistPriceMean = mean(metric(members, func(m model.Metrics) model.Float { return m.DistPriceMean }))
		row.DistPriceStd = stdDevReducer(metric(members, func(m model.Metrics) model.Float { return m.DistPriceStd }))
		row.DistPriceMin = min(metric(members, func(m model.Metrics) model.Float { return m.DistPriceMin }))
		row.DistPriceMax = max(metric(members, func(m model.Metrics) model.Float { return m.DistPriceMax }))
		row.DistPriceVarCoef = stdDevReducer(metric(members, func(m model.Metrics) model.Float { return m.DistPriceVarCoef }))

		out = append(out, row)
	}
	return out
}

func column(rows []model.JoinedRecord, get func(model.JoinedRecord) model.Float) []model.Float {
	values := make([]model.Float, len(rows))
	for i, r := range rows {
		values[i] = get(r)
	}
	return values
}

func metric(rows []model.JoinedRecord, get func(model.Metrics) model.Float) []model.Float {
	values := make([]model.Float, len(rows))
	for i, r := range rows {
		values[i] = get(r.Metrics)
	}
	return values
}

// FilterByProduct keeps joined rows for a single product.
func FilterByProduct(rows []model.JoinedRecord, product string) []model.JoinedRecord {
	out := make([]model.JoinedRecord, 0, len(rows))
	for _, r := range rows {
		if r.Product == product {
			out = append(out, r)
		}
	}
	return out
}

// FilterByYears keeps joined rows whose month falls within the
// inclusive [from, to] year range.
func FilterByYears(rows []model.JoinedRecord, from, to int) []model.JoinedRecord {
	out := make([]model.JoinedRecord, 0, len(rows))
	for _, r := range rows {
		if r.Month.Year >= from && r.Month.Year <= to {
			out = append(out, r)
		}
	}
	return out
}
