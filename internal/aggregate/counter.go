package aggregate

import (
	"strings"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

// StationCount totals gas-station counts over a mixed-level selection
// without double counting places already subsumed by a selected
// ancestor:
//
//   - every selected region counts in full;
//   - a selected state is skipped when its region is selected;
//   - a selected city is skipped when its state or region is selected.
//
// Parent resolution for states is authoritative from the joined base
// table, not from the aggregated rows, which lose the linkage when
// grouping. A state with no row in the base table has no known region
// and always counts.
func StationCount(selection []model.AggregatedRow, joined []model.JoinedRecord) int {
	var cities, states, regions []model.AggregatedRow
	for _, r := range selection {
		switch r.PlaceType {
		case model.PlaceCity:
			cities = append(cities, r)
		case model.PlaceState:
			states = append(states, r)
		case model.PlaceRegion:
			regions = append(regions, r)
		}
	}

	selectedStates := make(map[string]bool)
	for _, r := range states {
		selectedStates[r.PlaceName] = true
	}
	selectedRegions := make(map[string]bool)
	for _, r := range regions {
		selectedRegions[strings.TrimPrefix(r.PlaceName, model.RegionDisplayPrefix)] = true
	}

	total := 0
	for _, r := range regions {
		total += r.StationCount
	}
	for _, r := range states {
		region, known := regionOfState(joined, r.PlaceName)
		if known && selectedRegions[region] {
			continue
		}
		total += r.StationCount
	}
	for _, r := range cities {
		if selectedStates[r.State] || selectedRegions[r.Region] {
			continue
		}
		total += r.StationCount
	}
	return total
}

// regionOfState resolves a state's region from the joined base table
// using the last matching row.
func regionOfState(joined []model.JoinedRecord, state string) (string, bool) {
	for i := len(joined) - 1; i >= 0; i-- {
		if joined[i].State == state {
			return joined[i].Region, true
		}
	}
	return "", false
}

// MonthCount returns the number of distinct survey months in a
// selection.
func MonthCount(selection []model.AggregatedRow) int {
	seen := make(map[model.YearMonth]bool)
	for _, r := range selection {
		seen[r.Month] = true
	}
	return len(seen)
}

// Summary carries the scalar figures shown beside the charts.
type Summary struct {
	PlacesSelected int `json:"places_selected"`
	StationCount   int `json:"station_count"`
	MonthCount     int `json:"month_count"`
}

// Summarize computes the badge figures for one filter interaction.
func Summarize(selection []model.AggregatedRow, joined []model.JoinedRecord, selectedIDs []string) Summary {
	distinct := make(map[string]bool)
	for _, id := range selectedIDs {
		distinct[id] = true
	}
	return Summary{
		PlacesSelected: len(distinct),
		StationCount:   StationCount(selection, joined),
		MonthCount:     MonthCount(selection),
	}
}
