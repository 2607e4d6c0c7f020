package aggregate

import (
	"testing"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
	"github.com/robertadelima/data-visualization-gas-prices/internal/places"
)

func selectPlaces(t *testing.T, rows []model.JoinedRecord, ids ...string) ([]model.AggregatedRow, []model.JoinedRecord) {
	t.Helper()
	aggregated := Aggregate(rows)
	idx := places.BuildIndex(rows)
	selected, err := FilterByPlaces(aggregated, idx, ids)
	if err != nil {
		t.Fatalf("FilterByPlaces(%v): %v", ids, err)
	}
	return selected, rows
}

func TestStationCountRegionSubsumesState(t *testing.T) {
	rows := []model.JoinedRecord{
		row(jan2019, "SAO PAULO", "SAO PAULO", "SUDESTE", 10, 4.50),
		row(jan2019, "BELO HORIZONTE", "MINAS GERAIS", "SUDESTE", 6, 4.40),
	}

	// Region + one of its member states: the state is already inside
	// the region's sum.
	selected, joined := selectPlaces(t, rows, "region_SUDESTE", "state_SAO PAULO")
	if got := StationCount(selected, joined); got != 16 {
		t.Errorf("expected region total alone (16), got %d", got)
	}
}

func TestStationCountStateSubsumesCity(t *testing.T) {
	rows := []model.JoinedRecord{
		row(jan2019, "SAO PAULO", "SAO PAULO", "SUDESTE", 10, 4.50),
		row(jan2019, "CAMPINAS", "SAO PAULO", "SUDESTE", 5, 4.30),
	}

	selected, joined := selectPlaces(t, rows, "state_SAO PAULO", "city_CAMPINAS")
	if got := StationCount(selected, joined); got != 15 {
		t.Errorf("expected state total alone (15), got %d", got)
	}
}

func TestStationCountRegionSubsumesCity(t *testing.T) {
	rows := []model.JoinedRecord{
		row(jan2019, "SAO PAULO", "SAO PAULO", "SUDESTE", 10, 4.50),
		row(jan2019, "BELO HORIZONTE", "MINAS GERAIS", "SUDESTE", 6, 4.40),
	}

	selected, joined := selectPlaces(t, rows, "region_SUDESTE", "city_BELO HORIZONTE")
	if got := StationCount(selected, joined); got != 16 {
		t.Errorf("expected region total alone (16), got %d", got)
	}
}

func TestStationCountUnrelatedPlaces(t *testing.T) {
	rows := []model.JoinedRecord{
		row(jan2019, "MANAUS", "AMAZONAS", "NORTE", 5, 4.80),
		row(jan2019, "FLORIANOPOLIS", "SANTA CATARINA", "SUL", 7, 4.20),
	}

	// No shared ancestor selected: simple sum.
	selected, joined := selectPlaces(t, rows, "city_MANAUS", "city_FLORIANOPOLIS")
	if got := StationCount(selected, joined); got != 12 {
		t.Errorf("expected simple sum 12, got %d", got)
	}
}

func TestStationCountUnrelatedStateKept(t *testing.T) {
	rows := []model.JoinedRecord{
		row(jan2019, "SAO PAULO", "SAO PAULO", "SUDESTE", 10, 4.50),
		row(jan2019, "FLORIANOPOLIS", "SANTA CATARINA", "SUL", 7, 4.20),
	}

	// State in a different region than the selected one is counted.
	selected, joined := selectPlaces(t, rows, "region_SUDESTE", "state_SANTA CATARINA")
	if got := StationCount(selected, joined); got != 17 {
		t.Errorf("expected 10+7=17, got %d", got)
	}
}

func TestStationCountUnresolvableStateAlwaysCounted(t *testing.T) {
	rows := []model.JoinedRecord{
		row(jan2019, "SAO PAULO", "SAO PAULO", "SUDESTE", 10, 4.50),
	}
	aggregated := Aggregate(rows)

	// Hand-built selection with a state absent from the base table:
	// its region cannot be resolved, so it must always count.
	orphan := model.AggregatedRow{
		PlaceType:    model.PlaceState,
		PlaceName:    "ACRE",
		Month:        jan2019,
		StationCount: 3,
	}
	selection := append([]model.AggregatedRow{orphan}, aggregated[len(aggregated)-1]) // region row

	if got := StationCount(selection, rows); got != 13 {
		t.Errorf("expected 10+3=13, got %d", got)
	}
}

func TestStationCountLastMatchingRowWins(t *testing.T) {
	// The same state appears under two region spellings; the last
	// matching row is authoritative for parent resolution.
	early := row(jan2019, "SAO PAULO", "SAO PAULO", "CENTRO", 10, 4.50)
	late := row(model.YearMonth{Year: 2019, Month: 2}, "SAO PAULO", "SAO PAULO", "SUDESTE", 12, 4.55)
	rows := []model.JoinedRecord{early, late}

	selected, joined := selectPlaces(t, rows, "region_SUDESTE", "state_SAO PAULO")
	var regionTotal int
	for _, r := range selected {
		if r.PlaceType == model.PlaceRegion {
			regionTotal += r.StationCount
		}
	}
	// State resolves to SUDESTE via the later row, so only region rows
	// contribute.
	if got := StationCount(selected, joined); got != regionTotal {
		t.Errorf("expected region-only total %d, got %d", regionTotal, got)
	}
}

func TestMonthCount(t *testing.T) {
	rows := []model.JoinedRecord{
		row(jan2019, "SAO PAULO", "SAO PAULO", "SUDESTE", 10, 4.50),
		row(model.YearMonth{Year: 2019, Month: 2}, "SAO PAULO", "SAO PAULO", "SUDESTE", 10, 4.55),
	}
	aggregated := Aggregate(rows)
	if got := MonthCount(aggregated); got != 2 {
		t.Errorf("expected 2 distinct months, got %d", got)
	}
	if got := MonthCount(nil); got != 0 {
		t.Errorf("expected 0 months for empty selection, got %d", got)
	}
}

func TestSummarize(t *testing.T) {
	rows := []model.JoinedRecord{
		row(jan2019, "MANAUS", "AMAZONAS", "NORTE", 5, 4.80),
		row(jan2019, "FLORIANOPOLIS", "SANTA CATARINA", "SUL", 7, 4.20),
	}
	ids := []string{"city_MANAUS", "city_FLORIANOPOLIS", "city_MANAUS"}
	selected, joined := selectPlaces(t, rows, ids...)

	s := Summarize(selected, joined, ids)
	if s.PlacesSelected != 2 {
		t.Errorf("duplicate ids must collapse in the badge, got %d", s.PlacesSelected)
	}
	if s.StationCount != 12 {
		t.Errorf("expected station count 12, got %d", s.StationCount)
	}
	if s.MonthCount != 1 {
		t.Errorf("expected 1 month, got %d", s.MonthCount)
	}
}
