package aggregate

import (
	"fmt"
	"strings"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
	"github.com/robertadelima/data-visualization-gas-prices/internal/places"
)

// InvalidPlaceIDError rejects a filter request referencing a place id
// the hierarchy does not know. Callers surface it to the user instead
// of returning a silently wrong selection.
type InvalidPlaceIDError struct {
	ID string
}

func (e *InvalidPlaceIDError) Error() string {
	return fmt.Sprintf("invalid place identifier %q", e.ID)
}

// FilterByPlaces selects the aggregated rows matching any of the
// selected place ids, which may span hierarchy levels. Ids are
// partitioned by prefix and resolved through the index's id map; a
// matching row has the partition's place type and a resolved display
// name. Duplicated ids collapse, so a single id and a one-element set
// behave identically. An empty selection yields an empty table, which
// is a valid result, not an error.
func FilterByPlaces(rows []model.AggregatedRow, idx *places.Index, selectedIDs []string) ([]model.AggregatedRow, error) {
	cities := make(map[string]bool)
	states := make(map[string]bool)
	regions := make(map[string]bool)

	for _, id := range selectedIDs {
		name, known := idx.Resolve(id)
		if !known {
			return nil, &InvalidPlaceIDError{ID: id}
		}
		switch {
		case strings.HasPrefix(id, places.CityIDPrefix):
			cities[name] = true
		case strings.HasPrefix(id, places.StateIDPrefix):
			states[name] = true
		case strings.HasPrefix(id, places.RegionIDPrefix):
			regions[name] = true
		default:
			return nil, &InvalidPlaceIDError{ID: id}
		}
	}

	out := make([]model.AggregatedRow, 0)
	for _, r := range rows {
		switch r.PlaceType {
		case model.PlaceCity:
			if cities[r.PlaceName] {
				out = append(out, r)
			}
		case model.PlaceState:
			if states[r.PlaceName] {
				out = append(out, r)
			}
		case model.PlaceRegion:
			if regions[r.PlaceName] {
				out = append(out, r)
			}
		}
	}
	return out, nil
}
