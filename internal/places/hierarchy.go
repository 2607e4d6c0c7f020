package places

import (
	"sort"
	"strings"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

// Place id prefixes. The filter UI hands ids back with these prefixes
// and they are how mixed-level selections are partitioned.
const (
	CityIDPrefix   = "city_"
	StateIDPrefix  = "state_"
	RegionIDPrefix = "region_"
)

// Entry is one node of the place hierarchy. Every city's parent chain
// reaches exactly one region; regions have no parent.
type Entry struct {
	ID          string          `json:"id"`
	Type        model.PlaceType `json:"type"`
	DisplayName string          `json:"display_name"`
	ParentID    string          `json:"parent_id,omitempty"`
}

// Index holds the three place levels observed in the joined base table
// and the id<->display-name mappings used by the filter UI and the
// place filter. Built once per session and never mutated afterwards.
type Index struct {
	Cities  []string
	States  []string
	Regions []string
	Entries []Entry

	// IDMap is total over all known ids. Region displays carry the
	// REGIAO prefix so they match region rows of the aggregated table.
	IDMap map[string]string
}

// CityID derives the synthetic id for a city display name. A trailing
// parenthesized UF is dropped first so "SAO PAULO (SP)" and
// "SAO PAULO" produce the same id.
func CityID(name string) string {
	return CityIDPrefix + Canonical(RemoveUF(name))
}

// StateID derives the synthetic id for a state name.
func StateID(name string) string {
	return StateIDPrefix + Canonical(name)
}

// RegionID derives the synthetic id for a region name.
func RegionID(name string) string {
	return RegionIDPrefix + Canonical(name)
}

// RemoveUF strips a trailing parenthesized UF token from a composite
// "CITY (UF)" display string. Used only for id generation, never for
// matching.
func RemoveUF(name string) string {
	fields := strings.Fields(name)
	if len(fields) >= 2 {
		last := fields[len(fields)-1]
		if len(last) == 4 && last[0] == '(' && last[3] == ')' {
			return strings.Join(fields[:len(fields)-1], " ")
		}
	}
	return strings.TrimSpace(name)
}

// BuildIndex derives the place hierarchy from the joined rows. Only
// state and region values embedded in the rows are consulted; there is
// no external state-to-region reference table. When a state appears
// under more than one region in the source, the last observed row
// wins, matching the parent lookup used for station counting.
func BuildIndex(rows []model.JoinedRecord) *Index {
	citySeen := make(map[string]bool)
	stateSeen := make(map[string]bool)
	regionSeen := make(map[string]bool)
	cityState := make(map[string]string)
	stateRegion := make(map[string]string)

	idx := &Index{IDMap: make(map[string]string)}

	for _, r := range rows {
		if r.City != "" && !citySeen[r.City] {
			citySeen[r.City] = true
			idx.Cities = append(idx.Cities, r.City)
		}
		if r.State != "" && !stateSeen[r.State] {
			stateSeen[r.State] = true
			idx.States = append(idx.States, r.State)
		}
		if r.Region != "" && !regionSeen[r.Region] {
			regionSeen[r.Region] = true
			idx.Regions = append(idx.Regions, r.Region)
		}
		if r.City != "" {
			cityState[r.City] = r.State
		}
		if r.State != "" {
			stateRegion[r.State] = r.Region
		}
	}

	sort.Strings(idx.Cities)
	sort.Strings(idx.States)
	sort.Strings(idx.Regions)

	for _, region := range idx.Regions {
		id := RegionID(region)
		idx.IDMap[id] = model.RegionDisplayPrefix + region
		idx.Entries = append(idx.Entries, Entry{
			ID:          id,
			Type:        model.PlaceRegion,
			DisplayName: model.RegionDisplayPrefix + region,
		})
	}
	for _, state := range idx.States {
		id := StateID(state)
		idx.IDMap[id] = state
		entry := Entry{ID: id, Type: model.PlaceState, DisplayName: state}
		if region := stateRegion[state]; region != "" {
			entry.ParentID = RegionID(region)
		}
		idx.Entries = append(idx.Entries, entry)
	}
	for _, city := range idx.Cities {
		id := CityID(city)
		idx.IDMap[id] = city
		entry := Entry{ID: id, Type: model.PlaceCity, DisplayName: city}
		if state := cityState[city]; state != "" {
			entry.ParentID = StateID(state)
		}
		idx.Entries = append(idx.Entries, entry)
	}

	return idx
}

// Resolve maps a place id back to its display name.
func (idx *Index) Resolve(id string) (string, bool) {
	name, ok := idx.IDMap[id]
	return name, ok
}
