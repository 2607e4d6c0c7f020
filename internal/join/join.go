package join

import (
	"fmt"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
	"github.com/robertadelima/data-visualization-gas-prices/internal/places"
)

// Mode controls what happens to price rows without a gazetteer match.
type Mode string

const (
	// Left keeps unmatched price rows with missing coordinates.
	Left Mode = "left"
	// Inner drops unmatched price rows, guaranteeing coordinates on
	// every joined row. This is the dashboard default since the map
	// layer cannot plot rows without coordinates.
	Inner Mode = "inner"
)

// ParseMode validates a join mode string from config or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Left, Inner:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown join mode %q (want %q or %q)", s, Left, Inner)
}

// Join attaches gazetteer coordinates to each price row by canonical
// city name. Gazetteer entries are normalized first and deduplicated
// by canonical name, first occurrence winning. Price-row city names
// are matched as-is; the survey source ships them already upper-case
// and accent-free. Empty inputs yield an empty result.
func Join(prices []model.PriceRecord, gazetteer []model.PlaceRecord, mode Mode) []model.JoinedRecord {
	byName := make(map[string]model.PlaceRecord, len(gazetteer))
	for _, p := range gazetteer {
		name := places.Canonical(p.Name)
		if _, dup := byName[name]; dup {
			continue
		}
		p.Name = name
		byName[name] = p
	}

	joined := make([]model.JoinedRecord, 0, len(prices))
	for _, pr := range prices {
		place, ok := byName[pr.City]
		if !ok && mode == Inner {
			continue
		}
		row := model.JoinedRecord{
			PriceRecord: pr,
			Lat:         model.MissingFloat(),
			Lon:         model.MissingFloat(),
			Matched:     ok,
		}
		if ok {
			row.Lat = model.Float(place.Lat)
			row.Lon = model.Float(place.Lon)
		}
		joined = append(joined, row)
	}
	return joined
}
