package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robertadelima/data-visualization-gas-prices/internal/model"
)

// ptMonths maps the abbreviated Portuguese month names used by the
// survey files. An explicit table instead of locale-driven parsing:
// no process-wide locale state, safe under concurrent calls.
var ptMonths = map[string]time.Month{
	"jan": time.January,
	"fev": time.February,
	"mar": time.March,
	"abr": time.April,
	"mai": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"set": time.September,
	"out": time.October,
	"nov": time.November,
	"dez": time.December,
}

// ParseMonth accepts the survey's abbreviated form ("mai/13", also
// seen with a dash) and the canonical "2013-05" form.
func ParseMonth(s string) (model.YearMonth, error) {
	s = strings.TrimSpace(s)

	if ym, err := model.ParseYearMonth(s); err == nil {
		return ym, nil
	}

	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return model.YearMonth{}, fmt.Errorf("unrecognized month %q", s)
	}

	month, ok := ptMonths[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return model.YearMonth{}, fmt.Errorf("unrecognized month name %q", parts[0])
	}

	year, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return model.YearMonth{}, fmt.Errorf("unrecognized year in %q: %w", s, err)
	}
	if year < 100 {
		year += 2000
	}

	return model.YearMonth{Year: year, Month: month}, nil
}
