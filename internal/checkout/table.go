package checkout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Parse decodes a JSON checkout table. Entries that fail Validate are skipped;
// the table is malformed only when it is not JSON or no entry survives.
func Parse(raw []byte) ([]Checkout, error) {
	var table []Checkout
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	valid := table[:0]
	for _, c := range table {
		if err := c.Validate(); err != nil {
			log.Warn("Skipping invalid checkout", "remaining", c.Remaining, "error", err)
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no valid entries out of %d", ErrMalformedTable, len(table))
	}
	return valid, nil
}

// Validate checks that an entry has one to three darts, each scoring what its
// section and area say, adding up to the remaining score. MinDarts is not
// checked against the route length.
func (c Checkout) Validate() error {
	if c.Remaining < 1 || c.Remaining > MaxRemaining {
		return fmt.Errorf("%w: remaining %d out of range", ErrMalformedTable, c.Remaining)
	}
	if len(c.Darts) < 1 || len(c.Darts) > 3 {
		return fmt.Errorf("%w: checkout %d has %d darts", ErrMalformedTable, c.Remaining, len(c.Darts))
	}
	sum := 0
	for _, d := range c.Darts {
		if d.Score != d.Section*d.Area.Multiplier() {
			return fmt.Errorf("%w: checkout %d has dart %s scoring %d", ErrMalformedTable, c.Remaining, d, d.Score)
		}
		sum += d.Score
	}
	if sum != c.Remaining {
		return fmt.Errorf("%w: checkout %d darts sum to %d", ErrMalformedTable, c.Remaining, sum)
	}
	return nil
}

// String renders a dart the way it is called: "T20", "D16", "7", "Bull", "25".
// Singles and misses are the bare section value.
func (d Dart) String() string {
	if d.Section == BullSection {
		switch d.Area {
		case AreaDouble:
			return "Bull"
		case AreaSingle:
			return "25"
		}
	}
	switch d.Area {
	case AreaDouble:
		return fmt.Sprintf("D%d", d.Section)
	case AreaTriple:
		return fmt.Sprintf("T%d", d.Section)
	default:
		return strconv.Itoa(d.Section)
	}
}

// Format joins the darts of a checkout, "T20, T20, Bull". A nil checkout
// formats as the empty string.
func Format(c *Checkout) string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(c.Darts))
	for i, d := range c.Darts {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
