package checkout

import "errors"

// MaxRemaining is the highest score that can be finished in one turn.
const MaxRemaining = 170

// BullSection is the section value used for both bull rings.
const BullSection = 25

// CacheKey is the key the checkout table is stored under in the durable cache.
const CacheKey = "checkouts"

// ErrMalformedTable is returned when a checkout table cannot be parsed or
// contains an entry whose darts do not add up.
var ErrMalformedTable = errors.New("malformed checkout table")

// Area is the ring of the board a dart landed in.
type Area string

const (
	AreaSingle Area = "SINGLE"
	AreaDouble Area = "DOUBLE"
	AreaTriple Area = "TRIPLE"
	AreaMiss   Area = "MISS"
)

// Multiplier returns the score multiplier of the area.
func (a Area) Multiplier() int {
	switch a {
	case AreaSingle:
		return 1
	case AreaDouble:
		return 2
	case AreaTriple:
		return 3
	default:
		return 0
	}
}

type Dart struct {
	Section int  `json:"section"`
	Area    Area `json:"area"`
	Score   int  `json:"score"`
}

// Checkout is a dart sequence that brings Remaining to exactly zero.
type Checkout struct {
	Remaining int    `json:"remaining"`
	MinDarts  int    `json:"minDarts"`
	Darts     []Dart `json:"darts"`
}
