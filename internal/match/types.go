package match

// MatchStatus is the lifecycle state reported by the backend.
type MatchStatus string

const (
	StatusNotStarted MatchStatus = "NOT_STARTED"
	StatusInPlay     MatchStatus = "IN_PLAY"
	StatusFinished   MatchStatus = "FINISHED"
)

// PlayerType distinguishes humans from bots.
type PlayerType string

const (
	PlayerTypeHuman   PlayerType = "HUMAN"
	PlayerTypeDartBot PlayerType = "DART_BOT"
)

// ResultType is a player's result for a set or the whole match.
type ResultType string

const (
	ResultWin  ResultType = "WIN"
	ResultLose ResultType = "LOSE"
	ResultDraw ResultType = "DRAW"
)

// BestOfType tells whether a match is decided by sets or by legs.
type BestOfType string

const (
	BestOfSets BestOfType = "SETS"
	BestOfLegs BestOfType = "LEGS"
)

// Match is a complete, read-only snapshot of an X01 match as pushed by the backend.
// A new snapshot always replaces the previous one.
type Match struct {
	ID            string              `json:"id" msgpack:"id"`
	StartDate     int64               `json:"startDate" msgpack:"startDate"`
	EndDate       *int64              `json:"endDate,omitempty" msgpack:"endDate,omitempty"`
	Status        MatchStatus         `json:"status" msgpack:"status"`
	Players       []Player            `json:"players" msgpack:"players"`
	MatchSettings MatchSettings       `json:"matchSettings" msgpack:"matchSettings"`
	Sets          []SetEntry          `json:"sets" msgpack:"sets"`
	MatchProgress MatchProgress       `json:"matchProgress" msgpack:"matchProgress"`
	Standings     map[string]Standing `json:"standings,omitempty" msgpack:"standings,omitempty"`
}

type Player struct {
	ID         string      `json:"id" msgpack:"id"`
	Name       string      `json:"name" msgpack:"name"`
	Type       PlayerType  `json:"type" msgpack:"type"`
	Result     *ResultType `json:"result,omitempty" msgpack:"result,omitempty"`
	Statistics *Statistics `json:"statistics,omitempty" msgpack:"statistics,omitempty"`
}

// Statistics are the per-match figures computed by the backend.
type Statistics struct {
	Average            float64 `json:"average" msgpack:"average"`
	FirstNineAverage   float64 `json:"firstNineAverage" msgpack:"firstNineAverage"`
	FortyPlus          int     `json:"fortyPlus" msgpack:"fortyPlus"`
	SixtyPlus          int     `json:"sixtyPlus" msgpack:"sixtyPlus"`
	EightyPlus         int     `json:"eightyPlus" msgpack:"eightyPlus"`
	TonPlus            int     `json:"tonPlus" msgpack:"tonPlus"`
	TonFortyPlus       int     `json:"tonFortyPlus" msgpack:"tonFortyPlus"`
	TonEighty          int     `json:"tonEighty" msgpack:"tonEighty"`
	CheckoutPercentage float64 `json:"checkoutPercentage" msgpack:"checkoutPercentage"`
	CheckoutsHit       int     `json:"checkoutsHit" msgpack:"checkoutsHit"`
	CheckoutsMissed    int     `json:"checkoutsMissed" msgpack:"checkoutsMissed"`
	HighestCheckout    int     `json:"highestCheckout" msgpack:"highestCheckout"`
}

type MatchSettings struct {
	X01          int    `json:"x01" msgpack:"x01"`
	TrackDoubles bool   `json:"trackDoubles" msgpack:"trackDoubles"`
	BestOf       BestOf `json:"bestOf" msgpack:"bestOf"`
}

type BestOf struct {
	Type           BestOfType  `json:"type" msgpack:"type"`
	Sets           int         `json:"sets" msgpack:"sets"`
	Legs           int         `json:"legs" msgpack:"legs"`
	ClearByTwoSets *ClearByTwo `json:"clearByTwoSets,omitempty" msgpack:"clearByTwoSets,omitempty"`
	ClearByTwoLegs *ClearByTwo `json:"clearByTwoLegs,omitempty" msgpack:"clearByTwoLegs,omitempty"`
}

// ClearByTwo requires a two set/leg margin once the best-of threshold is reached,
// with at most ExtraAttemptsLimit additional sets/legs played.
type ClearByTwo struct {
	Enabled            bool `json:"enabled" msgpack:"enabled"`
	ExtraAttemptsLimit int  `json:"extraAttemptsLimit" msgpack:"extraAttemptsLimit"`
}

// SetsToWin returns how many sets decide a best-of-sets match.
func (b BestOf) SetsToWin() int {
	return b.Sets/2 + 1
}

// LegsToWin returns how many legs decide a set.
func (b BestOf) LegsToWin() int {
	return b.Legs/2 + 1
}

type SetEntry struct {
	SetNumber int `json:"setNumber" msgpack:"setNumber"`
	Set       Set `json:"set" msgpack:"set"`
}

type Set struct {
	Legs        []LegEntry             `json:"legs" msgpack:"legs"`
	ThrowsFirst string                 `json:"throwsFirst" msgpack:"throwsFirst"`
	Result      map[string]*ResultType `json:"result,omitempty" msgpack:"result,omitempty"`
}

type LegEntry struct {
	LegNumber int `json:"legNumber" msgpack:"legNumber"`
	Leg       Leg `json:"leg" msgpack:"leg"`
}

// Leg holds the rounds of one countdown. Winner and CheckoutDartsUsed are set together.
type Leg struct {
	Rounds            []RoundEntry `json:"rounds" msgpack:"rounds"`
	Winner            *string      `json:"winner,omitempty" msgpack:"winner,omitempty"`
	ThrowsFirst       string       `json:"throwsFirst" msgpack:"throwsFirst"`
	CheckoutDartsUsed *int         `json:"checkoutDartsUsed,omitempty" msgpack:"checkoutDartsUsed,omitempty"`
}

type RoundEntry struct {
	RoundNumber int   `json:"roundNumber" msgpack:"roundNumber"`
	Round       Round `json:"round" msgpack:"round"`
}

type Round struct {
	Scores map[string]RoundScore `json:"scores" msgpack:"scores"`
}

// RoundScore is one player's turn. Remaining is optional on the wire; when absent
// it has to be recomputed from the previous round.
type RoundScore struct {
	Score         int  `json:"score" msgpack:"score"`
	Remaining     *int `json:"remaining,omitempty" msgpack:"remaining,omitempty"`
	DartsUsed     int  `json:"dartsUsed" msgpack:"dartsUsed"`
	DoublesMissed *int `json:"doublesMissed,omitempty" msgpack:"doublesMissed,omitempty"`
}

// MatchProgress points at the turn currently being played.
type MatchProgress struct {
	CurrentSet     *int    `json:"currentSet,omitempty" msgpack:"currentSet,omitempty"`
	CurrentLeg     *int    `json:"currentLeg,omitempty" msgpack:"currentLeg,omitempty"`
	CurrentRound   *int    `json:"currentRound,omitempty" msgpack:"currentRound,omitempty"`
	CurrentThrower *string `json:"currentThrower,omitempty" msgpack:"currentThrower,omitempty"`
}

// Standing is the backend's scoreboard entry for one player.
type Standing struct {
	SetsWon             int `json:"setsWon" msgpack:"setsWon"`
	LegsWonInCurrentSet int `json:"legsWonInCurrentSet" msgpack:"legsWonInCurrentSet"`
}
