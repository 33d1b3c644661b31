package prediction

const (
	OutcomeHomeWin = "Home Win"
	OutcomeAwayWin = "Away Win"
	OutcomeDraw    = "Draw"
)

// Result is the ephemeral output of one predictor invocation. Confidence is
// bounded to [50,95] and ExpectedGoals is never negative.
type Result struct {
	HomeTeam       string
	AwayTeam       string
	Outcome        string
	Confidence     float64
	ExpectedGoals  float64
	HomeStrength   float64
	AwayStrength   float64
	HomeAvgScored  float64
	HomeAvgAgainst float64
	AwayAvgScored  float64
	AwayAvgAgainst float64
	HomeSample     int
	AwaySample     int
}
