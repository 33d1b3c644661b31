package standing

// Band is a presentation-only label derived from final position and table
// size; it is never an input to ranking.
type Band string

const (
	BandChampionsLeague Band = "CHAMPIONS_LEAGUE"
	BandEuropaLeague    Band = "EUROPA_LEAGUE"
	BandRelegation      Band = "RELEGATION"
	BandNone            Band = ""
)

// Standing represents a league table row for one team within a filter context.
type Standing struct {
	Team           string
	Position       int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	PointsPerGame  float64
	Band           Band
}

// BandFor mirrors the dashboard colour coding: top four, fifth and sixth,
// bottom three. Top-flight bands win when a small table would overlap.
func BandFor(position, tableSize int) Band {
	if position < 1 || tableSize < 1 {
		return BandNone
	}
	switch {
	case position <= 4:
		return BandChampionsLeague
	case position <= 6:
		return BandEuropaLeague
	case position >= tableSize-2:
		return BandRelegation
	default:
		return BandNone
	}
}
