package match

import (
	"strings"
	"time"
)

const (
	ResultHomeWin = "H"
	ResultAwayWin = "A"
	ResultDraw    = "D"
)

// Record represents one played fixture. Records are immutable once loaded;
// a dataset snapshot is replaced wholesale, never patched row by row.
type Record struct {
	Date              time.Time
	Season            string
	HomeTeam          string
	AwayTeam          string
	HomeGoals         int
	AwayGoals         int
	HalfTimeHomeGoals *int
	HalfTimeAwayGoals *int
	Result            string
}

func (r Record) TotalGoals() int {
	return r.HomeGoals + r.AwayGoals
}

// SameTeam compares team names case-insensitively. Every team-name lookup
// goes through this so "arsenal" and "Arsenal" always mean the same club.
func SameTeam(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Involves reports whether the team played in this fixture, home or away.
func (r Record) Involves(team string) bool {
	return SameTeam(r.HomeTeam, team) || SameTeam(r.AwayTeam, team)
}

func NormalizeResult(value string) string {
	result := strings.ToUpper(strings.TrimSpace(value))
	switch result {
	case ResultHomeWin, ResultAwayWin, ResultDraw:
		return result
	}
	switch result {
	case "HOME", "HOME WIN":
		return ResultHomeWin
	case "AWAY", "AWAY WIN":
		return ResultAwayWin
	case "DRAW":
		return ResultDraw
	default:
		return ""
	}
}

func ResultLabel(code string) string {
	switch code {
	case ResultHomeWin:
		return "Home Win"
	case ResultAwayWin:
		return "Away Win"
	case ResultDraw:
		return "Draw"
	default:
		return code
	}
}

// PointsFor derives the points the team took from the fixture: 3 for a win,
// 1 for a draw, 0 for a loss or when the team did not play in it.
func PointsFor(r Record, team string) int {
	switch {
	case SameTeam(team, r.HomeTeam):
		switch r.Result {
		case ResultHomeWin:
			return 3
		case ResultDraw:
			return 1
		}
		return 0
	case SameTeam(team, r.AwayTeam):
		switch r.Result {
		case ResultAwayWin:
			return 3
		case ResultDraw:
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Teams collects every distinct team name across the records, sorted order is
// the caller's concern.
func Teams(records []Record) []string {
	seen := make(map[string]struct{}, 2*len(records))
	out := make([]string, 0, 2*len(records))
	for _, r := range records {
		if _, ok := seen[r.HomeTeam]; !ok && r.HomeTeam != "" {
			seen[r.HomeTeam] = struct{}{}
			out = append(out, r.HomeTeam)
		}
		if _, ok := seen[r.AwayTeam]; !ok && r.AwayTeam != "" {
			seen[r.AwayTeam] = struct{}{}
			out = append(out, r.AwayTeam)
		}
	}
	return out
}

// Seasons collects distinct season values in first-appearance order, skipping
// records without one.
func Seasons(records []Record) []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, r := range records {
		if r.Season == "" {
			continue
		}
		if _, ok := seen[r.Season]; ok {
			continue
		}
		seen[r.Season] = struct{}{}
		out = append(out, r.Season)
	}
	return out
}
