package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/epl-insights/internal/domain/match"
)

func TestFilter_Validate(t *testing.T) {
	t.Parallel()

	valid := Filter{
		From:     time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		GoalsMin: intPtr(0),
		GoalsMax: intPtr(9),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid filter, got %v", err)
	}

	inverted := Filter{
		From: time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := inverted.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted date range, got %v", err)
	}

	negative := Filter{GoalsMin: intPtr(-1)}
	if err := negative.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative goals_min, got %v", err)
	}

	crossed := Filter{GoalsMin: intPtr(5), GoalsMax: intPtr(2)}
	if err := crossed.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for goals_min > goals_max, got %v", err)
	}
}

func TestFilter_Apply_TeamKeepsBothSidesOfFixture(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Chelsea", 2, 0),
		playedMatch(t, "2025-08-16", "Liverpool", "Everton", 1, 1),
		playedMatch(t, "2025-08-23", "Chelsea", "Liverpool", 0, 3),
	}

	filtered := Filter{Teams: []string{"Arsenal"}}.Apply(records)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 match, got %d", len(filtered))
	}
	if filtered[0].AwayTeam != "Chelsea" {
		t.Fatalf("expected the opponent side kept, got %+v", filtered[0])
	}
}

func TestFilter_Apply_DateRangeIsInclusive(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Chelsea", 2, 0),
		playedMatch(t, "2025-08-16", "Liverpool", "Everton", 1, 1),
		playedMatch(t, "2025-08-23", "Chelsea", "Liverpool", 0, 3),
	}

	filter := Filter{
		From: time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC),
	}
	filtered := filter.Apply(records)
	if len(filtered) != 2 {
		t.Fatalf("expected boundary matches included, got %d matches", len(filtered))
	}
}

func TestFilter_Apply_GoalBoundsUseTotalGoals(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Chelsea", 2, 0),
		playedMatch(t, "2025-08-16", "Liverpool", "Everton", 1, 1),
		playedMatch(t, "2025-08-23", "Chelsea", "Liverpool", 0, 3),
	}

	filter := Filter{GoalsMin: intPtr(2), GoalsMax: intPtr(2)}
	filtered := filter.Apply(records)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matches with exactly 2 total goals, got %d", len(filtered))
	}
}

func TestFilter_Apply_PreservesOrder(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-23", "Chelsea", "Liverpool", 0, 3),
		playedMatch(t, "2025-08-09", "Arsenal", "Chelsea", 2, 0),
	}

	filtered := Filter{Teams: []string{"Chelsea"}}.Apply(records)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(filtered))
	}
	if !filtered[0].Date.After(filtered[1].Date) {
		t.Fatalf("expected load order preserved, got %v then %v", filtered[0].Date, filtered[1].Date)
	}
}

func TestFilter_Apply_TeamMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Chelsea", 2, 0),
		playedMatch(t, "2025-08-16", "Liverpool", "Everton", 1, 1),
	}

	filtered := Filter{Teams: []string{"ARSENAL"}}.Apply(records)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 match for a differently-cased team name, got %d", len(filtered))
	}
	if filtered[0].HomeTeam != "Arsenal" {
		t.Fatalf("unexpected match kept: %+v", filtered[0])
	}
}

func TestFilter_CanonicalKey(t *testing.T) {
	t.Parallel()

	a := Filter{Teams: []string{"Arsenal", "Chelsea"}, Seasons: []string{"2025/26", "2024/25"}}

	// Season order never changes a result.
	b := Filter{Teams: []string{"Arsenal", "Chelsea"}, Seasons: []string{"2024/25", "2025/26"}}
	if a.CanonicalKey() != b.CanonicalKey() {
		t.Fatalf("expected equal canonical keys across season order:\n%s\n%s", a.CanonicalKey(), b.CanonicalKey())
	}

	// Team order drives standings row order, so it has to show in the key.
	c := Filter{Teams: []string{"Chelsea", "Arsenal"}, Seasons: []string{"2024/25", "2025/26"}}
	if a.CanonicalKey() == c.CanonicalKey() {
		t.Fatalf("expected team order to change the canonical key")
	}

	d := Filter{Teams: []string{"Arsenal"}}
	if a.CanonicalKey() == d.CanonicalKey() {
		t.Fatalf("expected different canonical keys for different filters")
	}
}
