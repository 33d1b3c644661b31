package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/epl-insights/internal/domain/match"
	"github.com/riskibarqy/epl-insights/internal/domain/standing"
)

func TestTableService_Standings_PointsAndOrdering(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 2, 0),
		playedMatch(t, "2025-08-16", "Chelsea", "Everton", 1, 1),
		playedMatch(t, "2025-08-23", "Burnley", "Chelsea", 0, 1),
	}
	service := NewTableService(seedSnapshotRepo(t, records), nil)

	table, err := service.Standings(t.Context(), testSnapshotID, Filter{})
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	if len(table.Standings) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(table.Standings))
	}

	// Chelsea: W1 D1 = 4pts GD+1. Arsenal: W1 = 3pts GD+2.
	if table.Standings[0].Team != "Chelsea" || table.Standings[0].Points != 4 {
		t.Fatalf("unexpected leader: %+v", table.Standings[0])
	}
	if table.Standings[1].Team != "Arsenal" || table.Standings[1].Points != 3 {
		t.Fatalf("unexpected runner-up: %+v", table.Standings[1])
	}
	if table.Standings[3].Team != "Burnley" || table.Standings[3].Points != 0 {
		t.Fatalf("unexpected bottom row: %+v", table.Standings[3])
	}

	if got := table.Standings[0].PointsPerGame; got != 2.0 {
		t.Fatalf("unexpected points per game: %v", got)
	}
	if got := table.Standings[0].Position; got != 1 {
		t.Fatalf("unexpected position: %d", got)
	}
}

func TestTableService_Standings_GoalDifferenceBreaksPointTies(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 1, 0),
		playedMatch(t, "2025-08-16", "Chelsea", "Everton", 4, 0),
	}
	service := NewTableService(seedSnapshotRepo(t, records), nil)

	table, err := service.Standings(t.Context(), testSnapshotID, Filter{})
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	if table.Standings[0].Team != "Chelsea" {
		t.Fatalf("expected Chelsea first on goal difference, got %s", table.Standings[0].Team)
	}
	if table.Standings[1].Team != "Arsenal" {
		t.Fatalf("expected Arsenal second, got %s", table.Standings[1].Team)
	}
}

func TestTableService_Standings_FullTiesFollowAlphabeticalOrder(t *testing.T) {
	t.Parallel()

	// Arsenal and Chelsea both end on 3 points with +1 goal difference, and
	// Chelsea appears first in the dataset. Alphabetical order must win.
	records := []match.Record{
		playedMatch(t, "2025-08-09", "Chelsea", "Everton", 1, 0),
		playedMatch(t, "2025-08-16", "Arsenal", "Burnley", 1, 0),
	}
	service := NewTableService(seedSnapshotRepo(t, records), nil)

	table, err := service.Standings(t.Context(), testSnapshotID, Filter{})
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	if table.Standings[0].Team != "Arsenal" || table.Standings[1].Team != "Chelsea" {
		t.Fatalf("expected alphabetical order on full tie, got %s then %s",
			table.Standings[0].Team, table.Standings[1].Team)
	}
	// The bottom pair ties on 0 points and -1 goal difference too.
	if table.Standings[2].Team != "Burnley" || table.Standings[3].Team != "Everton" {
		t.Fatalf("expected alphabetical order for the bottom tie, got %s then %s",
			table.Standings[2].Team, table.Standings[3].Team)
	}
}

func TestTableService_Standings_FullTiesFollowRequestedOrder(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Chelsea", "Everton", 1, 0),
		playedMatch(t, "2025-08-16", "Arsenal", "Burnley", 1, 0),
	}
	service := NewTableService(seedSnapshotRepo(t, records), nil)

	table, err := service.Standings(t.Context(), testSnapshotID, Filter{Teams: []string{"Chelsea", "Arsenal"}})
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	if len(table.Standings) != 2 {
		t.Fatalf("expected rows for the requested teams only, got %d", len(table.Standings))
	}
	if table.Standings[0].Team != "Chelsea" || table.Standings[1].Team != "Arsenal" {
		t.Fatalf("expected requested order on full tie, got %s then %s",
			table.Standings[0].Team, table.Standings[1].Team)
	}
}

func TestTableService_Standings_TeamFilterExcludesOpponents(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 2, 0),
		playedMatch(t, "2025-08-16", "Chelsea", "Everton", 1, 1),
	}
	service := NewTableService(seedSnapshotRepo(t, records), nil)

	table, err := service.Standings(t.Context(), testSnapshotID, Filter{Teams: []string{"Arsenal"}})
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	// Burnley played in the kept fixture but was not asked for.
	if len(table.Standings) != 1 {
		t.Fatalf("expected a single row for the requested team, got %d rows", len(table.Standings))
	}
	row := table.Standings[0]
	if row.Team != "Arsenal" || row.Played != 1 || row.Points != 3 {
		t.Fatalf("unexpected row for requested team: %+v", row)
	}
	if row.Position != 1 {
		t.Fatalf("unexpected position: %d", row.Position)
	}
}

func TestTableService_Standings_RequestedTeamNameIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 2, 0),
	}
	service := NewTableService(seedSnapshotRepo(t, records), nil)

	table, err := service.Standings(t.Context(), testSnapshotID, Filter{Teams: []string{"arsenal"}})
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	if len(table.Standings) != 1 {
		t.Fatalf("expected one row for a lowercase request, got %d", len(table.Standings))
	}
	if got := table.Standings[0].Points; got != 3 {
		t.Fatalf("unexpected points: %d", got)
	}
}

func TestTableService_Standings_TopPerformers(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 4, 1),
		playedMatch(t, "2025-08-16", "Chelsea", "Everton", 1, 0),
	}
	service := NewTableService(seedSnapshotRepo(t, records), nil)

	table, err := service.Standings(t.Context(), testSnapshotID, Filter{})
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if table.TopPerformers == nil {
		t.Fatalf("expected top performers for non-empty table")
	}

	if table.TopPerformers.BestAttack.Team != "Arsenal" || table.TopPerformers.BestAttack.Value != 4 {
		t.Fatalf("unexpected best attack: %+v", table.TopPerformers.BestAttack)
	}
	if table.TopPerformers.BestDefense.Value != 0 {
		t.Fatalf("unexpected best defense: %+v", table.TopPerformers.BestDefense)
	}
}

func TestTableService_Standings_NoDataset(t *testing.T) {
	t.Parallel()

	service := NewTableService(seedSnapshotRepo(t, nil), nil)

	_, err := service.Standings(t.Context(), "missing", Filter{})
	if !errors.Is(err, ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset, got %v", err)
	}
}

func TestBandFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		position, size int
		want           standing.Band
	}{
		{1, 20, standing.BandChampionsLeague},
		{4, 20, standing.BandChampionsLeague},
		{5, 20, standing.BandEuropaLeague},
		{6, 20, standing.BandEuropaLeague},
		{7, 20, standing.BandNone},
		{17, 20, standing.BandNone},
		{18, 20, standing.BandRelegation},
		{20, 20, standing.BandRelegation},
		{3, 4, standing.BandChampionsLeague},
	}

	for _, tc := range cases {
		if got := standing.BandFor(tc.position, tc.size); got != tc.want {
			t.Fatalf("BandFor(%d, %d) = %q, want %q", tc.position, tc.size, got, tc.want)
		}
	}
}
