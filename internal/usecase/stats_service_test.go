package usecase

import (
	"testing"

	"github.com/riskibarqy/epl-insights/internal/domain/match"
)

func TestStatsService_Overview(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 2, 0),
		playedMatch(t, "2025-08-16", "Chelsea", "Everton", 3, 1),
		playedMatch(t, "2025-08-23", "Burnley", "Chelsea", 1, 1),
		playedMatch(t, "2025-08-30", "Everton", "Arsenal", 0, 2),
	}
	service := NewStatsService(seedSnapshotRepo(t, records), nil)

	overview, err := service.Overview(t.Context(), testSnapshotID, Filter{})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	if overview.TotalMatches != 4 {
		t.Fatalf("unexpected total matches: %d", overview.TotalMatches)
	}
	if overview.TotalGoals != 10 {
		t.Fatalf("unexpected total goals: %d", overview.TotalGoals)
	}
	if overview.AvgGoalsPerMatch != 2.5 {
		t.Fatalf("unexpected avg goals: %v", overview.AvgGoalsPerMatch)
	}
	if overview.HomeWinPct != 50 || overview.DrawPct != 25 || overview.AwayWinPct != 25 {
		t.Fatalf("unexpected result percentages: H=%v D=%v A=%v",
			overview.HomeWinPct, overview.DrawPct, overview.AwayWinPct)
	}

	if len(overview.ResultDistribution) != 3 {
		t.Fatalf("unexpected distribution length: %d", len(overview.ResultDistribution))
	}
	if overview.ResultDistribution[0].Result != match.ResultHomeWin || overview.ResultDistribution[0].Count != 2 {
		t.Fatalf("unexpected first distribution item: %+v", overview.ResultDistribution[0])
	}
	if overview.ResultDistribution[0].Label != "Home Win" {
		t.Fatalf("unexpected result label: %q", overview.ResultDistribution[0].Label)
	}

	// Totals seen: 2, 4, 2, 2 -> buckets {2:3, 4:1} sorted ascending.
	if len(overview.GoalsHistogram) != 2 {
		t.Fatalf("unexpected histogram length: %d", len(overview.GoalsHistogram))
	}
	if overview.GoalsHistogram[0].TotalGoals != 2 || overview.GoalsHistogram[0].Count != 3 {
		t.Fatalf("unexpected first bucket: %+v", overview.GoalsHistogram[0])
	}
}

func TestStatsService_Overview_EmptyViewYieldsZeroes(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 2, 0),
	}
	service := NewStatsService(seedSnapshotRepo(t, records), nil)

	overview, err := service.Overview(t.Context(), testSnapshotID, Filter{Teams: []string{"Chelsea"}})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalMatches != 0 || overview.TotalGoals != 0 {
		t.Fatalf("expected zero overview, got %+v", overview)
	}
	if len(overview.ResultDistribution) != 0 || len(overview.GoalsHistogram) != 0 {
		t.Fatalf("expected empty slices, got %+v", overview)
	}
}

func TestStatsService_Analytics_HomeAdvantageAndMonthlyTrend(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 3, 0),
		playedMatch(t, "2025-08-16", "Arsenal", "Chelsea", 1, 1),
		playedMatch(t, "2025-09-06", "Burnley", "Everton", 0, 2),
	}
	service := NewStatsService(seedSnapshotRepo(t, records), nil)

	analytics, err := service.Analytics(t.Context(), testSnapshotID, Filter{})
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if len(analytics.HomeAdvantage) != 2 {
		t.Fatalf("unexpected home advantage rows: %d", len(analytics.HomeAdvantage))
	}
	arsenal := analytics.HomeAdvantage[0]
	if arsenal.Team != "Arsenal" {
		t.Fatalf("expected Arsenal first by advantage, got %s", arsenal.Team)
	}
	if arsenal.Matches != 2 || arsenal.AvgScored != 2 || arsenal.AvgConceded != 0.5 || arsenal.Advantage != 1.5 {
		t.Fatalf("unexpected Arsenal home form: %+v", arsenal)
	}

	if len(analytics.MonthlyTrend) != 2 {
		t.Fatalf("unexpected monthly trend length: %d", len(analytics.MonthlyTrend))
	}
	if analytics.MonthlyTrend[0].Month != "2025-08" || analytics.MonthlyTrend[0].Matches != 2 {
		t.Fatalf("unexpected first month: %+v", analytics.MonthlyTrend[0])
	}
	if analytics.MonthlyTrend[0].AvgTotalGoals != 2.5 {
		t.Fatalf("unexpected august avg goals: %v", analytics.MonthlyTrend[0].AvgTotalGoals)
	}
}

func TestStatsService_Analytics_CorrelationsSkipMissingHalfTimeColumns(t *testing.T) {
	t.Parallel()

	withHT := func(record match.Record, hthg, htag int) match.Record {
		record.HalfTimeHomeGoals = intPtr(hthg)
		record.HalfTimeAwayGoals = intPtr(htag)
		return record
	}

	// FTHG and HTHG move together perfectly across the three records that
	// carry half-time data.
	records := []match.Record{
		withHT(playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 1, 0), 0, 0),
		withHT(playedMatch(t, "2025-08-16", "Chelsea", "Everton", 2, 1), 1, 0),
		withHT(playedMatch(t, "2025-08-23", "Burnley", "Chelsea", 3, 2), 2, 1),
		playedMatch(t, "2025-08-30", "Everton", "Arsenal", 0, 5),
	}
	service := NewStatsService(seedSnapshotRepo(t, records), nil)

	analytics, err := service.Analytics(t.Context(), testSnapshotID, Filter{})
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	var found bool
	for _, c := range analytics.Correlations {
		if c.ColumnX == "FTHG" && c.ColumnY == "HTHG" {
			found = true
			if c.Coefficient != 1 {
				t.Fatalf("expected perfect FTHG/HTHG correlation, got %v", c.Coefficient)
			}
		}
	}
	if !found {
		t.Fatalf("expected FTHG/HTHG correlation pair, got %+v", analytics.Correlations)
	}
}

func TestStatsService_Analytics_CorrelationNeedsVariance(t *testing.T) {
	t.Parallel()

	// Identical full-time scores leave zero variance, so no pair qualifies.
	records := []match.Record{
		playedMatch(t, "2025-08-09", "Arsenal", "Burnley", 1, 1),
		playedMatch(t, "2025-08-16", "Chelsea", "Everton", 1, 1),
	}
	service := NewStatsService(seedSnapshotRepo(t, records), nil)

	analytics, err := service.Analytics(t.Context(), testSnapshotID, Filter{})
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if len(analytics.Correlations) != 0 {
		t.Fatalf("expected no correlations without variance, got %+v", analytics.Correlations)
	}
}
