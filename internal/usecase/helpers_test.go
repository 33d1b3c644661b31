package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
	"github.com/riskibarqy/epl-insights/internal/infrastructure/repository/memory"
)

const testSnapshotID = "ds-1"

func playedMatch(t *testing.T, date, homeTeam, awayTeam string, homeGoals, awayGoals int) match.Record {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("parse match date %q: %v", date, err)
	}

	result := match.ResultDraw
	switch {
	case homeGoals > awayGoals:
		result = match.ResultHomeWin
	case awayGoals > homeGoals:
		result = match.ResultAwayWin
	}

	return match.Record{
		Date:      parsed,
		Season:    "2025/26",
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		Result:    result,
	}
}

func seedSnapshotRepo(t *testing.T, records []match.Record) *memory.SnapshotRepository {
	t.Helper()

	repo := memory.NewSnapshotRepository()
	err := repo.Replace(context.Background(), dataset.Snapshot{
		ID:         testSnapshotID,
		Name:       "test dataset",
		SourceKind: dataset.SourceUpload,
		LoadedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Records:    records,
	})
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return repo
}

func intPtr(v int) *int {
	return &v
}
