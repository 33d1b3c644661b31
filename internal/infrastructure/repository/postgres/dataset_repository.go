package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
	qb "github.com/riskibarqy/epl-insights/internal/platform/querybuilder"
)

const matchInsertChunk = 500

// DatasetRepository archives snapshots in Postgres. The archive is a cold
// copy for restarts; the live store stays in memory.
type DatasetRepository struct {
	db *sqlx.DB
}

func NewDatasetRepository(db *sqlx.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// Save replaces the archived copy of the snapshot, matches included, in one
// transaction.
func (r *DatasetRepository) Save(ctx context.Context, snapshot dataset.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := datasetTableModel{
		ID:         snapshot.ID,
		Name:       snapshot.Name,
		SourceKind: snapshot.SourceKind,
		SourceRef:  snapshot.SourceRef,
		LoadedAt:   snapshot.LoadedAt,
		MatchCount: len(snapshot.Records),
	}
	query, args, err := qb.InsertModel("datasets", row,
		"ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, source_kind = EXCLUDED.source_kind, source_ref = EXCLUDED.source_ref, loaded_at = EXCLUDED.loaded_at, match_count = EXCLUDED.match_count")
	if err != nil {
		return fmt.Errorf("build upsert dataset query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert dataset: %w", err)
	}

	query, args, err = qb.DeleteFrom("dataset_matches").Where(qb.Eq("dataset_id", snapshot.ID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete dataset matches query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete dataset matches: %w", err)
	}

	for start := 0; start < len(snapshot.Records); start += matchInsertChunk {
		end := start + matchInsertChunk
		if end > len(snapshot.Records) {
			end = len(snapshot.Records)
		}

		builder := qb.InsertInto("dataset_matches").Columns(
			"dataset_id", "position", "match_date", "season",
			"home_team", "away_team", "home_goals", "away_goals",
			"half_time_home_goals", "half_time_away_goals", "result",
		)
		for i, record := range snapshot.Records[start:end] {
			builder.Values(
				snapshot.ID, start+i, record.Date, record.Season,
				record.HomeTeam, record.AwayTeam, record.HomeGoals, record.AwayGoals,
				record.HalfTimeHomeGoals, record.HalfTimeAwayGoals, record.Result,
			)
		}

		query, args, err = builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert dataset matches query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert dataset matches: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

// List returns archive metadata only; match rows are loaded on restore.
func (r *DatasetRepository) List(ctx context.Context) ([]dataset.Snapshot, error) {
	query, args, err := qb.Select("id", "name", "source_kind", "source_ref", "loaded_at", "match_count").
		From("datasets").
		OrderBy("loaded_at DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select datasets query: %w", err)
	}

	var rows []datasetTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select datasets: %w", err)
	}

	out := make([]dataset.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, dataset.Snapshot{
			ID:         row.ID,
			Name:       row.Name,
			SourceKind: row.SourceKind,
			SourceRef:  row.SourceRef,
			LoadedAt:   row.LoadedAt,
		})
	}
	return out, nil
}

func (r *DatasetRepository) Load(ctx context.Context, id string) (dataset.Snapshot, bool, error) {
	query, args, err := qb.Select("id", "name", "source_kind", "source_ref", "loaded_at", "match_count").
		From("datasets").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return dataset.Snapshot{}, false, fmt.Errorf("build select dataset query: %w", err)
	}

	var row datasetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return dataset.Snapshot{}, false, nil
		}
		return dataset.Snapshot{}, false, fmt.Errorf("select dataset: %w", err)
	}

	query, args, err = qb.Select(
		"dataset_id", "position", "match_date", "season",
		"home_team", "away_team", "home_goals", "away_goals",
		"half_time_home_goals", "half_time_away_goals", "result",
	).From("dataset_matches").
		Where(qb.Eq("dataset_id", id)).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return dataset.Snapshot{}, false, fmt.Errorf("build select dataset matches query: %w", err)
	}

	var matchRows []datasetMatchTableModel
	if err := r.db.SelectContext(ctx, &matchRows, query, args...); err != nil {
		return dataset.Snapshot{}, false, fmt.Errorf("select dataset matches: %w", err)
	}

	records := make([]match.Record, 0, len(matchRows))
	for _, matchRow := range matchRows {
		records = append(records, match.Record{
			Date:              matchRow.MatchDate,
			Season:            matchRow.Season,
			HomeTeam:          matchRow.HomeTeam,
			AwayTeam:          matchRow.AwayTeam,
			HomeGoals:         matchRow.HomeGoals,
			AwayGoals:         matchRow.AwayGoals,
			HalfTimeHomeGoals: matchRow.HTHG,
			HalfTimeAwayGoals: matchRow.HTAG,
			Result:            matchRow.Result,
		})
	}

	return dataset.Snapshot{
		ID:         row.ID,
		Name:       row.Name,
		SourceKind: row.SourceKind,
		SourceRef:  row.SourceRef,
		LoadedAt:   row.LoadedAt,
		Records:    records,
	}, true, nil
}

func (r *DatasetRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.DeleteFrom("datasets").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete dataset query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}
