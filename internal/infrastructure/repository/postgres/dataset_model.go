package postgres

import "time"

type datasetTableModel struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	SourceKind string    `db:"source_kind"`
	SourceRef  string    `db:"source_ref"`
	LoadedAt   time.Time `db:"loaded_at"`
	MatchCount int       `db:"match_count"`
}

type datasetMatchTableModel struct {
	DatasetID string    `db:"dataset_id"`
	Position  int       `db:"position"`
	MatchDate time.Time `db:"match_date"`
	Season    string    `db:"season"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	HomeGoals int       `db:"home_goals"`
	AwayGoals int       `db:"away_goals"`
	HTHG      *int      `db:"half_time_home_goals"`
	HTAG      *int      `db:"half_time_away_goals"`
	Result    string    `db:"result"`
}
