package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
	"github.com/riskibarqy/epl-insights/internal/domain/standing"
	"github.com/riskibarqy/epl-insights/internal/platform/cache"
)

type TeamMetric struct {
	Team  string
	Value float64
}

type TopPerformers struct {
	BestAttack        TeamMetric
	BestDefense       TeamMetric
	BestPointsPerGame TeamMetric
}

type Table struct {
	Standings     []standing.Standing
	TopPerformers *TopPerformers
}

type TableService struct {
	repo  dataset.Repository
	cache *cache.Store
}

func NewTableService(repo dataset.Repository, cacheStore *cache.Store) *TableService {
	return &TableService{
		repo:  repo,
		cache: cacheStore,
	}
}

// Standings computes the league table over the filtered view, one row per
// requested team, or per dataset team when no teams were requested. Teams
// without a single filtered match do not get a row.
func (s *TableService) Standings(ctx context.Context, snapshotID string, filter Filter) (Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.Standings")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return Table{}, err
	}
	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return Table{}, err
	}

	if s.cache == nil {
		return buildTable(filter.Apply(snapshot.Records), filter.Teams), nil
	}

	value, err := s.cache.GetOrLoad(ctx, aggCacheKey("standings", snapshot, filter), func(context.Context) (any, error) {
		return buildTable(filter.Apply(snapshot.Records), filter.Teams), nil
	})
	if err != nil {
		return Table{}, fmt.Errorf("compute standings: %w", err)
	}

	table, ok := value.(Table)
	if !ok {
		return Table{}, fmt.Errorf("compute standings: unexpected cache value %T", value)
	}
	return table, nil
}

// buildTable folds the filtered view into one row per eligible team. The
// requested teams drive both eligibility and base order, so a filter on one
// team yields that team's row alone even though its fixtures carry the
// opponents too.
func buildTable(records []match.Record, requested []string) Table {
	table := make([]standing.Standing, 0, len(requested))
	for _, team := range tableTeams(records, requested) {
		row := standing.Standing{Team: team}
		for _, record := range records {
			switch {
			case match.SameTeam(record.HomeTeam, team):
				row.Played++
				row.GoalsFor += record.HomeGoals
				row.GoalsAgainst += record.AwayGoals
				switch record.Result {
				case match.ResultHomeWin:
					row.Won++
				case match.ResultAwayWin:
					row.Lost++
				default:
					row.Drawn++
				}
			case match.SameTeam(record.AwayTeam, team):
				row.Played++
				row.GoalsFor += record.AwayGoals
				row.GoalsAgainst += record.HomeGoals
				switch record.Result {
				case match.ResultAwayWin:
					row.Won++
				case match.ResultHomeWin:
					row.Lost++
				default:
					row.Drawn++
				}
			}
		}
		if row.Played == 0 {
			continue
		}

		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		row.Points = 3*row.Won + row.Drawn
		row.PointsPerGame = math.Round(float64(row.Points)/float64(row.Played)*100) / 100
		table = append(table, row)
	}

	// Ties beyond goal difference keep the base team order; the sort must
	// stay stable for that to hold.
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		return table[i].GoalDifference > table[j].GoalDifference
	})

	for i := range table {
		table[i].Position = i + 1
		table[i].Band = standing.BandFor(i+1, len(table))
	}

	return Table{
		Standings:     table,
		TopPerformers: topPerformers(table),
	}
}

// tableTeams resolves the iteration set: the requested teams in request
// order, else every dataset team alphabetically.
func tableTeams(records []match.Record, requested []string) []string {
	if len(requested) == 0 {
		teams := match.Teams(records)
		sort.Strings(teams)
		return teams
	}

	seen := make(map[string]struct{}, len(requested))
	out := make([]string, 0, len(requested))
	for _, team := range requested {
		team = strings.TrimSpace(team)
		if team == "" {
			continue
		}
		key := strings.ToLower(team)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, team)
	}
	return out
}

// topPerformers picks the first row by table order on equal values.
func topPerformers(table []standing.Standing) *TopPerformers {
	if len(table) == 0 {
		return nil
	}

	best := TopPerformers{
		BestAttack:        TeamMetric{Team: table[0].Team, Value: float64(table[0].GoalsFor)},
		BestDefense:       TeamMetric{Team: table[0].Team, Value: float64(table[0].GoalsAgainst)},
		BestPointsPerGame: TeamMetric{Team: table[0].Team, Value: table[0].PointsPerGame},
	}
	for _, row := range table[1:] {
		if float64(row.GoalsFor) > best.BestAttack.Value {
			best.BestAttack = TeamMetric{Team: row.Team, Value: float64(row.GoalsFor)}
		}
		if float64(row.GoalsAgainst) < best.BestDefense.Value {
			best.BestDefense = TeamMetric{Team: row.Team, Value: float64(row.GoalsAgainst)}
		}
		if row.PointsPerGame > best.BestPointsPerGame.Value {
			best.BestPointsPerGame = TeamMetric{Team: row.Team, Value: row.PointsPerGame}
		}
	}
	return &best
}
