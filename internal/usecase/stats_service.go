package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
	"github.com/riskibarqy/epl-insights/internal/platform/cache"
)

type ResultCount struct {
	Result string
	Label  string
	Count  int
}

type GoalsBucket struct {
	TotalGoals int
	Count      int
}

type Overview struct {
	TotalMatches       int
	TotalGoals         int
	AvgGoalsPerMatch   float64
	HomeWinPct         float64
	DrawPct            float64
	AwayWinPct         float64
	ResultDistribution []ResultCount
	GoalsHistogram     []GoalsBucket
}

type TeamHomeForm struct {
	Team        string
	Matches     int
	AvgScored   float64
	AvgConceded float64
	Advantage   float64
}

type MonthlyGoals struct {
	Month         string
	Matches       int
	AvgTotalGoals float64
}

type Correlation struct {
	ColumnX     string
	ColumnY     string
	Coefficient float64
}

type Analytics struct {
	HomeAdvantage []TeamHomeForm
	MonthlyTrend  []MonthlyGoals
	Correlations  []Correlation
}

type StatsService struct {
	repo  dataset.Repository
	cache *cache.Store
}

func NewStatsService(repo dataset.Repository, cacheStore *cache.Store) *StatsService {
	return &StatsService{
		repo:  repo,
		cache: cacheStore,
	}
}

// Overview summarizes the filtered view. An empty view yields zeroes, not an
// error; only the predictor treats missing data as a failure.
func (s *StatsService) Overview(ctx context.Context, snapshotID string, filter Filter) (Overview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Overview")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return Overview{}, err
	}
	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return Overview{}, err
	}

	if s.cache == nil {
		return buildOverview(filter.Apply(snapshot.Records)), nil
	}

	value, err := s.cache.GetOrLoad(ctx, aggCacheKey("overview", snapshot, filter), func(context.Context) (any, error) {
		return buildOverview(filter.Apply(snapshot.Records)), nil
	})
	if err != nil {
		return Overview{}, fmt.Errorf("compute overview: %w", err)
	}

	overview, ok := value.(Overview)
	if !ok {
		return Overview{}, fmt.Errorf("compute overview: unexpected cache value %T", value)
	}
	return overview, nil
}

func (s *StatsService) Analytics(ctx context.Context, snapshotID string, filter Filter) (Analytics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Analytics")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return Analytics{}, err
	}
	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return Analytics{}, err
	}

	if s.cache == nil {
		return buildAnalytics(filter.Apply(snapshot.Records)), nil
	}

	value, err := s.cache.GetOrLoad(ctx, aggCacheKey("analytics", snapshot, filter), func(context.Context) (any, error) {
		return buildAnalytics(filter.Apply(snapshot.Records)), nil
	})
	if err != nil {
		return Analytics{}, fmt.Errorf("compute analytics: %w", err)
	}

	analytics, ok := value.(Analytics)
	if !ok {
		return Analytics{}, fmt.Errorf("compute analytics: unexpected cache value %T", value)
	}
	return analytics, nil
}

func buildOverview(records []match.Record) Overview {
	overview := Overview{
		ResultDistribution: []ResultCount{},
		GoalsHistogram:     []GoalsBucket{},
	}
	if len(records) == 0 {
		return overview
	}

	counts := map[string]int{}
	histogram := map[int]int{}
	for _, record := range records {
		overview.TotalGoals += record.TotalGoals()
		counts[record.Result]++
		histogram[record.TotalGoals()]++
	}

	total := len(records)
	overview.TotalMatches = total
	overview.AvgGoalsPerMatch = round2(float64(overview.TotalGoals) / float64(total))
	overview.HomeWinPct = round1(float64(counts[match.ResultHomeWin]) / float64(total) * 100)
	overview.DrawPct = round1(float64(counts[match.ResultDraw]) / float64(total) * 100)
	overview.AwayWinPct = round1(float64(counts[match.ResultAwayWin]) / float64(total) * 100)

	for _, result := range []string{match.ResultHomeWin, match.ResultDraw, match.ResultAwayWin} {
		overview.ResultDistribution = append(overview.ResultDistribution, ResultCount{
			Result: result,
			Label:  match.ResultLabel(result),
			Count:  counts[result],
		})
	}

	buckets := make([]int, 0, len(histogram))
	for goals := range histogram {
		buckets = append(buckets, goals)
	}
	sort.Ints(buckets)
	for _, goals := range buckets {
		overview.GoalsHistogram = append(overview.GoalsHistogram, GoalsBucket{
			TotalGoals: goals,
			Count:      histogram[goals],
		})
	}

	return overview
}

func buildAnalytics(records []match.Record) Analytics {
	return Analytics{
		HomeAdvantage: buildHomeAdvantage(records),
		MonthlyTrend:  buildMonthlyTrend(records),
		Correlations:  buildCorrelations(records),
	}
}

func buildHomeAdvantage(records []match.Record) []TeamHomeForm {
	type acc struct {
		matches  int
		scored   int
		conceded int
	}

	byTeam := map[string]*acc{}
	order := make([]string, 0)
	for _, record := range records {
		a, ok := byTeam[record.HomeTeam]
		if !ok {
			a = &acc{}
			byTeam[record.HomeTeam] = a
			order = append(order, record.HomeTeam)
		}
		a.matches++
		a.scored += record.HomeGoals
		a.conceded += record.AwayGoals
	}

	out := make([]TeamHomeForm, 0, len(order))
	for _, team := range order {
		a := byTeam[team]
		scored := float64(a.scored) / float64(a.matches)
		conceded := float64(a.conceded) / float64(a.matches)
		out = append(out, TeamHomeForm{
			Team:        team,
			Matches:     a.matches,
			AvgScored:   round2(scored),
			AvgConceded: round2(conceded),
			Advantage:   round2(scored - conceded),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Advantage > out[j].Advantage
	})
	return out
}

func buildMonthlyTrend(records []match.Record) []MonthlyGoals {
	type acc struct {
		matches int
		goals   int
	}

	byMonth := map[string]*acc{}
	for _, record := range records {
		month := record.Date.Format("2006-01")
		a, ok := byMonth[month]
		if !ok {
			a = &acc{}
			byMonth[month] = a
		}
		a.matches++
		a.goals += record.TotalGoals()
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	out := make([]MonthlyGoals, 0, len(months))
	for _, month := range months {
		a := byMonth[month]
		out = append(out, MonthlyGoals{
			Month:         month,
			Matches:       a.matches,
			AvgTotalGoals: round2(float64(a.goals) / float64(a.matches)),
		})
	}
	return out
}

// buildCorrelations runs pairwise Pearson over the goal columns. Half-time
// columns join only for records that carry them.
func buildCorrelations(records []match.Record) []Correlation {
	columns := []string{"FTHG", "FTAG", "HTHG", "HTAG"}
	value := func(record match.Record, column string) (float64, bool) {
		switch column {
		case "FTHG":
			return float64(record.HomeGoals), true
		case "FTAG":
			return float64(record.AwayGoals), true
		case "HTHG":
			if record.HalfTimeHomeGoals == nil {
				return 0, false
			}
			return float64(*record.HalfTimeHomeGoals), true
		case "HTAG":
			if record.HalfTimeAwayGoals == nil {
				return 0, false
			}
			return float64(*record.HalfTimeAwayGoals), true
		}
		return 0, false
	}

	out := []Correlation{}
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			xs := make([]float64, 0, len(records))
			ys := make([]float64, 0, len(records))
			for _, record := range records {
				x, okX := value(record, columns[i])
				y, okY := value(record, columns[j])
				if !okX || !okY {
					continue
				}
				xs = append(xs, x)
				ys = append(ys, y)
			}

			coefficient, ok := pearson(xs, ys)
			if !ok {
				continue
			}
			out = append(out, Correlation{
				ColumnX:     columns[i],
				ColumnY:     columns[j],
				Coefficient: round3(coefficient),
			})
		}
	}
	return out
}

func pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}

	return cov / math.Sqrt(varX*varY), true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
