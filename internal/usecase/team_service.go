package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
)

type TeamsIndex struct {
	Teams   []string
	Seasons []string
}

type VenueRecord struct {
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
}

type PointsAt struct {
	Date   time.Time
	Points int
}

type TeamDetail struct {
	Team     string
	Overall  VenueRecord
	Home     VenueRecord
	Away     VenueRecord
	Points   int
	Timeline []PointsAt
}

type TeamService struct {
	repo dataset.Repository
}

func NewTeamService(repo dataset.Repository) *TeamService {
	return &TeamService{repo: repo}
}

// Index lists the distinct teams and seasons of the filtered view, sorted
// for stable dropdown rendering.
func (s *TeamService) Index(ctx context.Context, snapshotID string, filter Filter) (TeamsIndex, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Index")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return TeamsIndex{}, err
	}
	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return TeamsIndex{}, err
	}

	records := filter.Apply(snapshot.Records)
	teams := match.Teams(records)
	seasons := match.Seasons(records)
	sort.Strings(teams)
	sort.Strings(seasons)

	return TeamsIndex{Teams: teams, Seasons: seasons}, nil
}

// Detail builds the drill-down for one team: venue-split records and the
// cumulative points timeline in date order.
func (s *TeamService) Detail(ctx context.Context, snapshotID, team string, filter Filter) (TeamDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Detail")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return TeamDetail{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}
	if err := filter.Validate(); err != nil {
		return TeamDetail{}, err
	}
	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return TeamDetail{}, err
	}

	played := make([]match.Record, 0)
	for _, record := range filter.Apply(snapshot.Records) {
		if record.Involves(team) {
			played = append(played, record)
		}
	}
	if len(played) == 0 {
		return TeamDetail{}, fmt.Errorf("%w: team=%s", ErrNotFound, team)
	}

	sort.SliceStable(played, func(i, j int) bool {
		return played[i].Date.Before(played[j].Date)
	})

	detail := TeamDetail{
		Team:     team,
		Timeline: make([]PointsAt, 0, len(played)),
	}
	cumulative := 0
	for _, record := range played {
		home := match.SameTeam(record.HomeTeam, team)
		points := match.PointsFor(record, team)
		cumulative += points

		venue := &detail.Home
		goalsFor, goalsAgainst := record.HomeGoals, record.AwayGoals
		if !home {
			venue = &detail.Away
			goalsFor, goalsAgainst = record.AwayGoals, record.HomeGoals
		}

		for _, rec := range []*VenueRecord{&detail.Overall, venue} {
			rec.Played++
			rec.GoalsFor += goalsFor
			rec.GoalsAgainst += goalsAgainst
			switch points {
			case 3:
				rec.Won++
			case 1:
				rec.Drawn++
			default:
				rec.Lost++
			}
		}

		detail.Timeline = append(detail.Timeline, PointsAt{Date: record.Date, Points: cumulative})
	}
	detail.Points = cumulative

	return detail, nil
}
