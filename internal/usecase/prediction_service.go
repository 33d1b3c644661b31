package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
	"github.com/riskibarqy/epl-insights/internal/domain/prediction"
)

const (
	strengthDrawBand   = 0.5
	confidenceBase     = 60.0
	confidenceSlope    = 10.0
	confidenceCeiling  = 95.0
	confidenceDrawFlat = 50.0
)

type PredictionService struct {
	repo dataset.Repository
}

func NewPredictionService(repo dataset.Repository) *PredictionService {
	return &PredictionService{repo: repo}
}

// Predict scores a hypothetical fixture from venue-specific form: the home
// side is judged only on its home matches, the away side only on its away
// matches. Either side without a single sample in the filtered view fails.
func (s *PredictionService) Predict(ctx context.Context, snapshotID, homeTeam, awayTeam string, filter Filter) (prediction.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict")
	defer span.End()

	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)
	if homeTeam == "" || awayTeam == "" {
		return prediction.Result{}, fmt.Errorf("%w: home team and away team are required", ErrInvalidInput)
	}
	if match.SameTeam(homeTeam, awayTeam) {
		return prediction.Result{}, fmt.Errorf("%w: home team and away team must differ", ErrInvalidInput)
	}
	if err := filter.Validate(); err != nil {
		return prediction.Result{}, err
	}

	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return prediction.Result{}, err
	}
	records := filter.Apply(snapshot.Records)

	homeScored, homeAgainst, homeSample := venueForm(records, homeTeam, true)
	awayScored, awayAgainst, awaySample := venueForm(records, awayTeam, false)
	if homeSample == 0 {
		return prediction.Result{}, fmt.Errorf("%w: no home matches for %s", ErrInsufficientData, homeTeam)
	}
	if awaySample == 0 {
		return prediction.Result{}, fmt.Errorf("%w: no away matches for %s", ErrInsufficientData, awayTeam)
	}

	homeStrength := homeScored - homeAgainst
	awayStrength := awayScored - awayAgainst
	diff := homeStrength - awayStrength

	outcome := prediction.OutcomeDraw
	confidence := confidenceDrawFlat
	switch {
	case diff > strengthDrawBand:
		outcome = prediction.OutcomeHomeWin
		confidence = math.Min(confidenceCeiling, confidenceBase+confidenceSlope*math.Abs(diff))
	case diff < -strengthDrawBand:
		outcome = prediction.OutcomeAwayWin
		confidence = math.Min(confidenceCeiling, confidenceBase+confidenceSlope*math.Abs(diff))
	}

	return prediction.Result{
		HomeTeam:       homeTeam,
		AwayTeam:       awayTeam,
		Outcome:        outcome,
		Confidence:     round1(confidence),
		ExpectedGoals:  round2(math.Max(0, (homeScored+awayScored)/2)),
		HomeStrength:   round2(homeStrength),
		AwayStrength:   round2(awayStrength),
		HomeAvgScored:  round2(homeScored),
		HomeAvgAgainst: round2(homeAgainst),
		AwayAvgScored:  round2(awayScored),
		AwayAvgAgainst: round2(awayAgainst),
		HomeSample:     homeSample,
		AwaySample:     awaySample,
	}, nil
}

func venueForm(records []match.Record, team string, home bool) (avgScored, avgAgainst float64, sample int) {
	scored := 0
	against := 0
	for _, record := range records {
		if home && match.SameTeam(record.HomeTeam, team) {
			scored += record.HomeGoals
			against += record.AwayGoals
			sample++
			continue
		}
		if !home && match.SameTeam(record.AwayTeam, team) {
			scored += record.AwayGoals
			against += record.HomeGoals
			sample++
		}
	}
	if sample == 0 {
		return 0, 0, 0
	}
	return float64(scored) / float64(sample), float64(against) / float64(sample), sample
}
