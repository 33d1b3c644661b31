package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/epl-insights/internal/domain/prediction"
	"github.com/riskibarqy/epl-insights/internal/usecase"
)

func (h *Handler) PredictMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictMatch")
	defer span.End()

	var req predictMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	datasetID := r.PathValue("datasetID")
	result, err := h.predictionService.Predict(ctx, datasetID, req.HomeTeam, req.AwayTeam, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "predict match failed",
			"dataset_id", datasetID,
			"home_team", req.HomeTeam,
			"away_team", req.AwayTeam,
			"error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(ctx, result))
}

type predictMatchRequest struct {
	HomeTeam string `json:"homeTeam" validate:"required,max=200"`
	AwayTeam string `json:"awayTeam" validate:"required,max=200"`
}

type predictionDTO struct {
	HomeTeam       string  `json:"homeTeam"`
	AwayTeam       string  `json:"awayTeam"`
	Outcome        string  `json:"outcome"`
	Confidence     float64 `json:"confidence"`
	ExpectedGoals  float64 `json:"expectedGoals"`
	HomeStrength   float64 `json:"homeStrength"`
	AwayStrength   float64 `json:"awayStrength"`
	HomeAvgScored  float64 `json:"homeAvgScored"`
	HomeAvgAgainst float64 `json:"homeAvgAgainst"`
	AwayAvgScored  float64 `json:"awayAvgScored"`
	AwayAvgAgainst float64 `json:"awayAvgAgainst"`
	HomeSample     int     `json:"homeSample"`
	AwaySample     int     `json:"awaySample"`
}

func predictionToDTO(ctx context.Context, v prediction.Result) predictionDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionToDTO")
	defer span.End()

	return predictionDTO{
		HomeTeam:       v.HomeTeam,
		AwayTeam:       v.AwayTeam,
		Outcome:        v.Outcome,
		Confidence:     v.Confidence,
		ExpectedGoals:  v.ExpectedGoals,
		HomeStrength:   v.HomeStrength,
		AwayStrength:   v.AwayStrength,
		HomeAvgScored:  v.HomeAvgScored,
		HomeAvgAgainst: v.HomeAvgAgainst,
		AwayAvgScored:  v.AwayAvgScored,
		AwayAvgAgainst: v.AwayAvgAgainst,
		HomeSample:     v.HomeSample,
		AwaySample:     v.AwaySample,
	}
}
