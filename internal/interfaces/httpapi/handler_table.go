package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/epl-insights/internal/domain/standing"
	"github.com/riskibarqy/epl-insights/internal/usecase"
)

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	datasetID := r.PathValue("datasetID")
	table, err := h.tableService.Standings(ctx, datasetID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tableToDTO(ctx, table))
}

type standingDTO struct {
	Position       int     `json:"position"`
	Team           string  `json:"team"`
	Played         int     `json:"played"`
	Won            int     `json:"won"`
	Drawn          int     `json:"drawn"`
	Lost           int     `json:"lost"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
	Points         int     `json:"points"`
	PointsPerGame  float64 `json:"pointsPerGame"`
	Band           string  `json:"band,omitempty"`
}

type teamMetricDTO struct {
	Team  string  `json:"team"`
	Value float64 `json:"value"`
}

type topPerformersDTO struct {
	BestAttack        teamMetricDTO `json:"bestAttack"`
	BestDefense       teamMetricDTO `json:"bestDefense"`
	BestPointsPerGame teamMetricDTO `json:"bestPointsPerGame"`
}

type tableDTO struct {
	Standings     []standingDTO     `json:"standings"`
	TopPerformers *topPerformersDTO `json:"topPerformers,omitempty"`
}

func tableToDTO(ctx context.Context, v usecase.Table) tableDTO {
	ctx, span := startSpan(ctx, "httpapi.tableToDTO")
	defer span.End()

	standings := make([]standingDTO, 0, len(v.Standings))
	for _, row := range v.Standings {
		standings = append(standings, standingToDTO(ctx, row))
	}

	out := tableDTO{Standings: standings}
	if v.TopPerformers != nil {
		out.TopPerformers = &topPerformersDTO{
			BestAttack:        teamMetricDTO(v.TopPerformers.BestAttack),
			BestDefense:       teamMetricDTO(v.TopPerformers.BestDefense),
			BestPointsPerGame: teamMetricDTO(v.TopPerformers.BestPointsPerGame),
		}
	}
	return out
}

func standingToDTO(ctx context.Context, v standing.Standing) standingDTO {
	ctx, span := startSpan(ctx, "httpapi.standingToDTO")
	defer span.End()

	band := ""
	if v.Band != standing.BandNone {
		band = string(v.Band)
	}

	return standingDTO{
		Position:       v.Position,
		Team:           v.Team,
		Played:         v.Played,
		Won:            v.Won,
		Drawn:          v.Drawn,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference,
		Points:         v.Points,
		PointsPerGame:  v.PointsPerGame,
		Band:           band,
	}
}
