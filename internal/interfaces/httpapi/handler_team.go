package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/epl-insights/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	datasetID := r.PathValue("datasetID")
	index, err := h.teamService.Index(ctx, datasetID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsIndexDTO{
		Teams:   index.Teams,
		Seasons: index.Seasons,
	})
}

func (h *Handler) GetTeamDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamDetail")
	defer span.End()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	datasetID := r.PathValue("datasetID")
	team := r.PathValue("team")
	detail, err := h.teamService.Detail(ctx, datasetID, team, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "get team detail failed", "dataset_id", datasetID, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamDetailToDTO(ctx, detail))
}

type teamsIndexDTO struct {
	Teams   []string `json:"teams"`
	Seasons []string `json:"seasons"`
}

type venueRecordDTO struct {
	Played       int `json:"played"`
	Won          int `json:"won"`
	Drawn        int `json:"drawn"`
	Lost         int `json:"lost"`
	GoalsFor     int `json:"goalsFor"`
	GoalsAgainst int `json:"goalsAgainst"`
}

type pointsAtDTO struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

type teamDetailDTO struct {
	Team     string         `json:"team"`
	Overall  venueRecordDTO `json:"overall"`
	Home     venueRecordDTO `json:"home"`
	Away     venueRecordDTO `json:"away"`
	Points   int            `json:"points"`
	Timeline []pointsAtDTO  `json:"timeline"`
}

func teamDetailToDTO(ctx context.Context, v usecase.TeamDetail) teamDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.teamDetailToDTO")
	defer span.End()

	timeline := make([]pointsAtDTO, 0, len(v.Timeline))
	for _, point := range v.Timeline {
		timeline = append(timeline, pointsAtDTO{
			Date:   point.Date.Format("2006-01-02"),
			Points: point.Points,
		})
	}

	return teamDetailDTO{
		Team:     v.Team,
		Overall:  venueRecordDTO(v.Overall),
		Home:     venueRecordDTO(v.Home),
		Away:     venueRecordDTO(v.Away),
		Points:   v.Points,
		Timeline: timeline,
	}
}
