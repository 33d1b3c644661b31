package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/epl-insights/internal/usecase"
)

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverview")
	defer span.End()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	datasetID := r.PathValue("datasetID")
	overview, err := h.statsService.Overview(ctx, datasetID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "get overview failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(ctx, overview))
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAnalytics")
	defer span.End()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	datasetID := r.PathValue("datasetID")
	analytics, err := h.statsService.Analytics(ctx, datasetID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "get analytics failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, analyticsToDTO(ctx, analytics))
}

type resultCountDTO struct {
	Result string `json:"result"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

type goalsBucketDTO struct {
	TotalGoals int `json:"totalGoals"`
	Count      int `json:"count"`
}

type overviewDTO struct {
	TotalMatches       int              `json:"totalMatches"`
	TotalGoals         int              `json:"totalGoals"`
	AvgGoalsPerMatch   float64          `json:"avgGoalsPerMatch"`
	HomeWinPct         float64          `json:"homeWinPct"`
	DrawPct            float64          `json:"drawPct"`
	AwayWinPct         float64          `json:"awayWinPct"`
	ResultDistribution []resultCountDTO `json:"resultDistribution"`
	GoalsHistogram     []goalsBucketDTO `json:"goalsHistogram"`
}

type teamHomeFormDTO struct {
	Team        string  `json:"team"`
	Matches     int     `json:"matches"`
	AvgScored   float64 `json:"avgScored"`
	AvgConceded float64 `json:"avgConceded"`
	Advantage   float64 `json:"advantage"`
}

type monthlyGoalsDTO struct {
	Month         string  `json:"month"`
	Matches       int     `json:"matches"`
	AvgTotalGoals float64 `json:"avgTotalGoals"`
}

type correlationDTO struct {
	ColumnX     string  `json:"columnX"`
	ColumnY     string  `json:"columnY"`
	Coefficient float64 `json:"coefficient"`
}

type analyticsDTO struct {
	HomeAdvantage []teamHomeFormDTO `json:"homeAdvantage"`
	MonthlyTrend  []monthlyGoalsDTO `json:"monthlyTrend"`
	Correlations  []correlationDTO  `json:"correlations"`
}

func overviewToDTO(ctx context.Context, v usecase.Overview) overviewDTO {
	ctx, span := startSpan(ctx, "httpapi.overviewToDTO")
	defer span.End()

	distribution := make([]resultCountDTO, 0, len(v.ResultDistribution))
	for _, item := range v.ResultDistribution {
		distribution = append(distribution, resultCountDTO{
			Result: item.Result,
			Label:  item.Label,
			Count:  item.Count,
		})
	}

	histogram := make([]goalsBucketDTO, 0, len(v.GoalsHistogram))
	for _, bucket := range v.GoalsHistogram {
		histogram = append(histogram, goalsBucketDTO{
			TotalGoals: bucket.TotalGoals,
			Count:      bucket.Count,
		})
	}

	return overviewDTO{
		TotalMatches:       v.TotalMatches,
		TotalGoals:         v.TotalGoals,
		AvgGoalsPerMatch:   v.AvgGoalsPerMatch,
		HomeWinPct:         v.HomeWinPct,
		DrawPct:            v.DrawPct,
		AwayWinPct:         v.AwayWinPct,
		ResultDistribution: distribution,
		GoalsHistogram:     histogram,
	}
}

func analyticsToDTO(ctx context.Context, v usecase.Analytics) analyticsDTO {
	ctx, span := startSpan(ctx, "httpapi.analyticsToDTO")
	defer span.End()

	homeAdvantage := make([]teamHomeFormDTO, 0, len(v.HomeAdvantage))
	for _, item := range v.HomeAdvantage {
		homeAdvantage = append(homeAdvantage, teamHomeFormDTO{
			Team:        item.Team,
			Matches:     item.Matches,
			AvgScored:   item.AvgScored,
			AvgConceded: item.AvgConceded,
			Advantage:   item.Advantage,
		})
	}

	trend := make([]monthlyGoalsDTO, 0, len(v.MonthlyTrend))
	for _, item := range v.MonthlyTrend {
		trend = append(trend, monthlyGoalsDTO{
			Month:         item.Month,
			Matches:       item.Matches,
			AvgTotalGoals: item.AvgTotalGoals,
		})
	}

	correlations := make([]correlationDTO, 0, len(v.Correlations))
	for _, item := range v.Correlations {
		correlations = append(correlations, correlationDTO{
			ColumnX:     item.ColumnX,
			ColumnY:     item.ColumnY,
			Coefficient: item.Coefficient,
		})
	}

	return analyticsDTO{
		HomeAdvantage: homeAdvantage,
		MonthlyTrend:  trend,
		Correlations:  correlations,
	}
}
