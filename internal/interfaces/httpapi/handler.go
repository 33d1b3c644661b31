package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/epl-insights/internal/usecase"
)

type Handler struct {
	datasetService    *usecase.DatasetService
	tableService      *usecase.TableService
	statsService      *usecase.StatsService
	predictionService *usecase.PredictionService
	teamService       *usecase.TeamService
	logger            *slog.Logger
	validator         *validator.Validate
	maxUploadBytes    int
}

func NewHandler(
	datasetService *usecase.DatasetService,
	tableService *usecase.TableService,
	statsService *usecase.StatsService,
	predictionService *usecase.PredictionService,
	teamService *usecase.TeamService,
	logger *slog.Logger,
	maxUploadBytes int,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}

	return &Handler{
		datasetService:    datasetService,
		tableService:      tableService,
		statsService:      statsService,
		predictionService: predictionService,
		teamService:       teamService,
		logger:            logger,
		validator:         validator.New(),
		maxUploadBytes:    maxUploadBytes,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
