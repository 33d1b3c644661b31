package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
	"github.com/riskibarqy/epl-insights/internal/usecase"
)

func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadDataset")
	defer span.End()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(h.maxUploadBytes)))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read dataset body: %v", usecase.ErrInvalidInput, err))
		return
	}

	snapshot, err := h.datasetService.Upload(ctx, r.URL.Query().Get("name"), body)
	if err != nil {
		h.logger.WarnContext(ctx, "upload dataset failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, datasetToDTO(ctx, snapshot))
}

func (h *Handler) FetchDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FetchDataset")
	defer span.End()

	var req fetchDatasetRequest
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

	snapshot, err := h.datasetService.FetchFromURL(ctx, req.Name, req.URL)
	if err != nil {
		h.logger.WarnContext(ctx, "fetch dataset failed", "url", req.URL, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, datasetToDTO(ctx, snapshot))
}

func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDatasets")
	defer span.End()

	snapshots, err := h.datasetService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list datasets failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]datasetDTO, 0, len(snapshots))
	for _, snapshot := range snapshots {
		items = append(items, datasetToDTO(ctx, snapshot))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDataset")
	defer span.End()

	datasetID := r.PathValue("datasetID")
	snapshot, err := h.datasetService.Get(ctx, datasetID)
	if err != nil {
		h.logger.WarnContext(ctx, "get dataset failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, datasetToDTO(ctx, snapshot))
}

func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteDataset")
	defer span.End()

	datasetID := r.PathValue("datasetID")
	if err := h.datasetService.Delete(ctx, datasetID); err != nil {
		h.logger.WarnContext(ctx, "delete dataset failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshDataset")
	defer span.End()

	datasetID := r.PathValue("datasetID")
	snapshot, err := h.datasetService.Refresh(ctx, datasetID)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh dataset failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, datasetToDTO(ctx, snapshot))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	datasetID := r.PathValue("datasetID")
	records, err := h.datasetService.Matches(ctx, datasetID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(records))
	for _, record := range records {
		items = append(items, matchToDTO(ctx, record))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// ExportDataset streams the filtered view as a CSV attachment rather than a
// JSON envelope.
func (h *Handler) ExportDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportDataset")
	defer span.End()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	datasetID := r.PathValue("datasetID")
	file, err := h.datasetService.Export(ctx, datasetID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "export dataset failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (h *Handler) ListArchivedDatasets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListArchivedDatasets")
	defer span.End()

	snapshots, err := h.datasetService.ArchiveList(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list archived datasets failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]datasetDTO, 0, len(snapshots))
	for _, snapshot := range snapshots {
		items = append(items, datasetToDTO(ctx, snapshot))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RestoreArchivedDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RestoreArchivedDataset")
	defer span.End()

	datasetID := r.PathValue("datasetID")
	snapshot, err := h.datasetService.ArchiveRestore(ctx, datasetID)
	if err != nil {
		h.logger.WarnContext(ctx, "restore archived dataset failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, datasetToDTO(ctx, snapshot))
}

func (h *Handler) DeleteArchivedDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteArchivedDataset")
	defer span.End()

	datasetID := r.PathValue("datasetID")
	if err := h.datasetService.ArchiveDelete(ctx, datasetID); err != nil {
		h.logger.WarnContext(ctx, "delete archived dataset failed", "dataset_id", datasetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

type fetchDatasetRequest struct {
	Name string `json:"name" validate:"max=200"`
	URL  string `json:"url" validate:"required,url"`
}

type datasetDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SourceKind string `json:"sourceKind"`
	SourceRef  string `json:"sourceRef,omitempty"`
	LoadedAt   string `json:"loadedAt"`
	MatchCount int    `json:"matchCount"`
}

type matchDTO struct {
	Date        string `json:"date"`
	Season      string `json:"season,omitempty"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	HomeGoals   int    `json:"homeGoals"`
	AwayGoals   int    `json:"awayGoals"`
	HTHomeGoals *int   `json:"halfTimeHomeGoals,omitempty"`
	HTAwayGoals *int   `json:"halfTimeAwayGoals,omitempty"`
	Result      string `json:"result"`
	ResultLabel string `json:"resultLabel"`
	TotalGoals  int    `json:"totalGoals"`
}

func datasetToDTO(ctx context.Context, v dataset.Snapshot) datasetDTO {
	ctx, span := startSpan(ctx, "httpapi.datasetToDTO")
	defer span.End()

	return datasetDTO{
		ID:         v.ID,
		Name:       v.Name,
		SourceKind: v.SourceKind,
		SourceRef:  sourceRefForDTO(v),
		LoadedAt:   v.LoadedAt.UTC().Format(time.RFC3339),
		MatchCount: len(v.Records),
	}
}

// Local file paths stay server-side; only remote refs are echoed back.
func sourceRefForDTO(v dataset.Snapshot) string {
	if v.SourceKind == dataset.SourceURL {
		return v.SourceRef
	}
	return ""
}

func matchToDTO(ctx context.Context, v match.Record) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		Date:        v.Date.Format("2006-01-02"),
		Season:      strings.TrimSpace(v.Season),
		HomeTeam:    v.HomeTeam,
		AwayTeam:    v.AwayTeam,
		HomeGoals:   v.HomeGoals,
		AwayGoals:   v.AwayGoals,
		HTHomeGoals: v.HalfTimeHomeGoals,
		HTAwayGoals: v.HalfTimeAwayGoals,
		Result:      v.Result,
		ResultLabel: match.ResultLabel(v.Result),
		TotalGoals:  v.TotalGoals(),
	}
}
