package httpapi

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/epl-insights/internal/infrastructure/datasource/csvfile"
	"github.com/riskibarqy/epl-insights/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/epl-insights/internal/usecase"
)

const fixtureCSV = `Date,Season,HomeTeam,AwayTeam,FTHG,FTAG,FTR
2025-08-09,2025/26,Arsenal,Burnley,3,0,H
2025-08-16,2025/26,Arsenal,Everton,2,1,H
2025-08-23,2025/26,Burnley,Chelsea,1,1,D
`

type sequentialIDs struct {
	next int
}

func (g *sequentialIDs) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("ds-%03d", g.next), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repo := memory.NewSnapshotRepository()
	codec := csvfile.NewCodec()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	datasetService := usecase.NewDatasetService(repo, nil, codec, nil, &sequentialIDs{}, nil, nil, nil)
	handler := NewHandler(
		datasetService,
		usecase.NewTableService(repo, nil),
		usecase.NewStatsService(repo, nil),
		usecase.NewPredictionService(repo),
		usecase.NewTeamService(repo),
		logger,
		0,
	)

	return NewRouter(handler, logger, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		APIVersion string `json:"apiVersion"`
		Data       any    `json:"data"`
	}
	envelope.Data = out
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("unexpected apiVersion: %s", envelope.APIVersion)
	}
}

func uploadFixture(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/v1/datasets?name=test+season", fixtureCSV)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload failed: status %d body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		SourceKind string `json:"sourceKind"`
		MatchCount int    `json:"matchCount"`
	}
	decodeData(t, rec, &created)
	if created.ID == "" || created.MatchCount != 3 {
		t.Fatalf("unexpected upload response: %+v", created)
	}
	if created.Name != "test season" || created.SourceKind != "upload" {
		t.Fatalf("unexpected upload metadata: %+v", created)
	}
	return created.ID
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var status struct {
		Status string `json:"status"`
	}
	decodeData(t, rec, &status)
	if status.Status != "ok" {
		t.Fatalf("unexpected health payload: %+v", status)
	}
}

func TestRouter_UploadAndListMatches(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	datasetID := uploadFixture(t, router)

	rec := doRequest(t, router, http.MethodGet, "/v1/datasets/"+datasetID+"/matches?teams=Arsenal", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rec.Code, rec.Body.String())
	}

	var matches []struct {
		Date       string `json:"date"`
		HomeTeam   string `json:"homeTeam"`
		Result     string `json:"result"`
		TotalGoals int    `json:"totalGoals"`
	}
	decodeData(t, rec, &matches)
	if len(matches) != 2 {
		t.Fatalf("expected 2 Arsenal matches, got %d", len(matches))
	}
	if matches[0].Date != "2025-08-09" || matches[0].TotalGoals != 3 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
}

func TestRouter_UploadMalformedBody(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestRouter(t), http.MethodPost, "/v1/datasets", "Date,HomeTeam\nnot,a,dataset")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed csv, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Errors[0].Reason != "malformedInput" {
		t.Fatalf("expected malformedInput reason, got %+v", envelope.Error)
	}
}

func TestRouter_Standings(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	datasetID := uploadFixture(t, router)

	rec := doRequest(t, router, http.MethodGet, "/v1/datasets/"+datasetID+"/standings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rec.Code, rec.Body.String())
	}

	var table struct {
		Standings []struct {
			Position int    `json:"position"`
			Team     string `json:"team"`
			Points   int    `json:"points"`
			Band     string `json:"band,omitempty"`
		} `json:"standings"`
	}
	decodeData(t, rec, &table)
	if len(table.Standings) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(table.Standings))
	}
	top := table.Standings[0]
	if top.Position != 1 || top.Team != "Arsenal" || top.Points != 6 {
		t.Fatalf("unexpected leader: %+v", top)
	}
}

func TestRouter_PredictMatch(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	datasetID := uploadFixture(t, router)

	body := `{"homeTeam":"Arsenal","awayTeam":"Chelsea"}`
	rec := doRequest(t, router, http.MethodPost, "/v1/datasets/"+datasetID+"/predictions", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rec.Code, rec.Body.String())
	}

	var predicted struct {
		Outcome    string  `json:"outcome"`
		Confidence float64 `json:"confidence"`
		HomeSample int     `json:"homeSample"`
	}
	decodeData(t, rec, &predicted)
	if predicted.Outcome != "Home Win" || predicted.Confidence != 80 {
		t.Fatalf("unexpected prediction: %+v", predicted)
	}
	if predicted.HomeSample != 2 {
		t.Fatalf("unexpected home sample: %d", predicted.HomeSample)
	}
}

func TestRouter_PredictMatch_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	datasetID := uploadFixture(t, router)

	body := `{"homeTeam":"Arsenal","awayTeam":"Chelsea","mystery":1}`
	rec := doRequest(t, router, http.MethodPost, "/v1/datasets/"+datasetID+"/predictions", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestRouter_MissingDatasetConflicts(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/v1/datasets/nope/standings", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for missing dataset, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Errors[0].Reason != "noDataset" {
		t.Fatalf("expected noDataset reason, got %+v", envelope.Error)
	}
}

func TestRouter_InvalidFilterDate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	datasetID := uploadFixture(t, router)

	rec := doRequest(t, router, http.MethodGet, "/v1/datasets/"+datasetID+"/matches?from=next-tuesday", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}
}

func TestRouter_ExportStreamsCSVAttachment(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	datasetID := uploadFixture(t, router)

	rec := doRequest(t, router, http.MethodGet, "/v1/datasets/"+datasetID+"/export?teams=Arsenal", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("unexpected content type: %s", got)
	}

	wantName := "epl_filtered_data_" + time.Now().UTC().Format("20060102") + ".csv"
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, wantName) {
		t.Fatalf("unexpected disposition: %s", got)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[0], "TotalGoals") {
		t.Fatalf("expected TotalGoals column: %s", lines[0])
	}
}

func TestRouter_DeleteDataset(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	datasetID := uploadFixture(t, router)

	rec := doRequest(t, router, http.MethodDelete, "/v1/datasets/"+datasetID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected delete status: %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/datasets/"+datasetID, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after delete, got %d", rec.Code)
	}
}

func TestRouter_ArchiveUnavailableWithoutPostgres(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/v1/archive/datasets", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without archive, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Errors[0].Reason != "dependencyUnavailable" {
		t.Fatalf("expected dependencyUnavailable reason, got %+v", envelope.Error)
	}

	rec = doRequest(t, newTestRouter(t), http.MethodDelete, "/v1/archive/datasets/ds-1", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for archive delete without archive, got %d", rec.Code)
	}
}
