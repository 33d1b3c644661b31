package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDatasetRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/datasets", handler.UploadDataset)
	mux.HandleFunc("POST /v1/datasets/fetch", handler.FetchDataset)
	mux.HandleFunc("GET /v1/datasets", handler.ListDatasets)
	mux.HandleFunc("GET /v1/datasets/{datasetID}", handler.GetDataset)
	mux.HandleFunc("DELETE /v1/datasets/{datasetID}", handler.DeleteDataset)
	mux.HandleFunc("POST /v1/datasets/{datasetID}/refresh", handler.RefreshDataset)
	mux.HandleFunc("GET /v1/datasets/{datasetID}/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/datasets/{datasetID}/export", handler.ExportDataset)
}

func registerAnalyticsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/datasets/{datasetID}/overview", handler.GetOverview)
	mux.HandleFunc("GET /v1/datasets/{datasetID}/analytics", handler.GetAnalytics)
	mux.HandleFunc("GET /v1/datasets/{datasetID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/datasets/{datasetID}/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/datasets/{datasetID}/teams/{team}", handler.GetTeamDetail)
	mux.HandleFunc("POST /v1/datasets/{datasetID}/predictions", handler.PredictMatch)
}

func registerArchiveRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/archive/datasets", handler.ListArchivedDatasets)
	mux.HandleFunc("POST /v1/archive/datasets/{datasetID}/restore", handler.RestoreArchivedDataset)
	mux.HandleFunc("DELETE /v1/archive/datasets/{datasetID}", handler.DeleteArchivedDataset)
}
