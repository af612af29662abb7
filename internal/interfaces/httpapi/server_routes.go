package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /healthz", handler.Health)
}

func registerExtractionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/extract/match", handler.ExtractMatch)
	mux.HandleFunc("POST /v1/extract/players", handler.ExtractPlayers)
	mux.HandleFunc("POST /v1/scan/dates", handler.ScanDates)
}
