package app

import (
	"fmt"
	"net/http"

	"github.com/hafizln/matchprobe/external/renderer"
	"github.com/hafizln/matchprobe/external/scorefeed"
	"github.com/hafizln/matchprobe/internal/config"
	"github.com/hafizln/matchprobe/internal/interfaces/httpapi"
	"github.com/hafizln/matchprobe/internal/platform/logging"
	"github.com/hafizln/matchprobe/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	feedClient := scorefeed.NewClient(scorefeed.ClientConfig{
		BaseURL:        cfg.FeedBaseURL,
		PageBaseURL:    cfg.FeedPageBaseURL,
		ListingURL:     cfg.FeedListingURL,
		UserAgent:      cfg.FeedUserAgent,
		Timeout:        cfg.FeedTimeout,
		MaxRetries:     cfg.FeedMaxRetries,
		BackoffBase:    cfg.FeedBackoffBase,
		BackoffStep:    cfg.FeedBackoffStep,
		Logger:         logger,
		CircuitBreaker: cfg.FeedCircuitBreaker(),
	})
	resolver := scorefeed.NewResolver(feedClient, logger)

	var pageRenderer scorefeed.PageRenderer
	if cfg.RendererEnabled {
		pageRenderer = renderer.NewClient(renderer.Config{
			BaseURL: cfg.RendererBaseURL,
			Timeout: cfg.RendererTimeout,
		}, logger)
	}

	extractor := scorefeed.NewExtractor(feedClient, resolver, pageRenderer, logger)

	gate := usecase.NewSeasonGate(cfg.AllowedLeagueIDs, cfg.SeasonStart, cfg.SeasonEnd)
	extractionSvc := usecase.NewExtractionService(extractor, gate, logger)
	batchSvc := usecase.NewBatchService(extractionSvc, extractor, gate, usecase.BatchConfig{
		Workers:    cfg.BatchWorkers,
		FailureCap: cfg.BatchFailureCap,
		Timeout:    cfg.BatchTimeout,
		ProbeDelay: cfg.ProbeDelay,
	}, logger)

	handler := httpapi.NewHandler(extractionSvc, batchSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
