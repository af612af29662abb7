package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hafizln/matchprobe/internal/domain/player"
	"github.com/hafizln/matchprobe/internal/platform/logging"
	"github.com/hafizln/matchprobe/internal/usecase"
	jsoniter "github.com/json-iterator/go"
)

// MatchExtractor is the single-match entry point the handler depends on.
type MatchExtractor interface {
	ExtractMatch(ctx context.Context, reference string) (usecase.MatchReport, error)
	ExtractPlayerStats(ctx context.Context, reference string, query player.Query) (usecase.PlayerReport, error)
}

// BatchRunner is the multi-unit entry point the handler depends on.
type BatchRunner interface {
	ExtractPlayers(ctx context.Context, references []string, query player.Query) (usecase.PlayerBatchResult, error)
	ScanDates(ctx context.Context, from, to time.Time) (usecase.DateScanResult, error)
}

type Handler struct {
	extraction MatchExtractor
	batch      BatchRunner
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(extraction MatchExtractor, batch BatchRunner, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		extraction: extraction,
		batch:      batch,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ExtractMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExtractMatch")
	defer span.End()

	var req extractMatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	query := player.Query{ID: req.PlayerID, Name: req.PlayerName}
	if !query.Empty() {
		report, err := h.extraction.ExtractPlayerStats(ctx, req.MatchReference, query)
		if err != nil {
			h.logger.WarnContext(ctx, "extract player stats failed", "reference", req.MatchReference, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, playerReportToDTO(report))
		return
	}

	report, err := h.extraction.ExtractMatch(ctx, req.MatchReference)
	if err != nil {
		h.logger.WarnContext(ctx, "extract match failed", "reference", req.MatchReference, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchReportToDTO(report))
}

func (h *Handler) ExtractPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExtractPlayers")
	defer span.End()

	var req extractPlayersRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	query := player.Query{ID: req.PlayerID, Name: req.PlayerName}
	if query.Empty() {
		writeError(ctx, w, fmt.Errorf("%w: playerId or playerName is required", usecase.ErrInvalidInput))
		return
	}

	result, err := h.batch.ExtractPlayers(ctx, req.PlayerReferences, query)
	if err != nil {
		h.logger.WarnContext(ctx, "player batch failed", "units", len(req.PlayerReferences), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerBatchToDTO(result))
}

func (h *Handler) ScanDates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScanDates")
	defer span.End()

	var req scanDatesRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	from, err := parseDay(req.From)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid from date: %v", usecase.ErrInvalidInput, err))
		return
	}
	to, err := parseDay(req.To)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid to date: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.batch.ScanDates(ctx, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "date scan failed", "from", req.From, "to", req.To, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := dateScanToDTO(result)
	if query := (player.Query{ID: req.PlayerID, Name: req.PlayerName}); !query.Empty() {
		dto.Players = scanPlayersToDTO(result, query)
	}
	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseDay(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, time.UTC)
}

type extractMatchRequest struct {
	MatchReference string `json:"matchReference" validate:"required,url"`
	PlayerID       *int64 `json:"playerId" validate:"omitempty,gt=0"`
	PlayerName     string `json:"playerName" validate:"omitempty,max=120"`
}

type extractPlayersRequest struct {
	PlayerReferences []string `json:"playerReferences" validate:"required,min=1,dive,required"`
	PlayerID         *int64   `json:"playerId" validate:"omitempty,gt=0"`
	PlayerName       string   `json:"playerName" validate:"omitempty,max=120"`
}

type scanDatesRequest struct {
	From       string `json:"from" validate:"required"`
	To         string `json:"to" validate:"required"`
	PlayerID   *int64 `json:"playerId" validate:"omitempty,gt=0"`
	PlayerName string `json:"playerName" validate:"omitempty,max=120"`
}
