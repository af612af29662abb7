package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hafizln/matchprobe/internal/domain/match"
	"github.com/hafizln/matchprobe/internal/domain/player"
	"github.com/hafizln/matchprobe/internal/domain/playerstats"
	"github.com/hafizln/matchprobe/internal/platform/logging"
)

// MatchReport is the outcome of one full extraction. Tier exhaustion is a
// reported state, not an error: the snapshot comes back with source
// "unavailable" and the failure text, so batch callers keep their partial
// results.
type MatchReport struct {
	MatchID       int64
	FinalURL      string
	Data          match.Data
	Source        match.Source
	LeagueAllowed bool
	WithinSeason  bool
	Error         string
}

// PlayerReport couples a match report with the per-player aggregate for one
// query.
type PlayerReport struct {
	Reference string
	Match     MatchReport
	Stats     playerstats.Aggregate
}

type ExtractionService struct {
	source MatchSource
	gate   *SeasonGate
	logger *logging.Logger
}

func NewExtractionService(source MatchSource, gate *SeasonGate, logger *logging.Logger) *ExtractionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExtractionService{source: source, gate: gate, logger: logger}
}

// ExtractMatch resolves a reference and runs the tiered extraction chain,
// then stamps the gate verdict on the result.
func (s *ExtractionService) ExtractMatch(ctx context.Context, reference string) (MatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractMatch")
	defer span.End()

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return MatchReport{}, fmt.Errorf("%w: match reference is required", ErrInvalidInput)
	}

	resolved, err := s.source.Resolve(ctx, reference)
	if err != nil {
		return MatchReport{}, err
	}

	report := MatchReport{MatchID: resolved.ID, FinalURL: resolved.FinalURL}

	data, err := s.source.Extract(ctx, resolved)
	switch {
	case errors.Is(err, ErrExtractionExhausted):
		s.logger.WarnContext(ctx, "every extraction tier failed", "match_id", resolved.ID, "reference", reference)
		report.Source = match.SourceUnavailable
		report.Error = err.Error()
		return report, nil
	case err != nil:
		return MatchReport{}, fmt.Errorf("extract match %d: %w", resolved.ID, err)
	}

	report.Data = data
	report.Source = data.Source
	report.LeagueAllowed, report.WithinSeason = s.gate.Check(data)

	s.logger.InfoContext(ctx, "match extracted",
		"match_id", resolved.ID,
		"source", string(data.Source),
		"league_allowed", report.LeagueAllowed,
		"within_season", report.WithinSeason,
	)
	return report, nil
}

// ExtractPlayerStats extracts the match behind a reference and aggregates the
// queried player's statistics from whatever the winning tier produced.
func (s *ExtractionService) ExtractPlayerStats(ctx context.Context, reference string, query player.Query) (PlayerReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractPlayerStats")
	defer span.End()

	if query.Empty() {
		return PlayerReport{}, fmt.Errorf("%w: player query needs an id or a name", ErrInvalidInput)
	}

	matchReport, err := s.ExtractMatch(ctx, reference)
	if err != nil {
		return PlayerReport{}, err
	}

	report := PlayerReport{Reference: reference, Match: matchReport}
	if matchReport.Source != match.SourceUnavailable {
		report.Stats = AggregateStats(matchReport.Data, query)
	}
	return report, nil
}

// ExtractByID runs the extraction chain for an already known match id, used
// by date discovery where no reference URL exists.
func (s *ExtractionService) ExtractByID(ctx context.Context, matchID int64) (MatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractByID")
	defer span.End()

	if matchID <= 0 {
		return MatchReport{}, fmt.Errorf("%w: match id must be positive", ErrInvalidInput)
	}

	report := MatchReport{MatchID: matchID}
	data, err := s.source.Extract(ctx, ResolvedMatch{ID: matchID})
	switch {
	case errors.Is(err, ErrExtractionExhausted):
		report.Source = match.SourceUnavailable
		report.Error = err.Error()
		return report, nil
	case err != nil:
		return MatchReport{}, fmt.Errorf("extract match %d: %w", matchID, err)
	}

	report.Data = data
	report.Source = data.Source
	report.LeagueAllowed, report.WithinSeason = s.gate.Check(data)
	return report, nil
}
