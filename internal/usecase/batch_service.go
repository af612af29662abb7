package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/hafizln/matchprobe/internal/domain/player"
	"github.com/hafizln/matchprobe/internal/platform/logging"
)

const (
	defaultBatchWorkers    = 3
	defaultBatchFailureCap = 6
)

// BatchConfig bounds one batch run: worker parallelism, the reported failure
// list, the whole-batch deadline and the politeness delay between sequential
// listing probes.
type BatchConfig struct {
	Workers    int
	FailureCap int
	Timeout    time.Duration
	ProbeDelay time.Duration
}

// BatchFailure records one unit's terminal error, keyed by the input unit so
// callers can correlate despite unordered results.
type BatchFailure struct {
	Unit  string
	Error string
}

type PlayerBatchResult struct {
	Players  []PlayerReport
	Failures []BatchFailure
	// FailureCount is the true number of failed units even when Failures was
	// capped.
	FailureCount int
}

type DateScanResult struct {
	Matches      []MatchReport
	MatchIDs     []int64
	Failures     []BatchFailure
	FailureCount int
}

// extractionRunner is what the orchestrator needs from the extraction service.
type extractionRunner interface {
	ExtractPlayerStats(ctx context.Context, reference string, query player.Query) (PlayerReport, error)
	ExtractByID(ctx context.Context, matchID int64) (MatchReport, error)
}

// BatchService fans independent extraction units out over a bounded worker
// pool. A unit failure never aborts its siblings; the batch fails wholesale
// only on empty or malformed input.
type BatchService struct {
	extraction extractionRunner
	source     MatchSource
	gate       *SeasonGate
	cfg        BatchConfig
	logger     *logging.Logger
}

func NewBatchService(extraction extractionRunner, source MatchSource, gate *SeasonGate, cfg BatchConfig, logger *logging.Logger) *BatchService {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultBatchWorkers
	}
	if cfg.FailureCap <= 0 {
		cfg.FailureCap = defaultBatchFailureCap
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchService{extraction: extraction, source: source, gate: gate, cfg: cfg, logger: logger}
}

// ExtractPlayers runs one extraction per reference concurrently and merges the
// per-player aggregates with a capped failure list.
func (s *BatchService) ExtractPlayers(ctx context.Context, references []string, query player.Query) (PlayerBatchResult, error) {
	references = compactReferences(references)
	if len(references) == 0 {
		return PlayerBatchResult{}, fmt.Errorf("%w: at least one player reference is required", ErrInvalidInput)
	}
	if query.Empty() {
		return PlayerBatchResult{}, fmt.Errorf("%w: player query needs an id or a name", ErrInvalidInput)
	}

	ctx, cancel := s.batchContext(ctx)
	defer cancel()

	type unitOutcome struct {
		report  PlayerReport
		failure *BatchFailure
	}
	results := make(chan unitOutcome, len(references))

	workers, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return PlayerBatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	for _, reference := range references {
		reference := reference
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			report, unitErr := s.extraction.ExtractPlayerStats(ctx, reference, query)
			if unitErr != nil {
				results <- unitOutcome{failure: &BatchFailure{Unit: reference, Error: unitErr.Error()}}
				return
			}
			results <- unitOutcome{report: report}
		}); err != nil {
			wg.Done()
			return PlayerBatchResult{}, fmt.Errorf("submit unit to worker pool: %w", err)
		}
	}

	wg.Wait()
	close(results)

	var out PlayerBatchResult
	for outcome := range results {
		if outcome.failure != nil {
			out.FailureCount++
			if len(out.Failures) < s.cfg.FailureCap {
				out.Failures = append(out.Failures, *outcome.failure)
			}
			continue
		}
		out.Players = append(out.Players, outcome.report)
	}

	sort.SliceStable(out.Players, func(i, j int) bool { return out.Players[i].Reference < out.Players[j].Reference })
	sort.SliceStable(out.Failures, func(i, j int) bool { return out.Failures[i].Unit < out.Failures[j].Unit })

	s.logger.InfoContext(ctx, "player batch finished",
		"units", len(references),
		"succeeded", len(out.Players),
		"failed", out.FailureCount,
	)
	return out, nil
}

// ScanDates probes the day listing for each date in [from, to] sequentially
// with a politeness delay, then extracts every discovered match concurrently.
// Only competitions the gate allows are probed further.
func (s *BatchService) ScanDates(ctx context.Context, from, to time.Time) (DateScanResult, error) {
	from, to = from.UTC().Truncate(24*time.Hour), to.UTC().Truncate(24*time.Hour)
	if to.Before(from) {
		return DateScanResult{}, fmt.Errorf("%w: date window end precedes start", ErrInvalidInput)
	}

	ctx, cancel := s.batchContext(ctx)
	defer cancel()

	var out DateScanResult
	seen := map[int64]struct{}{}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if day != from && s.cfg.ProbeDelay > 0 {
			if err := sleepContext(ctx, s.cfg.ProbeDelay); err != nil {
				return DateScanResult{}, err
			}
		}

		ids, err := s.source.MatchIDsByDate(ctx, day, s.gate.AllowsLeagueID)
		if err != nil {
			out.FailureCount++
			if len(out.Failures) < s.cfg.FailureCap {
				out.Failures = append(out.Failures, BatchFailure{Unit: day.Format("2006-01-02"), Error: err.Error()})
			}
			continue
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out.MatchIDs = append(out.MatchIDs, id)
		}
	}

	if len(out.MatchIDs) == 0 {
		return out, nil
	}

	var (
		mu       sync.Mutex
		failures []BatchFailure
		failed   int
	)
	extractors := pool.New().WithMaxGoroutines(s.cfg.Workers)
	for _, matchID := range out.MatchIDs {
		matchID := matchID
		extractors.Go(func() {
			report, unitErr := s.extraction.ExtractByID(ctx, matchID)

			mu.Lock()
			defer mu.Unlock()
			if unitErr != nil {
				failed++
				failures = append(failures, BatchFailure{Unit: fmt.Sprintf("match:%d", matchID), Error: unitErr.Error()})
				return
			}
			out.Matches = append(out.Matches, report)
		})
	}
	extractors.Wait()

	out.FailureCount += failed
	for _, failure := range failures {
		if len(out.Failures) >= s.cfg.FailureCap {
			break
		}
		out.Failures = append(out.Failures, failure)
	}

	sort.SliceStable(out.Matches, func(i, j int) bool { return out.Matches[i].MatchID < out.Matches[j].MatchID })

	s.logger.InfoContext(ctx, "date scan finished",
		"days", int(to.Sub(from).Hours()/24)+1,
		"discovered", len(out.MatchIDs),
		"extracted", len(out.Matches),
		"failed", out.FailureCount,
	)
	return out, nil
}

func (s *BatchService) batchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

func compactReferences(references []string) []string {
	cleaned := make([]string, 0, len(references))
	seen := map[string]struct{}{}
	for _, reference := range references {
		reference = strings.TrimSpace(reference)
		if reference == "" {
			continue
		}
		if _, dup := seen[reference]; dup {
			continue
		}
		seen[reference] = struct{}{}
		cleaned = append(cleaned, reference)
	}
	return cleaned
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
