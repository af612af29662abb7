package usecase

import (
	"context"
	"time"

	"github.com/hafizln/matchprobe/internal/domain/match"
)

// ResolvedMatch is the outcome of reference resolution. PageHTML carries a
// page that was already fetched during resolution so the extraction engine
// can reuse it instead of fetching twice.
type ResolvedMatch struct {
	ID       int64
	FinalURL string
	PageHTML []byte
}

// MatchSource is the provider-facing port the extraction pipeline depends on.
// The scorefeed package implements it.
type MatchSource interface {
	// Resolve maps an opaque reference (URL) to a canonical match id.
	Resolve(ctx context.Context, reference string) (ResolvedMatch, error)
	// Extract produces a normalized snapshot through the tiered fallback
	// chain. The returned Data carries the source tier tag.
	Extract(ctx context.Context, resolved ResolvedMatch) (match.Data, error)
	// MatchIDsByDate lists candidate match ids for one UTC day, restricted
	// to competitions accepted by leagueAllowed.
	MatchIDsByDate(ctx context.Context, day time.Time, leagueAllowed func(int64) bool) ([]int64, error)
}
