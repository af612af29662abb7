package scorefeed

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/hafizln/matchprobe/internal/domain/match"
	"github.com/hafizln/matchprobe/internal/platform/logging"
	"github.com/hafizln/matchprobe/internal/platform/rawtree"
	"github.com/hafizln/matchprobe/internal/usecase"
)

// PageRenderer fetches a page through a rendering intermediary. It is the
// degraded path for pages the provider refuses to serve to a plain client.
type PageRenderer interface {
	PageText(ctx context.Context, url string) ([]byte, error)
}

// Regex fallback only targets the man-of-the-match blob; the id and name keys
// appear in either order depending on the template revision.
var (
	potmIDFirstRegex   = regexp.MustCompile(`(?is)"(?:playerOfTheMatch|manOfTheMatch)"\s*:\s*\{[^{}]*?"id"\s*:\s*"?(\d+)"?[^{}]*?"name"\s*:\s*"([^"]+)"`)
	potmNameFirstRegex = regexp.MustCompile(`(?is)"(?:playerOfTheMatch|manOfTheMatch)"\s*:\s*\{[^{}]*?"name"\s*:\s*"([^"]+)"[^{}]*?"id"\s*:\s*"?(\d+)"?`)
)

// Listing payloads group matches per competition; these are the key aliases a
// competition node uses for its own id and its match table.
var (
	listingLeagueIDAliases = []string{"primaryId", "leagueId", "id"}
	listingMatchSeqAliases = []string{"matches", "fixtures", "games"}
	listingMatchIDAliases  = []string{"id", "matchId"}
)

// Extractor implements the provider-facing port: reference resolution plus the
// tiered extraction chain structured -> embedded document -> regex fallback.
// Tiers are strictly ordered and mutually exclusive; the first tier yielding
// any content wins.
type Extractor struct {
	client   *Client
	resolver *Resolver
	renderer PageRenderer
	logger   *logging.Logger
}

func NewExtractor(client *Client, resolver *Resolver, renderer PageRenderer, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{client: client, resolver: resolver, renderer: renderer, logger: logger}
}

func (e *Extractor) Resolve(ctx context.Context, reference string) (usecase.ResolvedMatch, error) {
	return e.resolver.Resolve(ctx, reference)
}

// Extract walks the fallback chain for one resolved match. It returns
// ErrExtractionExhausted only when every tier came up empty; partial data from
// any tier is a success.
func (e *Extractor) Extract(ctx context.Context, resolved usecase.ResolvedMatch) (match.Data, error) {
	if data, ok := e.extractStructured(ctx, resolved.ID); ok {
		return data, nil
	}

	html := e.fetchPage(ctx, resolved)

	if len(html) > 0 {
		if data, ok := e.extractEmbedded(ctx, resolved.ID, html); ok {
			return data, nil
		}
		if data, ok := extractRegexFallback(resolved.ID, html); ok {
			e.logger.WarnContext(ctx, "match extracted via regex fallback", "match_id", resolved.ID)
			return data, nil
		}
	}

	return match.Data{}, fmt.Errorf("%w: match %d", usecase.ErrExtractionExhausted, resolved.ID)
}

func (e *Extractor) extractStructured(ctx context.Context, matchID int64) (match.Data, bool) {
	root, err := e.client.MatchDetails(ctx, matchID)
	if err != nil {
		e.logger.WarnContext(ctx, "structured endpoint failed, falling back", "match_id", matchID, "error", err)
		return match.Data{}, false
	}

	data := normalizeGraph(matchID, root)
	if !data.HasContent() {
		e.logger.DebugContext(ctx, "structured payload had no usable content", "match_id", matchID)
		return match.Data{}, false
	}
	data.Source = match.SourceStructured
	return data, true
}

func (e *Extractor) extractEmbedded(ctx context.Context, matchID int64, html []byte) (match.Data, bool) {
	root, err := extractEmbeddedDocument(html)
	if err != nil {
		e.logger.DebugContext(ctx, "no embedded document in page", "match_id", matchID)
		return match.Data{}, false
	}

	data := normalizeGraph(matchID, root)
	if !data.HasContent() {
		return match.Data{}, false
	}
	data.Source = match.SourceEmbedded
	return data, true
}

// fetchPage returns the match page HTML, reusing a page cached during
// resolution, then fetching directly, then going through the renderer when one
// is configured. An empty return means every page source failed.
func (e *Extractor) fetchPage(ctx context.Context, resolved usecase.ResolvedMatch) []byte {
	if len(resolved.PageHTML) > 0 {
		return resolved.PageHTML
	}

	url := resolved.FinalURL
	if _, ok := ParseReference(url); !ok {
		url = e.client.MatchPageURL(resolved.ID)
	}

	page, err := e.client.GetText(ctx, url)
	if err == nil {
		return page.Body
	}
	e.logger.WarnContext(ctx, "direct page fetch failed", "match_id", resolved.ID, "url", url, "error", err)

	if e.renderer == nil {
		return nil
	}
	body, err := e.renderer.PageText(ctx, url)
	if err != nil {
		e.logger.WarnContext(ctx, "rendered page fetch failed", "match_id", resolved.ID, "url", url, "error", err)
		return nil
	}
	return body
}

// extractRegexFallback scrapes only the man of the match from raw markup. The
// result is deliberately thin; it exists so a heavily degraded page still
// yields the one field that cannot be reconstructed from stats.
func extractRegexFallback(matchID int64, html []byte) (match.Data, bool) {
	var idText, name string
	if m := potmIDFirstRegex.FindSubmatch(html); m != nil {
		idText, name = string(m[1]), string(m[2])
	} else if m := potmNameFirstRegex.FindSubmatch(html); m != nil {
		name, idText = string(m[1]), string(m[2])
	} else {
		return match.Data{}, false
	}

	ref := match.PlayerRef{Name: name}
	if id, err := strconv.ParseInt(idText, 10, 64); err == nil && id > 0 {
		ref.ID = &id
	}
	if ref.ID == nil && ref.Name == "" {
		return match.Data{}, false
	}

	return match.Data{
		ID:               match.ID(matchID),
		PlayerOfTheMatch: &ref,
		Source:           match.SourceRegex,
	}, true
}

// MatchIDsByDate scans a day listing for competition nodes and collects the
// match ids of competitions the caller accepts. The listing shape is matched
// structurally: any mapping with a competition id and a table of matches.
func (e *Extractor) MatchIDsByDate(ctx context.Context, day time.Time, leagueAllowed func(int64) bool) ([]int64, error) {
	root, err := e.client.ListingByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	var ids []int64
	seen := map[int64]struct{}{}

	rawtree.EachEntry(root, func(_ string, v rawtree.Value) bool {
		if v.Kind() != rawtree.KindMap {
			return false
		}
		leagueID, ok := v.First(listingLeagueIDAliases...).Int64()
		if !ok || leagueID <= 0 {
			return false
		}
		matches := v.First(listingMatchSeqAliases...)
		if !rawtree.SeqOfMaps(matches) {
			return false
		}
		if leagueAllowed != nil && !leagueAllowed(leagueID) {
			return false
		}

		seq, _ := matches.Seq()
		for i := range seq {
			id, idOK := matches.Index(i).First(listingMatchIDAliases...).Int64()
			if !idOK || id <= 0 {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return false
	})

	e.logger.DebugContext(ctx, "scanned day listing", "day", day.UTC().Format("2006-01-02"), "match_ids", len(ids))
	return ids, nil
}
