package scorefeed

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/hafizln/matchprobe/internal/platform/logging"
	"github.com/hafizln/matchprobe/internal/usecase"
)

// Match pages expose the id in several places depending on how the link was
// produced: the path, a share-link fragment, a query parameter, or only
// inside the page markup.
var (
	pathIDRegex     = regexp.MustCompile(`(?i)/match(?:es)?/(?:[^#?]*[/#])?(\d{5,})`)
	fragmentIDRegex = regexp.MustCompile(`#(\d{5,})$`)
	queryIDRegex    = regexp.MustCompile(`(?i)[?&]matchid=(\d{5,})`)
	embeddedIDRegex = regexp.MustCompile(`(?i)"matchid"\s*:\s*"?(\d{5,})`)
)

// Resolver turns an opaque match reference into the canonical numeric id.
type Resolver struct {
	client *Client
	logger *logging.Logger
}

func NewResolver(client *Client, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{client: client, logger: logger}
}

// ParseReference extracts the id from the reference's own shape without any
// network call. Fragments win over paths so share links resolve to the match
// they point at rather than the page they sit on.
func ParseReference(reference string) (int64, bool) {
	for _, re := range []*regexp.Regexp{fragmentIDRegex, queryIDRegex, pathIDRegex} {
		if m := re.FindStringSubmatch(reference); m != nil {
			id, err := strconv.ParseInt(m[1], 10, 64)
			if err == nil && id > 0 {
				return id, true
			}
		}
	}
	return 0, false
}

// Resolve maps a reference to a match id, fetching the page only when the
// reference itself is not enough. A fetched page is cached on the result so
// the extraction engine never fetches it twice.
func (r *Resolver) Resolve(ctx context.Context, reference string) (usecase.ResolvedMatch, error) {
	if id, ok := ParseReference(reference); ok {
		return usecase.ResolvedMatch{ID: id, FinalURL: reference}, nil
	}

	page, err := r.client.GetText(ctx, reference)
	if err != nil {
		return usecase.ResolvedMatch{}, fmt.Errorf("%w: reference %q: %v", usecase.ErrUnresolvedReference, reference, err)
	}

	if id, ok := ParseReference(page.FinalURL); ok {
		r.logger.DebugContext(ctx, "match id resolved from redirect target", "reference", reference, "final_url", page.FinalURL, "match_id", id)
		return usecase.ResolvedMatch{ID: id, FinalURL: page.FinalURL, PageHTML: page.Body}, nil
	}

	if id, ok := scanBodyForID(page.Body); ok {
		r.logger.DebugContext(ctx, "match id resolved from page body", "reference", reference, "match_id", id)
		return usecase.ResolvedMatch{ID: id, FinalURL: page.FinalURL, PageHTML: page.Body}, nil
	}

	return usecase.ResolvedMatch{}, fmt.Errorf("%w: reference %q", usecase.ErrUnresolvedReference, reference)
}

// scanBodyForID prefers an explicit embedded id field over a bare path hit.
func scanBodyForID(body []byte) (int64, bool) {
	for _, re := range []*regexp.Regexp{embeddedIDRegex, pathIDRegex} {
		if m := re.FindSubmatch(body); m != nil {
			id, err := strconv.ParseInt(string(m[1]), 10, 64)
			if err == nil && id > 0 {
				return id, true
			}
		}
	}
	return 0, false
}
