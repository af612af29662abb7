// Package renderer calls an external page-rendering service. It is the escape
// hatch for match pages the provider refuses to serve to a plain HTTP client;
// the service fetches the page in a real browser context and returns the
// settled markup.
package renderer

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/hafizln/matchprobe/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type renderRequest struct {
	URL string `json:"url"`
}

type renderResponse struct {
	HTML string `json:"html"`
}

type Client struct {
	renderURL string
	timeout   time.Duration
	transport *fasthttp.Client
	logger    *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		renderURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/render",
		timeout:   timeout,
		transport: &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		logger:    logger,
	}
}

// PageText renders one page and returns its markup. Rendering is slow by
// nature, so the deadline is the shorter of the configured timeout and the
// caller's context.
func (c *Client) PageText(ctx context.Context, pageURL string) ([]byte, error) {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)

	if err := sonic.ConfigDefault.NewEncoder(body).Encode(renderRequest{URL: pageURL}); err != nil {
		return nil, crerr.Wrap(err, "encode render request")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.renderURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body.B)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.transport.DoDeadline(req, resp, deadline); err != nil {
		return nil, crerr.Wrapf(err, "render %s", pageURL)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, crerr.Newf("render %s: status=%d", pageURL, resp.StatusCode())
	}

	// fasthttp reuses response buffers after release, so everything returned
	// from here must be copied out.
	raw := resp.Body()
	if strings.Contains(string(resp.Header.ContentType()), "json") {
		var decoded renderResponse
		if err := sonic.Unmarshal(raw, &decoded); err != nil {
			return nil, crerr.Wrapf(err, "decode render response for %s", pageURL)
		}
		if strings.TrimSpace(decoded.HTML) == "" {
			return nil, crerr.Newf("render %s: empty document", pageURL)
		}
		return []byte(decoded.HTML), nil
	}

	c.logger.DebugContext(ctx, "renderer returned raw markup", "url", pageURL, "bytes", len(raw))
	return append([]byte(nil), raw...), nil
}
