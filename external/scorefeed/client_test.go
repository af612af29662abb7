package scorefeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hafizln/matchprobe/internal/platform/logging"
	"github.com/hafizln/matchprobe/internal/platform/resilience"
	"github.com/hafizln/matchprobe/internal/usecase"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL + "/api/matchDetails",
		PageBaseURL:    srv.URL,
		ListingURL:     srv.URL + "/api/matches",
		UserAgent:      "matchprobe-test",
		MaxRetries:     2,
		BackoffBase:    time.Millisecond,
		BackoffStep:    time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestClientMatchDetails_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("matchId") != "4193456" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"general":{"matchId":4193456}}`))
	}))
	defer srv.Close()

	root, err := newTestClient(srv).MatchDetails(context.Background(), 4193456)
	if err != nil {
		t.Fatalf("match details failed: %v", err)
	}
	if got, _ := root.Key("general").Key("matchId").Int64(); got != 4193456 {
		t.Fatalf("unexpected decoded payload: %v", got)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClientMatchDetails_TerminalStatusDoesNotRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such match"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).MatchDetails(context.Background(), 1)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", fetchErr.StatusCode)
	}
	if calls.Load() != 1 {
		t.Fatalf("terminal status must not retry, got %d attempts", calls.Load())
	}
}

func TestClientMatchDetails_EmptyBodyIsTransient(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte("  "))
			return
		}
		_, _ = w.Write([]byte(`{"general":{}}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).MatchDetails(context.Background(), 2); err != nil {
		t.Fatalf("expected success after empty-body retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestClientGetText_ReportsFinalURLAfterRedirect(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/short/abc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/match/4193456", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/match/4193456", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>match page</html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := newTestClient(srv).GetText(context.Background(), srv.URL+"/short/abc")
	if err != nil {
		t.Fatalf("get text failed: %v", err)
	}
	if res.FinalURL != srv.URL+"/match/4193456" {
		t.Fatalf("unexpected final url: %s", res.FinalURL)
	}
	if string(res.Body) != "<html>match page</html>" {
		t.Fatalf("unexpected body: %s", res.Body)
	}
}

func TestClientCircuitOpenMapsToDependencyUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL + "/api/matchDetails",
		PageBaseURL: srv.URL,
		ListingURL:  srv.URL + "/api/matches",
		MaxRetries:  0,
		BackoffBase: time.Millisecond,
		BackoffStep: time.Millisecond,
		Logger:      logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.MatchDetails(context.Background(), 3); err == nil {
		t.Fatal("expected failure from upstream 500")
	}

	_, err := client.MatchDetails(context.Background(), 3)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open circuit, got %v", err)
	}
}
