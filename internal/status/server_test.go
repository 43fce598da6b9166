package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/suzukaplayer/resilience/internal/core/config"
	"github.com/suzukaplayer/resilience/internal/core/domain"
	"github.com/suzukaplayer/resilience/internal/engine"
)

func newTestServer(t *testing.T) (*Server, *engine.Coordinator) {
	t.Helper()

	coord, err := engine.New(config.DefaultResilience())
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return NewServer(coord, 0), coord
}

func TestHandleStatusHealthy(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}

	var view domain.StatusView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if view.Level != domain.StatusNone {
		t.Errorf("level = %v, want none", view.Level)
	}
}

func TestHandleStatusCriticalReturns503(t *testing.T) {
	s, coord := newTestServer(t)

	for i := 0; i < 3; i++ {
		coord.RecordError(i, "", "connection timeout")
	}

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", rec.Code)
	}

	var view domain.StatusView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if view.Level != domain.StatusCritical {
		t.Errorf("level = %v, want critical", view.Level)
	}
	if view.RemainingSeconds <= 0 {
		t.Errorf("remaining = %v, want > 0", view.RemainingSeconds)
	}
}

func TestHandleDetailed(t *testing.T) {
	s, coord := newTestServer(t)

	coord.RecordError(5, "https://example.com/v", "404 not found")

	rec := httptest.NewRecorder()
	s.handleDetailed(rec, httptest.NewRequest(http.MethodGet, "/status/detailed", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}

	var sum engine.Summary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if sum.TotalErrors != 1 {
		t.Errorf("total = %d, want 1", sum.TotalErrors)
	}
	if len(sum.RecentEvents) != 1 || sum.RecentEvents[0].Index != 5 {
		t.Errorf("unexpected recent events: %+v", sum.RecentEvents)
	}
}

func TestHandleReset(t *testing.T) {
	s, coord := newTestServer(t)

	for i := 0; i < 3; i++ {
		coord.RecordError(i, "", "connection timeout")
	}

	rec := httptest.NewRecorder()
	s.handleReset(rec, httptest.NewRequest(http.MethodPost, "/reset", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if coord.Status().Level == domain.StatusCritical {
		t.Error("breaker still open after reset")
	}
}

func TestHandleResetRejectsGet(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleReset(rec, httptest.NewRequest(http.MethodGet, "/reset", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code = %d, want 405", rec.Code)
	}
}
