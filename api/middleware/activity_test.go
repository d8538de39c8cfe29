package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dromero-dev/storefront-backend/pkg/auth/session"
)

type stubAdmitter struct {
	admitFn func(ctx context.Context, accessID string, now time.Time) (time.Duration, error)
	calls   []string
}

func (s *stubAdmitter) Admit(ctx context.Context, accessID string, now time.Time) (time.Duration, error) {
	s.calls = append(s.calls, accessID)
	if s.admitFn != nil {
		return s.admitFn(ctx, accessID, now)
	}
	return 0, nil
}

func gateRequest(accessID, accept string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if accessID != "" {
		req = req.WithContext(WithAccessID(req.Context(), accessID))
	}
	return req
}

func TestActivityGateAdmitsLiveSession(t *testing.T) {
	admitter := &stubAdmitter{}
	nextCalled := false
	handler := ActivityGate(admitter, "/login.html", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, gateRequest("session-1", "application/json"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !nextCalled {
		t.Fatal("expected handler to run")
	}
	if len(admitter.calls) != 1 || admitter.calls[0] != "session-1" {
		t.Fatalf("expected one admit for session-1, got %v", admitter.calls)
	}
}

func TestActivityGateExpiredAPIClient(t *testing.T) {
	admitter := &stubAdmitter{
		admitFn: func(context.Context, string, time.Time) (time.Duration, error) {
			return 0, session.ErrExpired
		},
	}
	nextCalled := false
	handler := ActivityGate(admitter, "/login.html", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, gateRequest("session-1", "application/json"))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if nextCalled {
		t.Fatal("expected handler to be skipped")
	}
	body := resp.Body.String()
	if !strings.Contains(body, "SESSION_EXPIRED") {
		t.Fatalf("expected SESSION_EXPIRED in body, got %s", body)
	}
	if !strings.Contains(body, "inactivity") {
		t.Fatalf("expected inactivity reason in body, got %s", body)
	}
}

func TestActivityGateExpiredBrowserRedirects(t *testing.T) {
	admitter := &stubAdmitter{
		admitFn: func(context.Context, string, time.Time) (time.Duration, error) {
			return 0, session.ErrExpired
		},
	}
	nextCalled := false
	handler := ActivityGate(admitter, "/login.html", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, gateRequest("session-1", "text/html,application/xhtml+xml"))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if nextCalled {
		t.Fatal("expected handler to be skipped")
	}
	if loc := resp.Header().Get("Location"); loc != "/login.html?expired=1" {
		t.Fatalf("expected redirect to /login.html?expired=1, got %q", loc)
	}
}

// A client that accepts both JSON and HTML is an API caller, not a page load.
func TestActivityGateExpiredJSONWinsOverHTML(t *testing.T) {
	admitter := &stubAdmitter{
		admitFn: func(context.Context, string, time.Time) (time.Duration, error) {
			return 0, session.ErrExpired
		},
	}
	handler := ActivityGate(admitter, "/login.html", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, gateRequest("session-1", "text/html, application/json"))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestActivityGateMissingAccessID(t *testing.T) {
	admitter := &stubAdmitter{}
	handler := ActivityGate(admitter, "/login.html", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session id")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, gateRequest("", "application/json"))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if len(admitter.calls) != 0 {
		t.Fatalf("expected no admit calls, got %v", admitter.calls)
	}
}

func TestActivityGateAdmitterFailure(t *testing.T) {
	admitter := &stubAdmitter{
		admitFn: func(context.Context, string, time.Time) (time.Duration, error) {
			return 0, fmt.Errorf("redis down")
		},
	}
	handler := ActivityGate(admitter, "/login.html", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when admission fails")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, gateRequest("session-1", "application/json"))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
