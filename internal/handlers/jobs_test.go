package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cfoia/backend/internal/dto"
)

type stubMatchSweeper struct {
	MatchService
	runAllCalls int
}

func (s *stubMatchSweeper) RunAll(ctx context.Context) (dto.MatchSweepResult, error) {
	s.runAllCalls++
	return dto.MatchSweepResult{}, nil
}

type stubResponseHandler struct {
	successStatus int
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, status int, data any) {
	s.successStatus = status
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	w.WriteHeader(http.StatusInternalServerError)
}

func TestJobRoutesRequireToken(t *testing.T) {
	match := &stubMatchSweeper{}
	h := &jobsHandlers{
		ResponseHandler: &stubResponseHandler{},
		MatchSvc:        match,
		JobToken:        "secret",
	}
	router := h.JobRoutes()

	req := httptest.NewRequest(http.MethodPost, "/match-sweep", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing token must 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/match-sweep", nil)
	req.Header.Set("X-Job-Token", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("bad token must 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/match-sweep", nil)
	req.Header.Set("X-Job-Token", "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token must pass, got %d", rec.Code)
	}
	if match.runAllCalls != 1 {
		t.Fatalf("sweep not invoked: %d", match.runAllCalls)
	}
}

func TestJobRoutesRejectWhenTokenUnset(t *testing.T) {
	h := &jobsHandlers{
		ResponseHandler: &stubResponseHandler{},
		MatchSvc:        &stubMatchSweeper{},
		JobToken:        "",
	}
	router := h.JobRoutes()

	req := httptest.NewRequest(http.MethodPost, "/match-sweep", nil)
	req.Header.Set("X-Job-Token", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unset token must close the routes, got %d", rec.Code)
	}
}
