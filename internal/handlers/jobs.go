package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/response"
)

// jobsHandlers exposes the scheduled sweeps behind a shared-secret header
// so a Cloud Scheduler target can hit them.
type jobsHandlers struct {
	ResponseHandler response.ResponseHandler
	MatchSvc        MatchService
	NotifySvc       NotifyService
	PendingSvc      PendingService
	BankSyncSvc     BankSyncService
	JobToken        string
}

func NewJobsHandlers(deps *Deps) *jobsHandlers {
	return &jobsHandlers{
		ResponseHandler: deps.ResponseHandler,
		MatchSvc:        deps.MatchSvc,
		NotifySvc:       deps.NotifySvc,
		PendingSvc:      deps.PendingSvc,
		BankSyncSvc:     deps.BankSyncSvc,
		JobToken:        deps.JobToken,
	}
}

func (h *jobsHandlers) JobRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.requireJobToken)
	r.Post("/match-sweep", h.MatchSweep)
	r.Post("/bank-sync", h.BankSync)
	r.Post("/notifications", h.Notifications)
	r.Post("/digests", h.Digests)
	r.Post("/pending-cleanup", h.PendingCleanup)
	return r
}

func (h *jobsHandlers) requireJobToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.JobToken == "" || r.Header.Get("X-Job-Token") != h.JobToken {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *jobsHandlers) MatchSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.MatchSvc.RunAll(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, result)
}

func (h *jobsHandlers) BankSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.BankSyncSvc.SyncAll(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, result)
}

func (h *jobsHandlers) Notifications(w http.ResponseWriter, r *http.Request) {
	result, err := h.NotifySvc.DispatchAll(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, result)
}

func (h *jobsHandlers) Digests(w http.ResponseWriter, r *http.Request) {
	sent, err := h.NotifySvc.SendDailyDigests(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, map[string]int{"sent": sent})
}

func (h *jobsHandlers) PendingCleanup(w http.ResponseWriter, r *http.Request) {
	removed, err := h.PendingSvc.CleanupExpired(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, dto.PendingCleanupResult{Removed: removed})
}
