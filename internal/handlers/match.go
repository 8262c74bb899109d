package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cfoia/backend/internal/middleware"
	"github.com/cfoia/backend/internal/response"
)

type matchHandlers struct {
	ResponseHandler response.ResponseHandler
	MatchSvc        MatchService
	RBAC            PermissionChecker
}

func NewMatchHandlers(deps *Deps) *matchHandlers {
	return &matchHandlers{
		ResponseHandler: deps.ResponseHandler,
		MatchSvc:        deps.MatchSvc,
		RBAC:            deps.RBAC,
	}
}

func (h *matchHandlers) MatchRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/suggestions", h.ListSuggestions)
	r.Post("/suggestions/{suggestionID}/approve", h.ApproveSuggestion)
	r.Post("/suggestions/{suggestionID}/reject", h.RejectSuggestion)
	r.Post("/run", h.Run)
	r.Post("/bank-transactions/{bankTransactionID}/create-transaction", h.CreateFromBank)
	return r
}

func (h *matchHandlers) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.RBAC.Check(r.Context(), orgID, middleware.UID(r.Context()), "VIEW_FINANCE"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	suggestions, err := h.MatchSvc.ListSuggestions(r.Context(), orgID, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, suggestions)
}

func (h *matchHandlers) ApproveSuggestion(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.RBAC.Check(r.Context(), orgID, middleware.UID(r.Context()), "EDIT_FINANCE"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	suggestion, err := h.MatchSvc.ApproveSuggestion(r.Context(), orgID, chi.URLParam(r, "suggestionID"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, suggestion)
}

func (h *matchHandlers) RejectSuggestion(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.RBAC.Check(r.Context(), orgID, middleware.UID(r.Context()), "EDIT_FINANCE"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	if err := h.MatchSvc.RejectSuggestion(r.Context(), orgID, chi.URLParam(r, "suggestionID")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *matchHandlers) Run(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.RBAC.Check(r.Context(), orgID, middleware.UID(r.Context()), "EDIT_FINANCE"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	result, err := h.MatchSvc.RunOrg(r.Context(), orgID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, result)
}

func (h *matchHandlers) CreateFromBank(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.RBAC.Check(r.Context(), orgID, middleware.UID(r.Context()), "EDIT_FINANCE"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	transaction, err := h.MatchSvc.CreateFromBank(r.Context(), orgID, chi.URLParam(r, "bankTransactionID"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, transaction)
}
