package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/middleware"
	"github.com/cfoia/backend/internal/response"
)

type exchangeRequest struct {
	PublicToken string `json:"publicToken"`
	Institution string `json:"institution"`
}

type connectHandlers struct {
	ResponseHandler response.ResponseHandler
	ConnectSvc      ConnectService
	BankSyncSvc     BankSyncService
	RBAC            PermissionChecker
}

func NewConnectHandlers(deps *Deps) *connectHandlers {
	return &connectHandlers{
		ResponseHandler: deps.ResponseHandler,
		ConnectSvc:      deps.ConnectSvc,
		BankSyncSvc:     deps.BankSyncSvc,
		RBAC:            deps.RBAC,
	}
}

func (h *connectHandlers) ConnectRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/link-token", h.CreateLinkToken)
	r.Post("/exchange", h.ExchangePublicToken)
	r.Post("/sync", h.Sync)
	return r
}

func (h *connectHandlers) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.RBAC.Check(r.Context(), orgID, middleware.UID(r.Context()), "EDIT_FINANCE"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	token, err := h.ConnectSvc.CreateLinkToken(r.Context(), orgID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, map[string]string{"linkToken": token})
}

func (h *connectHandlers) ExchangePublicToken(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.RBAC.Check(r.Context(), orgID, middleware.UID(r.Context()), "EDIT_FINANCE"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	var body exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	connection, err := h.ConnectSvc.ExchangePublicToken(r.Context(), orgID, body.PublicToken, body.Institution)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, connection)
}

func (h *connectHandlers) Sync(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.RBAC.Check(r.Context(), orgID, middleware.UID(r.Context()), "EDIT_FINANCE"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	result, err := h.BankSyncSvc.SyncOrg(r.Context(), orgID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, result)
}
