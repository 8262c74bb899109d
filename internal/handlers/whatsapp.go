package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/pkg/logger"
)

type whatsappHandlers struct {
	WhatsAppSvc WhatsAppService
	VerifyToken string
}

func NewWhatsAppHandlers(deps *Deps) *whatsappHandlers {
	return &whatsappHandlers{
		WhatsAppSvc: deps.WhatsAppSvc,
		VerifyToken: deps.WebhookVerifyToken,
	}
}

func (h *whatsappHandlers) WebhookRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Verify)
	r.Post("/", h.Receive)
	return r
}

// Verify answers the Cloud API subscription handshake.
func (h *whatsappHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode != "subscribe" || token != h.VerifyToken {
		http.Error(w, "verification failed", http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// Receive processes a webhook batch. It always answers 200 so the provider
// does not retry on our internal failures; dedupe handles true retries.
func (h *whatsappHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var payload dto.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Warn("webhook decode failed", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, message := range change.Value.Messages {
				if message.Type != "text" {
					continue
				}
				if err := h.WhatsAppSvc.HandleInbound(r.Context(), change.Value.Metadata.PhoneNumberID, message); err != nil {
					log.Error("inbound handling failed", "providerMessageId", message.ID, "error", err)
				}
			}
		}
	}
	w.WriteHeader(http.StatusOK)
}
