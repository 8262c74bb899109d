package whatsappclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
)

// Adapter posts one text message through the WhatsApp Cloud API and returns
// the provider message ID. Retry policy lives in the sender service.
type Adapter struct {
	httpClient    *http.Client
	apiURL        string
	phoneNumberID string
	accessToken   string
}

func NewAdapter(apiURL, phoneNumberID, accessToken string) *Adapter {
	return &Adapter{
		httpClient:    &http.Client{},
		apiURL:        apiURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
	}
}

func (a *Adapter) SendText(ctx context.Context, to, text string) (string, error) {
	if a.phoneNumberID == "" || a.accessToken == "" {
		return "", fmt.Errorf("whatsapp credentials not configured")
	}

	payload := dto.SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             dto.SendMessageText{Body: text},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/messages", a.apiURL, a.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		transient := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", errs.NewExternalServiceError("whatsapp", fmt.Sprintf("send failed: status %d", resp.StatusCode), transient)
	}

	var parsed dto.SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("whatsapp response decode failed: %w", err)
	}
	if len(parsed.Messages) == 0 || parsed.Messages[0].ID == "" {
		return "", fmt.Errorf("no message id returned from whatsapp api")
	}

	return parsed.Messages[0].ID, nil
}
