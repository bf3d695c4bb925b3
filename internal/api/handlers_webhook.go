package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/membership-service/internal/auth"
	"github.com/membership-service/internal/types"
)

// handleAuthWebhook accepts auth provider events and feeds them to the
// session manager's ordered queue. The request body is authenticated with
// an HMAC signature over the raw payload.
func (s *Server) handleAuthWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Failed to read request body", nil)
		return
	}

	if !s.verifyWebhookSignature(body, r.Header.Get("X-Webhook-Signature")) {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Invalid webhook signature", nil)
		return
	}

	var event auth.Event
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid event payload: "+err.Error(), nil)
		return
	}

	switch event.Type {
	case types.AuthEventSignedIn, types.AuthEventSignedOut, types.AuthEventUserUpdated, types.AuthEventTokenRefreshed:
	default:
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Unknown event type: "+string(event.Type), nil)
		return
	}

	if event.User.ID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Event is missing the user ID", nil)
		return
	}

	s.sessionService.Enqueue(event)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) verifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
