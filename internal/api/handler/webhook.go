package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/logging"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/pkg/signature"
	"github.com/inboop/inboop_server/internal/service"
)

// Meta caps webhook bodies well below this.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhookService *service.WebhookService
}

func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// Verify echoes hub.challenge when the verify token matches.
// GET /api/v1/webhooks/meta
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.webhookService.VerifyChallenge(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if err != nil {
		c.String(http.StatusForbidden, err.Error())
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive checks the signature over the raw body and queues the event.
// Meta retries anything but a 2xx, so rejections use real status codes.
// POST /api/v1/webhooks/meta
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		response.ErrorWithData(c, http.StatusRequestEntityTooLarge, response.CodeParamError, "payload too large", nil)
		return
	}

	evt, err := h.webhookService.Ingest(c.Request.Context(), body, c.GetHeader(signature.Header))
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		response.ErrorWithData(c, http.StatusUnauthorized, response.CodeAuthFailed, err.Error(), nil)
		return
	case errors.Is(err, service.ErrInvalidPayload):
		response.ErrorWithData(c, http.StatusBadRequest, response.CodeParamError, err.Error(), nil)
		return
	case err != nil:
		// a 5xx makes Meta redeliver later
		logger := logging.FromContext(c.Request.Context())
		logger.Error().Err(err).Msg("enqueue webhook")
		response.ErrorWithData(c, http.StatusServiceUnavailable, response.CodeServerError, "", nil)
		return
	}

	response.Success(c, gin.H{"event_id": evt.ID})
}
