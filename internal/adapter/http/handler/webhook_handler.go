package handler

import (
	"io"
	"net/http"

	"checkout-bridge/internal/adapter/http/dto"
	"checkout-bridge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WebhookHandler receives gateway notifications.
type WebhookHandler struct {
	dispatcher *service.Dispatcher
	log        zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(dispatcher *service.Dispatcher, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, log: log}
}

// Receive handles any method on /api/webhooks/mercadopago. The gateway
// retries deliveries that do not get a 2xx quickly, so the response is
// sent before any processing starts.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Warn().Err(err).Msg("webhook body read failed")
		body = nil
	}

	n := dto.NormalizeNotification(c.Request.URL.Query(), body)

	h.log.Info().
		Str("kind", string(n.Kind)).
		Str("reference_id", n.ReferenceID).
		Str("method", c.Request.Method).
		Msg("webhook received")

	c.JSON(http.StatusOK, gin.H{})

	h.dispatcher.DispatchAsync(n)
}
