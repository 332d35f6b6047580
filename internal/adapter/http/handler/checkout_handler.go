package handler

import (
	"checkout-bridge/internal/adapter/http/dto"
	"checkout-bridge/internal/core/ports"
	"checkout-bridge/pkg/apperror"
	"checkout-bridge/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout-session creation.
type CheckoutHandler struct {
	gateway ports.PaymentGateway
	log     zerolog.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(gateway ports.PaymentGateway, log zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{gateway: gateway, log: log}
}

// Create handles POST /api/checkout/preferences.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req dto.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("malformed request body"))
		return
	}

	prefReq, err := req.Normalize()
	if err != nil {
		response.Error(c, err)
		return
	}

	session, err := h.gateway.CreatePreference(c.Request.Context(), prefReq)
	if err != nil {
		// The upstream error body stays in server logs; the storefront
		// gets the generic client-safe message.
		h.log.Error().Err(err).Msg("checkout creation failed")
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CheckoutResponse{
		ID:                 session.ID,
		CheckoutURL:        session.CheckoutURL,
		SandboxCheckoutURL: session.SandboxCheckoutURL,
	})
}
