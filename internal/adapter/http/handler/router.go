package handler

import (
	"checkout-bridge/internal/adapter/http/middleware"
	"checkout-bridge/internal/core/ports"
	"checkout-bridge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Gateway       ports.PaymentGateway
	Dispatcher    *service.Dispatcher
	WebhookSecret string // empty = signature verification disabled
	Logger        zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", Health)

	api := r.Group("/api")

	checkoutHandler := NewCheckoutHandler(deps.Gateway, deps.Logger)
	api.POST("/checkout/preferences", checkoutHandler.Create)

	// The processor has delivered notifications with varying methods over
	// time; tolerate all of them on the one canonical route.
	webhookHandler := NewWebhookHandler(deps.Dispatcher, deps.Logger)
	api.Any("/webhooks/mercadopago",
		middleware.WebhookSignature(deps.WebhookSecret, deps.Logger),
		webhookHandler.Receive,
	)

	return r
}
