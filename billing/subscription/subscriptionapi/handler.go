package subscriptionapi

import (
	"github.com/Abraxas-365/bolsa/billing/subscription/subscriptionsrv"
	"github.com/Abraxas-365/bolsa/pkg/iam/auth"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for billing
type Handlers struct {
	service *subscriptionsrv.SubscriptionService
}

// NewHandlers creates a new billing handlers instance
func NewHandlers(service *subscriptionsrv.SubscriptionService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// Webhook receives Stripe events; it is authenticated by signature only
// POST /api/billing/webhook
func (h *Handlers) Webhook(c *fiber.Ctx) error {
	res, err := h.service.HandleWebhook(c.Context(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// GetSubscription describes the caller's company plan
// GET /api/billing/subscription
func (h *Handlers) GetSubscription(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	res, err := h.service.GetForCompany(c.Context(), authContext.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// RegisterRoutes registers all billing routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	billing := app.Group("/api/billing")

	billing.Post("/webhook", handlers.Webhook)

	billing.Get("/subscription",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeBillingRead),
		handlers.GetSubscription,
	)
}
