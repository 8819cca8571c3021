package offerapi

import (
	"github.com/Abraxas-365/bolsa/pkg/httpx"
	"github.com/Abraxas-365/bolsa/pkg/iam/auth"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/recruitment/offer"
	"github.com/Abraxas-365/bolsa/recruitment/offer/offersrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for offer operations
type Handlers struct {
	service *offersrv.OfferService
}

// NewHandlers creates a new offer handlers instance
func NewHandlers(service *offersrv.OfferService) *Handlers {
	return &Handlers{
		service: service,
	}
}

func actorFrom(c *fiber.Ctx) (offer.Actor, error) {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return offer.Actor{}, auth.ErrMissingToken()
	}
	return offer.Actor{
		UserID:    *authContext.UserID,
		CompanyID: authContext.TenantID,
		Role:      authContext.Role,
	}, nil
}

// CreateOffer creates a draft offer
// POST /api/offers
func (h *Handlers) CreateOffer(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req offer.CreateOfferRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	newOffer, err := h.service.CreateOffer(c.Context(), req, actor)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newOffer)
}

// ListOffers lists published offers, or the company's offers with ?scope=company
// GET /api/offers
func (h *Handlers) ListOffers(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	pagination := httpx.ParsePagination(c)
	if c.Query("scope") == "company" {
		offers, err := h.service.ListByCompany(c.Context(), actor, pagination)
		if err != nil {
			return err
		}
		return c.JSON(offers)
	}

	offers, err := h.service.ListPublished(c.Context(), pagination)
	if err != nil {
		return err
	}
	return c.JSON(offers)
}

// GetOffer retrieves one offer; unpublished offers are visible to their company only
// GET /api/offers/:id
func (h *Handlers) GetOffer(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	offerID := kernel.OfferID(c.Params("id"))
	o, err := h.service.GetOffer(c.Context(), offerID)
	if err != nil {
		return err
	}

	if !o.IsPublished() && !actor.CanManage(o) {
		return offer.ErrOfferNotFound().WithDetail("offer_id", offerID.String())
	}

	return c.JSON(o)
}

// PublishOffer makes an offer visible
// POST /api/offers/:id/publish
func (h *Handlers) PublishOffer(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	o, err := h.service.PublishOffer(c.Context(), kernel.OfferID(c.Params("id")), actor)
	if err != nil {
		return err
	}

	return c.JSON(o)
}

// CloseOffer stops accepting applications
// POST /api/offers/:id/close
func (h *Handlers) CloseOffer(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	o, err := h.service.CloseOffer(c.Context(), kernel.OfferID(c.Params("id")), actor)
	if err != nil {
		return err
	}

	return c.JSON(o)
}

// RegisterRoutes registers all offer routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api/offers")

	api.Get("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeOffersRead),
		handlers.ListOffers,
	)

	api.Get("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeOffersRead),
		handlers.GetOffer,
	)

	api.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeOffersWrite),
		handlers.CreateOffer,
	)

	api.Post("/:id/publish",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeOffersPublish),
		handlers.PublishOffer,
	)

	api.Post("/:id/close",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeOffersPublish),
		handlers.CloseOffer,
	)
}
