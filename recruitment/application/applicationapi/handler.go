package applicationapi

import (
	"github.com/Abraxas-365/bolsa/pkg/httpx"
	"github.com/Abraxas-365/bolsa/pkg/iam/auth"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/recruitment/application"
	"github.com/Abraxas-365/bolsa/recruitment/application/applicationsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService) *Handlers {
	return &Handlers{
		service: service,
	}
}

func authFrom(c *fiber.Ctx) (*auth.AuthContext, error) {
	authContext, ok := auth.GetAuthContext(c)
	if !ok || authContext.UserID == nil {
		return nil, auth.ErrMissingToken()
	}
	return authContext, nil
}

func viewerFrom(ac *auth.AuthContext) application.Viewer {
	return application.Viewer{
		UserID:    *ac.UserID,
		CompanyID: ac.TenantID,
		Role:      ac.Role,
	}
}

// Apply creates an application for the calling candidate
// POST /api/offers/:offerId/apply
func (h *Handlers) Apply(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	app, err := h.service.Apply(c.Context(), ac.CandidateID(), kernel.OfferID(c.Params("offerId")))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(application.NewApplicationResponse(app))
}

// UpdateStatus moves an application to a new status
// PATCH /api/applications/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	var req application.UpdateStatusRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.service.ApplyTransition(c.Context(), application.TransitionRequest{
		ApplicationID: kernel.ApplicationID(c.Params("id")),
		Status:        application.Status(req.Status),
		Notes:         req.Notes,
		ActorID:       *ac.UserID,
		ActorRole:     ac.Role,
		CompanyID:     ac.TenantID,
	})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Withdraw lets the candidate leave the process
// POST /api/applications/:id/withdraw
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	var req application.WithdrawRequest
	if len(c.Body()) > 0 {
		if err := httpx.BindJSON(c, &req); err != nil {
			return err
		}
	}

	result, err := h.service.Withdraw(c.Context(), kernel.ApplicationID(c.Params("id")), ac.CandidateID(), req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// GetApplication returns an application with its history
// GET /api/applications/:id
func (h *Handlers) GetApplication(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	app, err := h.service.GetApplication(c.Context(), kernel.ApplicationID(c.Params("id")), viewerFrom(ac))
	if err != nil {
		return err
	}

	return c.JSON(application.NewApplicationResponse(app))
}

// GetHistory returns the status log
// GET /api/applications/:id/history
func (h *Handlers) GetHistory(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	history, err := h.service.History(c.Context(), kernel.ApplicationID(c.Params("id")), viewerFrom(ac))
	if err != nil {
		return err
	}

	return c.JSON(history)
}

// ListByOffer lists the applications received by an offer
// GET /api/offers/:offerId/applications
func (h *Handlers) ListByOffer(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	apps, err := h.service.ListByOffer(c.Context(), kernel.OfferID(c.Params("offerId")), viewerFrom(ac), httpx.ParsePagination(c))
	if err != nil {
		return err
	}

	return c.JSON(apps)
}

// ListMine lists the calling candidate's applications
// GET /api/me/applications
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	apps, err := h.service.ListByCandidate(c.Context(), ac.CandidateID(), httpx.ParsePagination(c))
	if err != nil {
		return err
	}

	return c.JSON(apps)
}

// DeleteApplication is the admin override that bypasses the status rules
// DELETE /api/applications/:id
func (h *Handlers) DeleteApplication(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.AdminDelete(c.Context(), kernel.ApplicationID(c.Params("id")), ac.Role); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterRoutes registers all application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	applications := app.Group("/api/applications")

	applications.Get("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.GetApplication,
	)

	applications.Get("/:id/history",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.GetHistory,
	)

	applications.Patch("/:id/status",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.UpdateStatus,
	)

	applications.Post("/:id/withdraw",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(kernel.RoleCandidate),
		authMiddleware.RequireScope(auth.ScopeApplicationsApply),
		handlers.Withdraw,
	)

	applications.Delete("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(kernel.RoleAdmin),
		handlers.DeleteApplication,
	)

	offers := app.Group("/api/offers")

	offers.Post("/:offerId/apply",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(kernel.RoleCandidate),
		authMiddleware.RequireScope(auth.ScopeApplicationsApply),
		handlers.Apply,
	)

	offers.Get("/:offerId/applications",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.ListByOffer,
	)

	app.Get("/api/me/applications",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(kernel.RoleCandidate),
		handlers.ListMine,
	)
}
