package candidateapi

import (
	"io"

	"github.com/Abraxas-365/bolsa/pkg/httpx"
	"github.com/Abraxas-365/bolsa/pkg/iam/auth"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/upload"
	"github.com/Abraxas-365/bolsa/recruitment/candidate"
	"github.com/Abraxas-365/bolsa/recruitment/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for the candidate's own profile
type Handlers struct {
	service *candidatesrv.CandidateService
}

// NewHandlers creates a new candidate handlers instance
func NewHandlers(service *candidatesrv.CandidateService) *Handlers {
	return &Handlers{
		service: service,
	}
}

func currentCandidate(c *fiber.Ctx) (*auth.AuthContext, error) {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return nil, auth.ErrMissingToken()
	}
	if authContext.Role != kernel.RoleCandidate {
		return nil, candidate.ErrNotACandidate()
	}
	return authContext, nil
}

// GetProfile returns the authenticated candidate's profile
// GET /api/me/profile
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	authContext, err := currentCandidate(c)
	if err != nil {
		return err
	}

	profile, err := h.service.GetProfile(c.Context(), authContext.CandidateID())
	if err != nil {
		return err
	}

	return c.JSON(profile)
}

// UpdateProfile saves personal data
// PUT /api/me/profile
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	authContext, err := currentCandidate(c)
	if err != nil {
		return err
	}

	var req candidate.UpdateProfileRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	profile, err := h.service.UpdateProfile(c.Context(), authContext.CandidateID(), authContext.Email, req)
	if err != nil {
		return err
	}

	return c.JSON(profile)
}

// UploadCV replaces the CV
// POST /api/me/cv (multipart field "file")
func (h *Handlers) UploadCV(c *fiber.Ctx) error {
	authContext, err := currentCandidate(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httpx.ErrInvalidRequest().WithDetail("file", "required")
	}
	if fileHeader.Size > upload.MaxFileSize {
		return upload.ErrFileTooLarge().WithDetail("size", fileHeader.Size)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return httpx.ErrInvalidRequest().WithDetail("file", err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return httpx.ErrInvalidRequest().WithDetail("file", err.Error())
	}

	resp, err := h.service.UploadCV(c.Context(), authContext.CandidateID(), authContext.Email, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RegisterRoutes registers the candidate profile routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api/me")

	api.Get("/profile",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeProfileRead),
		handlers.GetProfile,
	)

	api.Put("/profile",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeProfileWrite),
		handlers.UpdateProfile,
	)

	api.Post("/cv",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeProfileWrite),
		handlers.UploadCV,
	)
}
