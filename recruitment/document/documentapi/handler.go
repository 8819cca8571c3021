package documentapi

import (
	"io"

	"github.com/Abraxas-365/bolsa/pkg/httpx"
	"github.com/Abraxas-365/bolsa/pkg/iam/auth"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/upload"
	"github.com/Abraxas-365/bolsa/recruitment/application"
	"github.com/Abraxas-365/bolsa/recruitment/document"
	"github.com/Abraxas-365/bolsa/recruitment/document/documentsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for the document checklist
type Handlers struct {
	service *documentsrv.DocumentService
}

// NewHandlers creates a new document handlers instance
func NewHandlers(service *documentsrv.DocumentService) *Handlers {
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

// ListChecklist returns the hiring checklist of the caller's application
// GET /api/applications/:id/documents
func (h *Handlers) ListChecklist(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	checklist, err := h.service.ListChecklist(c.Context(), kernel.ApplicationID(c.Params("id")), ac.CandidateID())
	if err != nil {
		return err
	}

	return c.JSON(checklist)
}

// Upload stores a document for one requirement
// POST /api/applications/:id/documents (multipart: file, requirementId)
func (h *Handlers) Upload(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	requirementID := c.FormValue("requirementId")
	if requirementID == "" {
		return httpx.ErrInvalidRequest().WithDetail("fields", map[string]string{"requirementId": "required"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httpx.ErrInvalidRequest().WithDetail("fields", map[string]string{"file": "required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return httpx.ErrInvalidRequest().WithCause(err)
	}
	defer f.Close()

	// one byte past the limit is enough for the validator to reject it
	data, err := io.ReadAll(io.LimitReader(f, upload.MaxFileSize+1))
	if err != nil {
		return httpx.ErrInvalidRequest().WithCause(err)
	}

	res, err := h.service.Upload(c.Context(), document.UploadRequest{
		ApplicationID: kernel.ApplicationID(c.Params("id")),
		RequirementID: kernel.RequirementID(requirementID),
		CandidateID:   ac.CandidateID(),
		FileName:      fileHeader.Filename,
		ContentType:   fileHeader.Header.Get(fiber.HeaderContentType),
		Data:          data,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

// Remove deletes the document of one requirement
// DELETE /api/applications/:id/documents
func (h *Handlers) Remove(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	var req document.RemoveRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	err = h.service.Remove(c.Context(), kernel.ApplicationID(c.Params("id")), kernel.RequirementID(req.RequirementID), ac.CandidateID())
	if err != nil {
		return err
	}

	return c.JSON(document.RemoveResponse{OK: true})
}

// Review approves or rejects an uploaded document
// PATCH /api/applications/:id/documents/:requirementId
func (h *Handlers) Review(c *fiber.Ctx) error {
	ac, err := authFrom(c)
	if err != nil {
		return err
	}

	var req document.ReviewRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	submission, err := h.service.Review(c.Context(),
		kernel.ApplicationID(c.Params("id")),
		kernel.RequirementID(c.Params("requirementId")),
		document.SubmissionStatus(req.Status),
		application.Viewer{UserID: *ac.UserID, CompanyID: ac.TenantID, Role: ac.Role},
	)
	if err != nil {
		return err
	}

	return c.JSON(submission)
}

// RegisterRoutes registers all document routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	docs := app.Group("/api/applications/:id/documents")

	docs.Get("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(kernel.RoleCandidate),
		handlers.ListChecklist,
	)

	docs.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(kernel.RoleCandidate),
		authMiddleware.RequireScope(auth.ScopeDocumentsUpload),
		handlers.Upload,
	)

	docs.Delete("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(kernel.RoleCandidate),
		authMiddleware.RequireScope(auth.ScopeDocumentsUpload),
		handlers.Remove,
	)

	docs.Patch("/:requirementId",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeDocumentsReview),
		handlers.Review,
	)
}
