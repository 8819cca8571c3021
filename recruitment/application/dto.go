package application

import (
	"time"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

// UpdateStatusRequest - body of PATCH /api/applications/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=SOLICITUD ENTREVISTA EVALUACIONES CONTRATACION RECHAZADA RETIRADA"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// WithdrawRequest - body of POST /api/applications/:id/withdraw
type WithdrawRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// TransitionRequest - input of ApplyTransition
type TransitionRequest struct {
	ApplicationID kernel.ApplicationID
	Status        Status
	Notes         string
	ActorID       kernel.UserID
	ActorRole     kernel.Role
	CompanyID     kernel.CompanyID
}

// TransitionResult - response of a status change
type TransitionResult struct {
	ID        kernel.ApplicationID `json:"id"`
	Status    Status               `json:"status"`
	Notes     *string              `json:"notes"`
	UpdatedAt time.Time            `json:"updatedAt"`
	Changed   bool                 `json:"-"`
}

func NewTransitionResult(app *Application, changed bool) *TransitionResult {
	return &TransitionResult{
		ID:        app.ID,
		Status:    app.Status,
		Notes:     app.Notes,
		UpdatedAt: app.UpdatedAt,
		Changed:   changed,
	}
}

// ApplicationResponse - application with status metadata for clients
type ApplicationResponse struct {
	Application
	StatusLabel  string   `json:"statusLabel"`
	NextStatuses []Status `json:"nextStatuses"`
}

func NewApplicationResponse(app *Application) *ApplicationResponse {
	next := NextStatuses(app.Status)
	if next == nil {
		next = []Status{}
	}
	return &ApplicationResponse{
		Application:  *app,
		StatusLabel:  app.Status.Label(),
		NextStatuses: next,
	}
}

// HistoryResponse - GET /api/applications/:id/history
type HistoryResponse struct {
	ApplicationID kernel.ApplicationID `json:"applicationId"`
	Entries       []HistoryEntry       `json:"entries"`
}

// Viewer is the caller of a read operation
type Viewer struct {
	UserID    kernel.UserID
	CompanyID kernel.CompanyID
	Role      kernel.Role
}

// CanView allows admins, recruiters of the hiring company and the applicant
func (v Viewer) CanView(app *Application) bool {
	switch v.Role {
	case kernel.RoleAdmin:
		return true
	case kernel.RoleRecruiter:
		return app.CompanyID == v.CompanyID
	case kernel.RoleCandidate:
		return app.BelongsTo(kernel.CandidateID(v.UserID))
	default:
		return false
	}
}
