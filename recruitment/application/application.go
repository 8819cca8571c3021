package application

import (
	"strings"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/google/uuid"
)

type Application struct {
	ID          kernel.ApplicationID `db:"id" json:"id"`
	OfferID     kernel.OfferID       `db:"offer_id" json:"offerId"`
	CandidateID kernel.CandidateID   `db:"candidate_id" json:"candidateId"`
	CompanyID   kernel.CompanyID     `db:"company_id" json:"companyId"`
	Status      Status               `db:"status" json:"status"`
	Notes       *string              `db:"notes" json:"notes"`
	AppliedAt   time.Time            `db:"applied_at" json:"appliedAt"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updatedAt"`
	History     []HistoryEntry       `db:"-" json:"history,omitempty"`
}

// HistoryEntry records one status change. FromStatus is empty for the
// entry written when the application is created.
type HistoryEntry struct {
	ID            string               `db:"id" json:"id"`
	ApplicationID kernel.ApplicationID `db:"application_id" json:"applicationId"`
	FromStatus    Status               `db:"from_status" json:"fromStatus"`
	ToStatus      Status               `db:"to_status" json:"toStatus"`
	ChangedAt     time.Time            `db:"changed_at" json:"changedAt"`
	ChangedBy     kernel.UserID        `db:"changed_by" json:"changedBy"`
	Notes         *string              `db:"notes" json:"notes"`
}

// New creates an application in SOLICITUD together with its first history entry
func New(offerID kernel.OfferID, candidateID kernel.CandidateID, companyID kernel.CompanyID, now time.Time) (*Application, HistoryEntry) {
	app := &Application{
		ID:          kernel.NewApplicationID(uuid.NewString()),
		OfferID:     offerID,
		CandidateID: candidateID,
		CompanyID:   companyID,
		Status:      StatusSolicitud,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	entry := HistoryEntry{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		ToStatus:      StatusSolicitud,
		ChangedAt:     now,
		ChangedBy:     kernel.UserID(candidateID),
	}
	app.History = []HistoryEntry{entry}
	return app, entry
}

// ============================================================================
// Domain Methods
// ============================================================================

func (a *Application) IsTerminal() bool {
	return a.Status.IsTerminal()
}

func (a *Application) IsHired() bool {
	return a.Status == StatusContratacion
}

func (a *Application) BelongsTo(candidateID kernel.CandidateID) bool {
	return a.CandidateID == candidateID
}

// Transition moves the application to next, returning the history entry to persist.
// Terminal applications reject every request. Moving a non-terminal application
// to its current status is accepted and only refreshes notes.
func (a *Application) Transition(next Status, notes string, actor kernel.UserID, now time.Time) (HistoryEntry, error) {
	if !next.IsValid() {
		return HistoryEntry{}, ErrInvalidStatus().WithDetail("status", string(next))
	}
	if a.IsTerminal() {
		return HistoryEntry{}, ErrApplicationBlocked().
			WithDetail("application_id", a.ID.String()).
			WithDetail("current_status", a.Status.String())
	}
	if !CanTransition(a.Status, next) {
		return HistoryEntry{}, ErrStatusNotAllowed().
			WithDetail("application_id", a.ID.String()).
			WithDetail("current_status", a.Status.String()).
			WithDetail("requested_status", next.String())
	}

	normalized := NormalizeNotes(notes)
	entry := HistoryEntry{
		ID:            uuid.NewString(),
		ApplicationID: a.ID,
		FromStatus:    a.Status,
		ToStatus:      next,
		ChangedAt:     now,
		ChangedBy:     actor,
		Notes:         normalized,
	}

	a.Status = next
	a.Notes = normalized
	a.UpdatedAt = now
	a.History = append(a.History, entry)
	return entry, nil
}

// NormalizeNotes trims notes and maps blank input to nil
func NormalizeNotes(notes string) *string {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
