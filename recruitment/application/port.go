package application

import (
	"context"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

type Repository interface {
	// Create stores a new application with its initial history entry.
	// Returns ErrAlreadyApplied when the candidate already applied to the offer.
	Create(ctx context.Context, app *Application, first HistoryEntry) error

	// GetByID retrieves an application by ID, without history
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// ExistsByOfferAndCandidate checks the (candidate, offer) uniqueness
	ExistsByOfferAndCandidate(ctx context.Context, offerID kernel.OfferID, candidateID kernel.CandidateID) (bool, error)

	// SaveTransition persists app's status, notes and updatedAt only if the stored
	// status still equals expected, and appends entry in the same transaction.
	// Returns ErrConcurrentConflict when the stored status moved.
	SaveTransition(ctx context.Context, app *Application, expected Status, entry HistoryEntry) error

	// History returns entries in chronological order
	History(ctx context.Context, id kernel.ApplicationID) ([]HistoryEntry, error)

	ListByOffer(ctx context.Context, offerID kernel.OfferID, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)

	ListByCandidate(ctx context.Context, candidateID kernel.CandidateID, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)

	// Delete removes the application with its history and submissions
	Delete(ctx context.Context, id kernel.ApplicationID) error
}

// AttachmentCleaner removes stored blobs that belong to an application
type AttachmentCleaner interface {
	PurgeApplication(ctx context.Context, id kernel.ApplicationID) error
}
