package candidate

import (
	"context"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

type Repository interface {
	// GetByID retrieves a candidate by ID
	GetByID(ctx context.Context, id kernel.CandidateID) (*Candidate, error)

	// Upsert creates the profile on first save and updates it afterwards
	Upsert(ctx context.Context, candidate *Candidate) error

	// UpdateCV stores the current CV reference
	UpdateCV(ctx context.Context, candidate *Candidate) error
}
