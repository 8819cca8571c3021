package document

import (
	"context"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

type Repository interface {
	// ListRequirements returns the catalog ordered by sort order
	ListRequirements(ctx context.Context) ([]Requirement, error)

	GetRequirement(ctx context.Context, id kernel.RequirementID) (*Requirement, error)

	// ListSubmissions returns every submission of an application
	ListSubmissions(ctx context.Context, applicationID kernel.ApplicationID) ([]Submission, error)

	// GetSubmission returns nil, nil when nothing was uploaded for the requirement
	GetSubmission(ctx context.Context, applicationID kernel.ApplicationID, requirementID kernel.RequirementID) (*Submission, error)

	// UpsertSubmission replaces the (application, requirement) row
	UpsertSubmission(ctx context.Context, submission *Submission) error

	// UpdateStatus persists a review decision
	UpdateStatus(ctx context.Context, submission *Submission) error

	// DeleteSubmission is a no-op when the row does not exist
	DeleteSubmission(ctx context.Context, applicationID kernel.ApplicationID, requirementID kernel.RequirementID) error
}
