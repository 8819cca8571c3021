package offer

import (
	"context"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

type Repository interface {
	// Create creates a new offer
	Create(ctx context.Context, offer *Offer) error

	// Update persists status and content changes
	Update(ctx context.Context, offer *Offer) error

	// GetByID retrieves an offer with its company name
	GetByID(ctx context.Context, id kernel.OfferID) (*Offer, error)

	// ListPublished retrieves offers open to candidates
	ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Offer], error)

	// ListByCompany retrieves every offer of a company
	ListByCompany(ctx context.Context, companyID kernel.CompanyID, pagination kernel.PaginationOptions) (*kernel.Paginated[Offer], error)

	// Publish stores a published offer. guard receives the company's live
	// offer count and may veto; count, guard and write are serialized per company.
	Publish(ctx context.Context, offer *Offer, guard func(active int) error) error
}

// PlanLimiter decides whether a company may have one more published offer
type PlanLimiter interface {
	CheckOfferLimit(ctx context.Context, companyID kernel.CompanyID, activeOffers int) error
}
