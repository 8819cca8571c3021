package subscription

import (
	"context"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

type Repository interface {
	// GetByCompany returns nil, nil for companies that never subscribed
	GetByCompany(ctx context.Context, companyID kernel.CompanyID) (*Subscription, error)

	// GetByStripeSubscription returns nil, nil when the id is unknown
	GetByStripeSubscription(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)

	// Upsert writes the company's single row
	Upsert(ctx context.Context, sub *Subscription) error
}
