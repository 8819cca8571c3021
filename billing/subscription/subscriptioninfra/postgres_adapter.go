package subscriptioninfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Abraxas-365/bolsa/billing/subscription"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresSubscriptionRepository implements subscription.Repository using PostgreSQL
type PostgresSubscriptionRepository struct {
	db *sqlx.DB
}

// NewPostgresSubscriptionRepository creates a new PostgreSQL subscription repository
func NewPostgresSubscriptionRepository(db *sqlx.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

var _ subscription.Repository = (*PostgresSubscriptionRepository)(nil)

const selectSubscription = `
	SELECT
		company_id, COALESCE(stripe_customer_id, '') AS stripe_customer_id,
		COALESCE(stripe_subscription_id, '') AS stripe_subscription_id,
		plan_code, status, current_period_end, updated_at
	FROM subscriptions
`

func (r *PostgresSubscriptionRepository) get(ctx context.Context, where string, arg string) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := r.db.GetContext(ctx, &sub, selectSubscription+where, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// GetByCompany returns nil, nil for companies that never subscribed
func (r *PostgresSubscriptionRepository) GetByCompany(ctx context.Context, companyID kernel.CompanyID) (*subscription.Subscription, error) {
	return r.get(ctx, ` WHERE company_id = $1`, string(companyID))
}

// GetByStripeSubscription returns nil, nil when the id is unknown
func (r *PostgresSubscriptionRepository) GetByStripeSubscription(ctx context.Context, stripeSubscriptionID string) (*subscription.Subscription, error) {
	return r.get(ctx, ` WHERE stripe_subscription_id = $1`, stripeSubscriptionID)
}

// Upsert writes the company's single row
func (r *PostgresSubscriptionRepository) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			company_id, stripe_customer_id, stripe_subscription_id,
			plan_code, status, current_period_end, updated_at
		) VALUES (
			$1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7
		)
		ON CONFLICT (company_id) DO UPDATE SET
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			plan_code = EXCLUDED.plan_code,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		string(sub.CompanyID),
		sub.StripeCustomerID,
		sub.StripeSubscriptionID,
		string(sub.PlanCode),
		string(sub.Status),
		sub.CurrentPeriodEnd,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}
