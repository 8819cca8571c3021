package offerinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/recruitment/offer"
	"github.com/jmoiron/sqlx"
)

// PostgresOfferRepository implements offer.Repository using PostgreSQL
type PostgresOfferRepository struct {
	db *sqlx.DB
}

// NewPostgresOfferRepository creates a new PostgreSQL offer repository
func NewPostgresOfferRepository(db *sqlx.DB) *PostgresOfferRepository {
	return &PostgresOfferRepository{db: db}
}

var _ offer.Repository = (*PostgresOfferRepository)(nil)

const selectOffer = `
	SELECT
		o.id, o.company_id, COALESCE(c.name, '') AS company_name,
		o.title, o.description, o.location, o.status, o.posted_by,
		o.published_at, o.created_at, o.updated_at
	FROM offers o
	LEFT JOIN companies c ON c.id = o.company_id
`

// Create creates a new offer
func (r *PostgresOfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	query := `
		INSERT INTO offers (
			id, company_id, title, description, location,
			status, posted_by, published_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.CompanyID,
		o.Title,
		o.Description,
		o.Location,
		o.Status,
		o.PostedBy,
		o.PublishedAt,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

// Update persists content and status changes
func (r *PostgresOfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	query := `
		UPDATE offers
		SET
			title = $2,
			description = $3,
			location = $4,
			status = $5,
			published_at = $6,
			updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.Title,
		o.Description,
		o.Location,
		o.Status,
		o.PublishedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return offer.ErrOfferNotFound().WithDetail("offer_id", o.ID.String())
	}
	return nil
}

// GetByID retrieves an offer by ID
func (r *PostgresOfferRepository) GetByID(ctx context.Context, id kernel.OfferID) (*offer.Offer, error) {
	var o offer.Offer
	err := r.db.GetContext(ctx, &o, selectOffer+` WHERE o.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, offer.ErrOfferNotFound().WithDetail("offer_id", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListPublished retrieves published offers, newest first
func (r *PostgresOfferRepository) ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[offer.Offer], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM offers WHERE status = $1`, offer.StatusPublished); err != nil {
		return nil, err
	}

	offers := make([]offer.Offer, 0)
	query := selectOffer + ` WHERE o.status = $1 ORDER BY o.published_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &offers, query, offer.StatusPublished, pagination.PageSize, pagination.Offset()); err != nil {
		return nil, err
	}

	return kernel.NewPaginated(offers, pagination, total), nil
}

// ListByCompany retrieves every offer of a company
func (r *PostgresOfferRepository) ListByCompany(ctx context.Context, companyID kernel.CompanyID, pagination kernel.PaginationOptions) (*kernel.Paginated[offer.Offer], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM offers WHERE company_id = $1`, companyID); err != nil {
		return nil, err
	}

	offers := make([]offer.Offer, 0)
	query := selectOffer + ` WHERE o.company_id = $1 ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &offers, query, companyID, pagination.PageSize, pagination.Offset()); err != nil {
		return nil, err
	}

	return kernel.NewPaginated(offers, pagination, total), nil
}

// Publish persists a publication while holding a per-company lock, so the
// live-offer count handed to guard cannot change until the transaction ends
func (r *PostgresOfferRepository) Publish(ctx context.Context, o *offer.Offer, guard func(active int) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, o.CompanyID); err != nil {
		return err
	}

	var active int
	err = tx.GetContext(ctx, &active,
		`SELECT COUNT(*) FROM offers WHERE company_id = $1 AND status = $2`,
		o.CompanyID, offer.StatusPublished)
	if err != nil {
		return err
	}

	if err := guard(active); err != nil {
		return err
	}

	query := `
		UPDATE offers
		SET status = $2, published_at = $3, updated_at = $4
		WHERE id = $1 AND status IN ($5, $6)
	`
	result, err := tx.ExecContext(ctx, query,
		o.ID,
		o.Status,
		o.PublishedAt,
		o.UpdatedAt,
		offer.StatusDraft,
		offer.StatusClosed,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return offer.ErrCannotPublish().WithDetail("offer_id", o.ID.String())
	}

	return tx.Commit()
}
