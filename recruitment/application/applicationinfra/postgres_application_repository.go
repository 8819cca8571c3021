package applicationinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/recruitment/application"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)

const selectApplication = `
	SELECT
		id, offer_id, candidate_id, company_id, status, notes, applied_at, updated_at
	FROM applications
`

const insertHistory = `
	INSERT INTO application_history (
		id, application_id, from_status, to_status, changed_at, changed_by, notes
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)
`

// nullStatus stores the creation entry's empty origin as NULL
func nullStatus(s application.Status) sql.NullString {
	return sql.NullString{String: string(s), Valid: s != ""}
}

func insertHistoryEntry(ctx context.Context, tx *sqlx.Tx, entry application.HistoryEntry) error {
	_, err := tx.ExecContext(ctx, insertHistory,
		entry.ID,
		string(entry.ApplicationID),
		nullStatus(entry.FromStatus),
		string(entry.ToStatus),
		entry.ChangedAt,
		string(entry.ChangedBy),
		entry.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create stores the application and its first history entry atomically
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *application.Application, first application.HistoryEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO applications (
			id, offer_id, candidate_id, company_id, status, notes, applied_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err = tx.ExecContext(ctx, query,
		string(app.ID),
		string(app.OfferID),
		string(app.CandidateID),
		string(app.CompanyID),
		string(app.Status),
		app.Notes,
		app.AppliedAt,
		app.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == "23505" { // unique_violation
				return application.ErrAlreadyApplied().
					WithDetail("offer_id", app.OfferID.String()).
					WithDetail("candidate_id", app.CandidateID.String())
			}
			if pqErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("invalid foreign key reference: %w", err)
			}
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	if err := insertHistoryEntry(ctx, tx, first); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	query := selectApplication + ` WHERE id = $1`

	var app application.Application
	err := r.db.GetContext(ctx, &app, query, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		return nil, fmt.Errorf("failed to get application by id: %w", err)
	}

	return &app, nil
}

// ExistsByOfferAndCandidate checks the (candidate, offer) uniqueness
func (r *PostgresApplicationRepository) ExistsByOfferAndCandidate(ctx context.Context, offerID kernel.OfferID, candidateID kernel.CandidateID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE offer_id = $1 AND candidate_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, string(offerID), string(candidateID)); err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return exists, nil
}

// SaveTransition applies the status change only when the stored status still
// equals expected, and records the history entry in the same transaction
func (r *PostgresApplicationRepository) SaveTransition(ctx context.Context, app *application.Application, expected application.Status, entry application.HistoryEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE applications
		SET
			status = $2,
			notes = $3,
			updated_at = $4
		WHERE id = $1 AND status = $5
	`

	result, err := tx.ExecContext(ctx, query,
		string(app.ID),
		string(app.Status),
		app.Notes,
		app.UpdatedAt,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrConcurrentConflict().
			WithDetail("application_id", app.ID.String()).
			WithDetail("expected_status", expected.String())
	}

	if err := insertHistoryEntry(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

// History returns entries in chronological order
func (r *PostgresApplicationRepository) History(ctx context.Context, id kernel.ApplicationID) ([]application.HistoryEntry, error) {
	query := `
		SELECT
			id, application_id, COALESCE(from_status, '') AS from_status,
			to_status, changed_at, changed_by, notes
		FROM application_history
		WHERE application_id = $1
		ORDER BY changed_at ASC, id ASC
	`

	var entries []application.HistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, string(id)); err != nil {
		return nil, fmt.Errorf("failed to list application history: %w", err)
	}
	return entries, nil
}

func (r *PostgresApplicationRepository) list(ctx context.Context, column, value string, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	pagination = pagination.Normalize()

	var total int
	countQuery := `SELECT COUNT(*) FROM applications WHERE ` + column + ` = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, value); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	query := selectApplication + ` WHERE ` + column + ` = $1 ORDER BY applied_at DESC LIMIT $2 OFFSET $3`

	var apps []application.Application
	if err := r.db.SelectContext(ctx, &apps, query, value, pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return kernel.NewPaginated(apps, pagination, total), nil
}

// ListByOffer retrieves applications received by an offer, newest first
func (r *PostgresApplicationRepository) ListByOffer(ctx context.Context, offerID kernel.OfferID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	return r.list(ctx, "offer_id", string(offerID), pagination)
}

// ListByCandidate retrieves a candidate's applications, newest first
func (r *PostgresApplicationRepository) ListByCandidate(ctx context.Context, candidateID kernel.CandidateID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	return r.list(ctx, "candidate_id", string(candidateID), pagination)
}

// Delete removes an application; history and submissions cascade
func (r *PostgresApplicationRepository) Delete(ctx context.Context, id kernel.ApplicationID) error {
	query := `DELETE FROM applications WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}

	return nil
}
