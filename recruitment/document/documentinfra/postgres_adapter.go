package documentinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/recruitment/document"
	"github.com/jmoiron/sqlx"
)

// PostgresDocumentRepository implements document.Repository using PostgreSQL
type PostgresDocumentRepository struct {
	db *sqlx.DB
}

// NewPostgresDocumentRepository creates a new PostgreSQL document repository
func NewPostgresDocumentRepository(db *sqlx.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

var _ document.Repository = (*PostgresDocumentRepository)(nil)

const selectRequirement = `
	SELECT id, code, display_name, required, sort_order, accepts_pdf, accepts_image
	FROM document_requirements
`

const selectSubmission = `
	SELECT
		id, application_id, requirement_id, status, file_url, file_key,
		mime_type, size_bytes, uploaded_at, reviewed_at
	FROM document_submissions
`

// ListRequirements returns the catalog ordered by sort order
func (r *PostgresDocumentRepository) ListRequirements(ctx context.Context) ([]document.Requirement, error) {
	var requirements []document.Requirement
	if err := r.db.SelectContext(ctx, &requirements, selectRequirement+` ORDER BY sort_order ASC`); err != nil {
		return nil, fmt.Errorf("failed to list document requirements: %w", err)
	}
	return requirements, nil
}

// GetRequirement retrieves a catalog entry by ID
func (r *PostgresDocumentRepository) GetRequirement(ctx context.Context, id kernel.RequirementID) (*document.Requirement, error) {
	var requirement document.Requirement
	err := r.db.GetContext(ctx, &requirement, selectRequirement+` WHERE id = $1`, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrRequirementNotFound().WithDetail("requirement_id", id.String())
		}
		return nil, fmt.Errorf("failed to get document requirement: %w", err)
	}
	return &requirement, nil
}

// ListSubmissions returns every submission of an application
func (r *PostgresDocumentRepository) ListSubmissions(ctx context.Context, applicationID kernel.ApplicationID) ([]document.Submission, error) {
	var submissions []document.Submission
	err := r.db.SelectContext(ctx, &submissions, selectSubmission+` WHERE application_id = $1`, string(applicationID))
	if err != nil {
		return nil, fmt.Errorf("failed to list document submissions: %w", err)
	}
	return submissions, nil
}

// GetSubmission returns nil, nil when nothing was uploaded
func (r *PostgresDocumentRepository) GetSubmission(ctx context.Context, applicationID kernel.ApplicationID, requirementID kernel.RequirementID) (*document.Submission, error) {
	var submission document.Submission
	err := r.db.GetContext(ctx, &submission,
		selectSubmission+` WHERE application_id = $1 AND requirement_id = $2`,
		string(applicationID), string(requirementID),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document submission: %w", err)
	}
	return &submission, nil
}

// UpsertSubmission replaces the (application, requirement) row and clears any review
func (r *PostgresDocumentRepository) UpsertSubmission(ctx context.Context, s *document.Submission) error {
	query := `
		INSERT INTO document_submissions (
			id, application_id, requirement_id, status, file_url, file_key,
			mime_type, size_bytes, uploaded_at, reviewed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NULL
		)
		ON CONFLICT (application_id, requirement_id) DO UPDATE SET
			status = EXCLUDED.status,
			file_url = EXCLUDED.file_url,
			file_key = EXCLUDED.file_key,
			mime_type = EXCLUDED.mime_type,
			size_bytes = EXCLUDED.size_bytes,
			uploaded_at = EXCLUDED.uploaded_at,
			reviewed_at = NULL
	`

	_, err := r.db.ExecContext(ctx, query,
		string(s.ID),
		string(s.ApplicationID),
		string(s.RequirementID),
		string(s.Status),
		string(s.FileURL),
		s.FileKey,
		s.MimeType,
		s.SizeBytes,
		s.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document submission: %w", err)
	}
	return nil
}

// UpdateStatus persists a review decision
func (r *PostgresDocumentRepository) UpdateStatus(ctx context.Context, s *document.Submission) error {
	query := `
		UPDATE document_submissions
		SET status = $3, reviewed_at = $4
		WHERE application_id = $1 AND requirement_id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		string(s.ApplicationID),
		string(s.RequirementID),
		string(s.Status),
		s.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update document submission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return document.ErrSubmissionNotFound().WithDetail("requirement_id", s.RequirementID.String())
	}
	return nil
}

// DeleteSubmission is a no-op when the row does not exist
func (r *PostgresDocumentRepository) DeleteSubmission(ctx context.Context, applicationID kernel.ApplicationID, requirementID kernel.RequirementID) error {
	query := `DELETE FROM document_submissions WHERE application_id = $1 AND requirement_id = $2`

	if _, err := r.db.ExecContext(ctx, query, string(applicationID), string(requirementID)); err != nil {
		return fmt.Errorf("failed to delete document submission: %w", err)
	}
	return nil
}
