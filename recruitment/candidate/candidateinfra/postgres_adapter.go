package candidateinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/recruitment/candidate"
	"github.com/jmoiron/sqlx"
)

type PostgresCandidateRepository struct {
	db *sqlx.DB
}

func NewPostgresCandidateRepository(db *sqlx.DB) candidate.Repository {
	return &PostgresCandidateRepository{db: db}
}

// GetByID retrieves a candidate by ID
func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	query := `
		SELECT
			id, email, first_name, last_name, phone, location,
			cv_url, cv_key, created_at, updated_at
		FROM candidates
		WHERE id = $1
	`

	var c candidate.Candidate
	var cvURL, cvKey sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Email,
		&c.FirstName,
		&c.LastName,
		&c.Phone,
		&c.Location,
		&cvURL,
		&cvKey,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
	}
	if err != nil {
		return nil, err
	}

	if cvURL.Valid {
		u := kernel.BucketURL(cvURL.String)
		c.CVURL = &u
	}
	if cvKey.Valid {
		c.CVKey = &cvKey.String
	}

	return &c, nil
}

// Upsert creates or updates the profile row
func (r *PostgresCandidateRepository) Upsert(ctx context.Context, c *candidate.Candidate) error {
	query := `
		INSERT INTO candidates (
			id, email, first_name, last_name, phone, location, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		c.ID,
		c.Email,
		c.FirstName,
		c.LastName,
		c.Phone,
		c.Location,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

// UpdateCV stores the CV reference
func (r *PostgresCandidateRepository) UpdateCV(ctx context.Context, c *candidate.Candidate) error {
	query := `UPDATE candidates SET cv_url = $2, cv_key = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, c.ID, c.CVURL, c.CVKey, c.UpdatedAt)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return candidate.ErrCandidateNotFound().WithDetail("candidate_id", c.ID.String())
	}
	return nil
}
