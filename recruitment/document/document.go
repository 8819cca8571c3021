package document

import (
	"time"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/upload"
)

// Requirement is a catalog entry for a document hired candidates supply
type Requirement struct {
	ID           kernel.RequirementID `db:"id" json:"id"`
	Code         string               `db:"code" json:"code"`
	DisplayName  string               `db:"display_name" json:"displayName"`
	Required     bool                 `db:"required" json:"required"`
	Order        int                  `db:"sort_order" json:"order"`
	AcceptsPDF   bool                 `db:"accepts_pdf" json:"acceptsPdf"`
	AcceptsImage bool                 `db:"accepts_image" json:"acceptsImage"`
}

// Policy derives the upload rules for this requirement
func (r *Requirement) Policy() upload.Policy {
	return upload.Policy{
		MaxBytes:   upload.MaxFileSize,
		AllowPDF:   r.AcceptsPDF,
		AllowImage: r.AcceptsImage,
	}
}

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDIENTE"
	SubmissionUploaded SubmissionStatus = "SUBIDO"
	SubmissionRejected SubmissionStatus = "RECHAZADO"
	SubmissionApproved SubmissionStatus = "APROBADO"
)

// IsReviewOutcome reports whether s can be set by a reviewer
func (s SubmissionStatus) IsReviewOutcome() bool {
	return s == SubmissionApproved || s == SubmissionRejected
}

// Submission is the per-application record of one fulfilled requirement.
// Absence of a row means PENDIENTE.
type Submission struct {
	ID            kernel.SubmissionID  `db:"id" json:"id"`
	ApplicationID kernel.ApplicationID `db:"application_id" json:"applicationId"`
	RequirementID kernel.RequirementID `db:"requirement_id" json:"requirementId"`
	Status        SubmissionStatus     `db:"status" json:"status"`
	FileURL       kernel.BucketURL     `db:"file_url" json:"fileUrl"`
	FileKey       string               `db:"file_key" json:"-"`
	MimeType      string               `db:"mime_type" json:"mimeType"`
	SizeBytes     int64                `db:"size_bytes" json:"sizeBytes"`
	UploadedAt    time.Time            `db:"uploaded_at" json:"uploadedAt"`
	ReviewedAt    *time.Time           `db:"reviewed_at" json:"reviewedAt,omitempty"`
}

// Review records a reviewer decision on an uploaded file
func (s *Submission) Review(status SubmissionStatus, now time.Time) error {
	if !status.IsReviewOutcome() {
		return ErrInvalidReview().WithDetail("status", string(status))
	}
	s.Status = status
	s.ReviewedAt = &now
	return nil
}
