package offer

import (
	"time"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

// Status represents the publication state of an offer
type Status string

const (
	StatusDraft     Status = "DRAFT"     // Created but not visible
	StatusPublished Status = "PUBLISHED" // Visible and accepting applications
	StatusClosed    Status = "CLOSED"    // No longer accepting applications
)

type Offer struct {
	ID          kernel.OfferID          `db:"id" json:"id"`
	CompanyID   kernel.CompanyID        `db:"company_id" json:"companyId"`
	CompanyName string                  `db:"company_name" json:"companyName"`
	Title       kernel.OfferTitle       `db:"title" json:"title"`
	Description kernel.OfferDescription `db:"description" json:"description"`
	Location    kernel.Location         `db:"location" json:"location"`
	Status      Status                  `db:"status" json:"status"`
	PostedBy    kernel.UserID           `db:"posted_by" json:"postedBy"`
	PublishedAt *time.Time              `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt   time.Time               `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time               `db:"updated_at" json:"updatedAt"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsPublished checks if the offer is accepting applications
func (o *Offer) IsPublished() bool {
	return o.Status == StatusPublished
}

// IsClosed checks if the offer is closed
func (o *Offer) IsClosed() bool {
	return o.Status == StatusClosed
}

// CanBePublished allows drafts and closed offers to go live again
func (o *Offer) CanBePublished() bool {
	return o.Status == StatusDraft || o.Status == StatusClosed
}

// OwnedBy reports whether the offer belongs to company
func (o *Offer) OwnedBy(company kernel.CompanyID) bool {
	return o.CompanyID == company
}

// Publish marks the offer as published
func (o *Offer) Publish(now time.Time) error {
	if !o.CanBePublished() {
		return ErrCannotPublish().WithDetail("current_status", o.Status)
	}

	o.Status = StatusPublished
	o.PublishedAt = &now
	o.UpdatedAt = now
	return nil
}

// Close stops the offer from accepting applications
func (o *Offer) Close(now time.Time) error {
	if o.IsClosed() {
		return ErrAlreadyClosed()
	}

	o.Status = StatusClosed
	o.UpdatedAt = now
	return nil
}
