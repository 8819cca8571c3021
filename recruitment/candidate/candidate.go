package candidate

import (
	"strings"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

type Candidate struct {
	ID        kernel.CandidateID `db:"id" json:"id"`
	Email     kernel.Email       `db:"email" json:"email"`
	FirstName kernel.FirstName   `db:"first_name" json:"firstName"`
	LastName  kernel.LastName    `db:"last_name" json:"lastName"`
	Phone     kernel.Phone       `db:"phone" json:"phone"`
	Location  kernel.Location    `db:"location" json:"location"`
	CVURL     *kernel.BucketURL  `db:"cv_url" json:"cvUrl"`
	CVKey     *string            `db:"cv_key" json:"-"`
	CreatedAt time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `db:"updated_at" json:"updatedAt"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// GetFullName returns the candidate's full name
func (c *Candidate) GetFullName() string {
	return strings.TrimSpace(string(c.FirstName) + " " + string(c.LastName))
}

func (c *Candidate) HasCV() bool {
	return c.CVURL != nil && *c.CVURL != ""
}

// MissingProfileFields lists what blocks the candidate from applying
func (c *Candidate) MissingProfileFields() []string {
	var missing []string
	if !c.HasCV() {
		missing = append(missing, "cv")
	}
	if strings.TrimSpace(string(c.Phone)) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(string(c.Location)) == "" {
		missing = append(missing, "location")
	}
	return missing
}

// IsProfileComplete is required before applying: CV, phone and location
func (c *Candidate) IsProfileComplete() bool {
	return len(c.MissingProfileFields()) == 0
}

// UpdateProfile overwrites the editable personal data
func (c *Candidate) UpdateProfile(first kernel.FirstName, last kernel.LastName, phone kernel.Phone, location kernel.Location, now time.Time) error {
	if phone != "" && !phone.IsValid() {
		return ErrInvalidPhone().WithDetail("phone", string(phone))
	}
	c.FirstName = kernel.FirstName(strings.TrimSpace(string(first)))
	c.LastName = kernel.LastName(strings.TrimSpace(string(last)))
	c.Phone = kernel.Phone(strings.TrimSpace(string(phone)))
	c.Location = kernel.Location(strings.TrimSpace(string(location)))
	c.UpdatedAt = now
	return nil
}

// AttachCV points the profile to a new CV blob
func (c *Candidate) AttachCV(url kernel.BucketURL, key string, now time.Time) {
	c.CVURL = &url
	c.CVKey = &key
	c.UpdatedAt = now
}
