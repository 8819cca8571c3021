package candidate

import "github.com/Abraxas-365/bolsa/pkg/kernel"

// UpdateProfileRequest - body of PUT /api/me/profile
type UpdateProfileRequest struct {
	FirstName kernel.FirstName `json:"firstName" validate:"required,max=100"`
	LastName  kernel.LastName  `json:"lastName" validate:"required,max=100"`
	Phone     kernel.Phone     `json:"phone" validate:"omitempty,max=20"`
	Location  kernel.Location  `json:"location" validate:"omitempty,max=120"`
}

// ProfileResponse - candidate with completeness information
type ProfileResponse struct {
	Candidate
	ProfileComplete bool     `json:"profileComplete"`
	Missing         []string `json:"missing"`
}

func NewProfileResponse(c *Candidate) *ProfileResponse {
	missing := c.MissingProfileFields()
	if missing == nil {
		missing = []string{}
	}
	return &ProfileResponse{
		Candidate:       *c,
		ProfileComplete: len(missing) == 0,
		Missing:         missing,
	}
}

// CVUploadResponse - POST /api/me/cv
type CVUploadResponse struct {
	URL kernel.BucketURL `json:"url"`
}
