package document

import (
	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

// ChecklistMeta is the header shown above the checklist
type ChecklistMeta struct {
	CandidateName string `json:"candidateName"`
	OfferTitle    string `json:"offerTitle"`
	CompanyName   string `json:"companyName"`
}

// ChecklistDocument is one requirement with its submission state
type ChecklistDocument struct {
	RequirementID kernel.RequirementID `json:"requirementId"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	Required      bool                 `json:"required"`
	Order         int                  `json:"order"`
	AcceptsPDF    bool                 `json:"acceptsPdf"`
	AcceptsImage  bool                 `json:"acceptsImage"`
	Status        SubmissionStatus     `json:"status"`
	URL           *kernel.BucketURL    `json:"url"`
}

// ChecklistResponse - GET /api/applications/:id/documents
type ChecklistResponse struct {
	Meta      ChecklistMeta       `json:"meta"`
	Documents []ChecklistDocument `json:"documents"`
}

// NewChecklistDocument joins a requirement with its submission, if any
func NewChecklistDocument(r Requirement, s *Submission) ChecklistDocument {
	doc := ChecklistDocument{
		RequirementID: r.ID,
		Code:          r.Code,
		Name:          r.DisplayName,
		Required:      r.Required,
		Order:         r.Order,
		AcceptsPDF:    r.AcceptsPDF,
		AcceptsImage:  r.AcceptsImage,
		Status:        SubmissionPending,
	}
	if s != nil {
		doc.Status = s.Status
		url := s.FileURL
		doc.URL = &url
	}
	return doc
}

// UploadRequest - input of Service.Upload, built from the multipart form
type UploadRequest struct {
	ApplicationID kernel.ApplicationID
	RequirementID kernel.RequirementID
	CandidateID   kernel.CandidateID
	FileName      string
	ContentType   string
	Data          []byte
}

// UploadResponse - POST /api/applications/:id/documents
type UploadResponse struct {
	URL kernel.BucketURL `json:"url"`
}

// RemoveRequest - body of DELETE /api/applications/:id/documents
type RemoveRequest struct {
	RequirementID string `json:"requirementId" validate:"required"`
}

// RemoveResponse - always {ok:true}
type RemoveResponse struct {
	OK bool `json:"ok"`
}

// ReviewRequest - body of PATCH /api/applications/:id/documents/:requirementId
type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=APROBADO RECHAZADO"`
}
