package candidatesrv

import (
	"bytes"
	"context"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/fsx"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/pkg/upload"
	"github.com/Abraxas-365/bolsa/recruitment/candidate"
	"github.com/google/uuid"
)

var cvPolicy = upload.Policy{MaxBytes: upload.MaxFileSize, AllowPDF: true}

// CandidateService provides business operations for candidate profiles
type CandidateService struct {
	candidateRepo candidate.Repository
	fileSystem    fsx.FileSystem
	files         *upload.Validator
	now           func() time.Time
}

// NewCandidateService creates a new instance of the candidate service
func NewCandidateService(
	candidateRepo candidate.Repository,
	fileSystem fsx.FileSystem,
	files *upload.Validator,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		fileSystem:    fileSystem,
		files:         files,
		now:           time.Now,
	}
}

// GetProfile retrieves the candidate's own profile
func (s *CandidateService) GetProfile(ctx context.Context, id kernel.CandidateID) (*candidate.ProfileResponse, error) {
	c, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return candidate.NewProfileResponse(c), nil
}

// loadOrNew returns the stored profile, or an unsaved blank one when the
// candidate has never saved anything
func (s *CandidateService) loadOrNew(ctx context.Context, id kernel.CandidateID, email kernel.Email, now time.Time) (*candidate.Candidate, bool, error) {
	c, err := s.candidateRepo.GetByID(ctx, id)
	if err == nil {
		return c, false, nil
	}
	if !errx.IsCode(err, candidate.CodeCandidateNotFound) {
		return nil, false, errx.Wrap(err, "failed to load candidate", errx.TypeInternal)
	}
	return &candidate.Candidate{ID: id, Email: email, CreatedAt: now, UpdatedAt: now}, true, nil
}

// UpdateProfile saves personal data, creating the profile on first use
func (s *CandidateService) UpdateProfile(ctx context.Context, id kernel.CandidateID, email kernel.Email, req candidate.UpdateProfileRequest) (*candidate.ProfileResponse, error) {
	now := s.now()

	c, _, err := s.loadOrNew(ctx, id, email, now)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateProfile(req.FirstName, req.LastName, req.Phone, req.Location, now); err != nil {
		return nil, err
	}

	if err := s.candidateRepo.Upsert(ctx, c); err != nil {
		return nil, errx.Wrap(err, "failed to save candidate", errx.TypeInternal)
	}

	return candidate.NewProfileResponse(c), nil
}

// UploadCV replaces the candidate's CV. The previous blob is removed first.
// A candidate without a saved profile gets one created around the CV.
func (s *CandidateService) UploadCV(ctx context.Context, id kernel.CandidateID, email kernel.Email, contentType string, data []byte) (*candidate.CVUploadResponse, error) {
	c, isNew, err := s.loadOrNew(ctx, id, email, s.now())
	if err != nil {
		return nil, err
	}

	file, err := s.files.Validate(cvPolicy, data, contentType)
	if err != nil {
		return nil, err
	}

	if c.CVKey != nil && *c.CVKey != "" {
		if err := s.fileSystem.DeleteFile(ctx, *c.CVKey); err != nil {
			return nil, errx.Wrap(err, "failed to delete previous cv", errx.TypeExternal).
				WithDetail("candidate_id", id.String())
		}
	}

	key := s.fileSystem.Join("cvs", id.String(), uuid.NewString()+file.Extension)
	if err := s.fileSystem.WriteFileStream(ctx, key, bytes.NewReader(data), file.MimeType); err != nil {
		return nil, errx.Wrap(err, "failed to store cv", errx.TypeExternal).
			WithDetail("candidate_id", id.String())
	}

	if isNew {
		if err := s.candidateRepo.Upsert(ctx, c); err != nil {
			return nil, errx.Wrap(err, "failed to save candidate", errx.TypeInternal)
		}
	}

	url := kernel.BucketURL(s.fileSystem.URL(key))
	c.AttachCV(url, key, s.now())
	if err := s.candidateRepo.UpdateCV(ctx, c); err != nil {
		return nil, errx.Wrap(err, "failed to save cv reference", errx.TypeInternal)
	}

	logx.Infof("Candidate %s uploaded cv (%d bytes)", id, file.Size)
	return &candidate.CVUploadResponse{URL: url}, nil
}
