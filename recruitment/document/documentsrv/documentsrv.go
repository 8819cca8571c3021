package documentsrv

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/fsx"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/pkg/metricx"
	"github.com/Abraxas-365/bolsa/pkg/upload"
	"github.com/Abraxas-365/bolsa/recruitment/application"
	"github.com/Abraxas-365/bolsa/recruitment/candidate"
	"github.com/Abraxas-365/bolsa/recruitment/document"
	"github.com/Abraxas-365/bolsa/recruitment/offer"
	"github.com/google/uuid"
)

// DocumentService manages the hiring-phase document checklist
type DocumentService struct {
	documentRepo    document.Repository
	applicationRepo application.Repository
	candidateRepo   candidate.Repository
	offerRepo       offer.Repository
	fileSystem      fsx.FileSystem
	files           *upload.Validator
	now             func() time.Time
}

var _ application.AttachmentCleaner = (*DocumentService)(nil)

func NewDocumentService(
	documentRepo document.Repository,
	applicationRepo application.Repository,
	candidateRepo candidate.Repository,
	offerRepo offer.Repository,
	fileSystem fsx.FileSystem,
	files *upload.Validator,
) *DocumentService {
	return &DocumentService{
		documentRepo:    documentRepo,
		applicationRepo: applicationRepo,
		candidateRepo:   candidateRepo,
		offerRepo:       offerRepo,
		fileSystem:      fileSystem,
		files:           files,
		now:             time.Now,
	}
}

// hiredApplication loads the application and enforces the owner and phase preconditions
func (s *DocumentService) hiredApplication(ctx context.Context, id kernel.ApplicationID, candidateID kernel.CandidateID) (*application.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !app.BelongsTo(candidateID) {
		return nil, document.ErrNotOwner().WithDetail("application_id", id.String())
	}

	if !app.IsHired() {
		return nil, document.ErrWrongPhase().
			WithDetail("application_id", id.String()).
			WithDetail("status", app.Status.String())
	}

	return app, nil
}

// ListChecklist joins the requirement catalog with the application's submissions
func (s *DocumentService) ListChecklist(ctx context.Context, applicationID kernel.ApplicationID, candidateID kernel.CandidateID) (*document.ChecklistResponse, error) {
	app, err := s.hiredApplication(ctx, applicationID, candidateID)
	if err != nil {
		return nil, err
	}

	requirements, err := s.documentRepo.ListRequirements(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list requirements", errx.TypeInternal)
	}

	submissions, err := s.documentRepo.ListSubmissions(ctx, applicationID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list submissions", errx.TypeInternal)
	}

	byRequirement := make(map[kernel.RequirementID]*document.Submission, len(submissions))
	for i := range submissions {
		byRequirement[submissions[i].RequirementID] = &submissions[i]
	}

	docs := make([]document.ChecklistDocument, 0, len(requirements))
	for _, r := range requirements {
		docs = append(docs, document.NewChecklistDocument(r, byRequirement[r.ID]))
	}

	meta, err := s.meta(ctx, app)
	if err != nil {
		return nil, err
	}

	return &document.ChecklistResponse{Meta: meta, Documents: docs}, nil
}

func (s *DocumentService) meta(ctx context.Context, app *application.Application) (document.ChecklistMeta, error) {
	c, err := s.candidateRepo.GetByID(ctx, app.CandidateID)
	if err != nil {
		return document.ChecklistMeta{}, err
	}

	o, err := s.offerRepo.GetByID(ctx, app.OfferID)
	if err != nil {
		return document.ChecklistMeta{}, err
	}

	return document.ChecklistMeta{
		CandidateName: c.GetFullName(),
		OfferTitle:    string(o.Title),
		CompanyName:   o.CompanyName,
	}, nil
}

// Upload stores a file for one requirement. The previous blob is deleted
// before the new one is written; the row is upserted only after a successful put.
func (s *DocumentService) Upload(ctx context.Context, req document.UploadRequest) (*document.UploadResponse, error) {
	if _, err := s.hiredApplication(ctx, req.ApplicationID, req.CandidateID); err != nil {
		return nil, err
	}

	requirement, err := s.documentRepo.GetRequirement(ctx, req.RequirementID)
	if err != nil {
		return nil, err
	}

	file, err := s.files.Validate(requirement.Policy(), req.Data, req.ContentType)
	if err != nil {
		metricx.DocumentUploads.WithLabelValues("rejected").Inc()
		if e, ok := errx.As(err); ok {
			return nil, e.WithDetail("requirement", requirement.Code)
		}
		return nil, err
	}

	previous, err := s.documentRepo.GetSubmission(ctx, req.ApplicationID, req.RequirementID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load submission", errx.TypeInternal)
	}

	if previous != nil && previous.FileKey != "" {
		if err := s.fileSystem.DeleteFile(ctx, previous.FileKey); err != nil {
			metricx.DocumentUploads.WithLabelValues("failed").Inc()
			return nil, errx.Wrap(err, "failed to delete previous document", errx.TypeExternal).
				WithDetail("requirement", requirement.Code)
		}
	}

	key := s.fileSystem.Join("documents", req.ApplicationID.String(), strings.ToLower(requirement.Code), uuid.NewString()+extension(req.FileName, file))
	if err := s.fileSystem.WriteFileStream(ctx, key, bytes.NewReader(req.Data), file.MimeType); err != nil {
		metricx.DocumentUploads.WithLabelValues("failed").Inc()
		return nil, errx.Wrap(err, "failed to store document", errx.TypeExternal).
			WithDetail("requirement", requirement.Code)
	}

	submission := &document.Submission{
		ID:            kernel.NewSubmissionID(uuid.NewString()),
		ApplicationID: req.ApplicationID,
		RequirementID: req.RequirementID,
		Status:        document.SubmissionUploaded,
		FileURL:       kernel.BucketURL(s.fileSystem.URL(key)),
		FileKey:       key,
		MimeType:      file.MimeType,
		SizeBytes:     int64(file.Size),
		UploadedAt:    s.now(),
	}
	if previous != nil {
		submission.ID = previous.ID
	}

	if err := s.documentRepo.UpsertSubmission(ctx, submission); err != nil {
		metricx.DocumentUploads.WithLabelValues("failed").Inc()
		return nil, errx.Wrap(err, "failed to save submission", errx.TypeInternal)
	}

	metricx.DocumentUploads.WithLabelValues("stored").Inc()
	logx.Infof("Application %s: stored %s (%s, %d bytes)", req.ApplicationID, requirement.Code, file.MimeType, file.Size)
	return &document.UploadResponse{URL: submission.FileURL}, nil
}

// extension keeps the client's extension when it agrees with the sniffed type
func extension(fileName string, file *upload.File) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == file.Extension || (ext == ".jpeg" && file.Extension == ".jpg") {
		return ext
	}
	return file.Extension
}

// Remove deletes the blob and the row; removing nothing succeeds
func (s *DocumentService) Remove(ctx context.Context, applicationID kernel.ApplicationID, requirementID kernel.RequirementID, candidateID kernel.CandidateID) error {
	if _, err := s.hiredApplication(ctx, applicationID, candidateID); err != nil {
		return err
	}

	existing, err := s.documentRepo.GetSubmission(ctx, applicationID, requirementID)
	if err != nil {
		return errx.Wrap(err, "failed to load submission", errx.TypeInternal)
	}
	if existing == nil {
		return nil
	}

	if existing.FileKey != "" {
		if err := s.fileSystem.DeleteFile(ctx, existing.FileKey); err != nil {
			return errx.Wrap(err, "failed to delete document", errx.TypeExternal)
		}
	}

	if err := s.documentRepo.DeleteSubmission(ctx, applicationID, requirementID); err != nil {
		return errx.Wrap(err, "failed to delete submission", errx.TypeInternal)
	}

	logx.Infof("Application %s: removed requirement %s", applicationID, requirementID)
	return nil
}

// Review lets a recruiter of the hiring company or an admin approve or
// reject an uploaded document
func (s *DocumentService) Review(ctx context.Context, applicationID kernel.ApplicationID, requirementID kernel.RequirementID, status document.SubmissionStatus, reviewer application.Viewer) (*document.Submission, error) {
	if !reviewer.Role.CanManageApplications() {
		return nil, document.ErrCannotReview().WithDetail("role", reviewer.Role.String())
	}

	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !reviewer.CanView(app) {
		return nil, document.ErrCannotReview().WithDetail("application_id", applicationID.String())
	}

	submission, err := s.documentRepo.GetSubmission(ctx, applicationID, requirementID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load submission", errx.TypeInternal)
	}
	if submission == nil {
		return nil, document.ErrSubmissionNotFound().WithDetail("requirement_id", requirementID.String())
	}

	if err := submission.Review(status, s.now()); err != nil {
		return nil, err
	}

	if err := s.documentRepo.UpdateStatus(ctx, submission); err != nil {
		return nil, errx.Wrap(err, "failed to save review", errx.TypeInternal)
	}

	return submission, nil
}

// PurgeApplication deletes every stored blob of an application
func (s *DocumentService) PurgeApplication(ctx context.Context, id kernel.ApplicationID) error {
	submissions, err := s.documentRepo.ListSubmissions(ctx, id)
	if err != nil {
		return errx.Wrap(err, "failed to list submissions", errx.TypeInternal)
	}

	for _, sub := range submissions {
		if sub.FileKey == "" {
			continue
		}
		if err := s.fileSystem.DeleteFile(ctx, sub.FileKey); err != nil {
			return errx.Wrap(err, "failed to delete document", errx.TypeExternal).
				WithDetail("key", sub.FileKey)
		}
	}
	return nil
}
