package applicationsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/pkg/metricx"
	"github.com/Abraxas-365/bolsa/recruitment/application"
	"github.com/Abraxas-365/bolsa/recruitment/candidate"
	"github.com/Abraxas-365/bolsa/recruitment/notification"
	"github.com/Abraxas-365/bolsa/recruitment/offer"
)

// ApplicationService provides business operations for applications
type ApplicationService struct {
	applicationRepo application.Repository
	candidateRepo   candidate.Repository
	offerRepo       offer.Repository
	dispatcher      notification.Dispatcher
	cleaner         application.AttachmentCleaner
	now             func() time.Time
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	applicationRepo application.Repository,
	candidateRepo candidate.Repository,
	offerRepo offer.Repository,
	dispatcher notification.Dispatcher,
	cleaner application.AttachmentCleaner,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		candidateRepo:   candidateRepo,
		offerRepo:       offerRepo,
		dispatcher:      dispatcher,
		cleaner:         cleaner,
		now:             time.Now,
	}
}

// Apply creates a SOLICITUD application for a candidate with a complete profile
func (s *ApplicationService) Apply(ctx context.Context, candidateID kernel.CandidateID, offerID kernel.OfferID) (*application.Application, error) {
	candidateEntity, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil, application.ErrIncompleteProfile().
				WithDetail("candidate_id", candidateID.String()).
				WithDetail("missing", []string{"profile"})
		}
		return nil, errx.Wrap(err, "failed to load candidate", errx.TypeInternal)
	}

	if !candidateEntity.IsProfileComplete() {
		return nil, application.ErrIncompleteProfile().
			WithDetail("candidate_id", candidateID.String()).
			WithDetail("missing", candidateEntity.MissingProfileFields())
	}

	offerEntity, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if !offerEntity.IsPublished() {
		return nil, application.ErrOfferNotPublished().
			WithDetail("offer_id", offerID.String()).
			WithDetail("status", string(offerEntity.Status))
	}

	// Business rule: one application per candidate and offer
	exists, err := s.applicationRepo.ExistsByOfferAndCandidate(ctx, offerID, candidateID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check duplicate application", errx.TypeInternal)
	}
	if exists {
		return nil, application.ErrAlreadyApplied().
			WithDetail("offer_id", offerID.String()).
			WithDetail("candidate_id", candidateID.String())
	}

	app, first := application.New(offerID, candidateID, offerEntity.CompanyID, s.now())
	if err := s.applicationRepo.Create(ctx, app, first); err != nil {
		return nil, errx.Wrap(err, "failed to create application", errx.TypeInternal)
	}

	logx.Infof("Candidate %s applied to offer %s (application %s)", candidateID, offerID, app.ID)
	return app, nil
}

// ApplyTransition moves an application through the recruiting pipeline on
// behalf of a recruiter or admin
func (s *ApplicationService) ApplyTransition(ctx context.Context, req application.TransitionRequest) (*application.TransitionResult, error) {
	if !req.ActorRole.CanManageApplications() {
		return nil, s.reject(application.ErrInsufficientPermissions().
			WithDetail("role", req.ActorRole.String()))
	}

	app, err := s.applicationRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	if req.ActorRole == kernel.RoleRecruiter && app.CompanyID != req.CompanyID {
		return nil, s.reject(application.ErrInsufficientPermissions().
			WithDetail("application_id", app.ID.String()).
			WithDetail("company_id", req.CompanyID.String()))
	}

	if req.Status == application.StatusRetirada {
		return nil, s.reject(application.ErrWithdrawReserved().
			WithDetail("application_id", app.ID.String()))
	}

	return s.transition(ctx, app, req.Status, req.Notes, req.ActorID, true)
}

// Withdraw lets the owning candidate leave the process
func (s *ApplicationService) Withdraw(ctx context.Context, id kernel.ApplicationID, candidateID kernel.CandidateID, notes string) (*application.TransitionResult, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !app.BelongsTo(candidateID) {
		return nil, s.reject(application.ErrNotOwner().WithDetail("application_id", id.String()))
	}

	return s.transition(ctx, app, application.StatusRetirada, notes, kernel.UserID(candidateID), false)
}

func (s *ApplicationService) transition(
	ctx context.Context,
	app *application.Application,
	next application.Status,
	notes string,
	actor kernel.UserID,
	notify bool,
) (*application.TransitionResult, error) {
	current := app.Status

	entry, err := app.Transition(next, notes, actor, s.now())
	if err != nil {
		return nil, s.reject(err)
	}

	if err := s.applicationRepo.SaveTransition(ctx, app, current, entry); err != nil {
		if errx.IsCode(err, application.CodeConcurrentConflict) {
			return nil, s.reject(err)
		}
		return nil, errx.Wrap(err, "failed to save transition", errx.TypeInternal)
	}

	changed := current != app.Status
	if changed {
		metricx.ApplicationTransitions.WithLabelValues(string(current), string(app.Status)).Inc()
		logx.Infof("Application %s moved %s -> %s by %s", app.ID, current, app.Status, actor)
		if notify {
			s.notifyCandidate(ctx, app)
		}
	}

	return application.NewTransitionResult(app, changed), nil
}

// notifyCandidate is best-effort: the transition is already committed
func (s *ApplicationService) notifyCandidate(ctx context.Context, app *application.Application) {
	if s.dispatcher == nil {
		return
	}

	candidateEntity, err := s.candidateRepo.GetByID(ctx, app.CandidateID)
	if err != nil {
		logx.Warnf("Skipping notification for application %s: candidate lookup failed: %v", app.ID, err)
		return
	}

	offerEntity, err := s.offerRepo.GetByID(ctx, app.OfferID)
	if err != nil {
		logx.Warnf("Skipping notification for application %s: offer lookup failed: %v", app.ID, err)
		return
	}

	msg := notification.Message{
		To:         candidateEntity.Email.String(),
		Name:       candidateEntity.GetFullName(),
		OfferTitle: string(offerEntity.Title),
		NewStatus:  app.Status.String(),
	}
	if err := s.dispatcher.Notify(ctx, msg); err != nil {
		metricx.NotificationsSent.WithLabelValues("enqueue_failed").Inc()
		logx.Errorf("Failed to dispatch notification for application %s: %v", app.ID, err)
	}
}

func (s *ApplicationService) reject(err error) error {
	if e, ok := errx.As(err); ok {
		metricx.TransitionRejections.WithLabelValues(e.Code).Inc()
	}
	return err
}

// GetApplication returns an application with its history
func (s *ApplicationService) GetApplication(ctx context.Context, id kernel.ApplicationID, viewer application.Viewer) (*application.Application, error) {
	app, err := s.visible(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	history, err := s.applicationRepo.History(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load history", errx.TypeInternal)
	}
	app.History = history
	return app, nil
}

// History returns the chronological status log of an application
func (s *ApplicationService) History(ctx context.Context, id kernel.ApplicationID, viewer application.Viewer) (*application.HistoryResponse, error) {
	if _, err := s.visible(ctx, id, viewer); err != nil {
		return nil, err
	}

	entries, err := s.applicationRepo.History(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load history", errx.TypeInternal)
	}
	if entries == nil {
		entries = []application.HistoryEntry{}
	}
	return &application.HistoryResponse{ApplicationID: id, Entries: entries}, nil
}

func (s *ApplicationService) visible(ctx context.Context, id kernel.ApplicationID, viewer application.Viewer) (*application.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanView(app) {
		return nil, application.ErrInsufficientPermissions().WithDetail("application_id", id.String())
	}
	return app, nil
}

// ListByOffer returns the applications received by an offer
func (s *ApplicationService) ListByOffer(ctx context.Context, offerID kernel.OfferID, viewer application.Viewer, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	offerEntity, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if viewer.Role != kernel.RoleAdmin && (viewer.Role != kernel.RoleRecruiter || !offerEntity.OwnedBy(viewer.CompanyID)) {
		return nil, application.ErrInsufficientPermissions().WithDetail("offer_id", offerID.String())
	}

	return s.applicationRepo.ListByOffer(ctx, offerID, pagination.Normalize())
}

// ListByCandidate returns a candidate's own applications
func (s *ApplicationService) ListByCandidate(ctx context.Context, candidateID kernel.CandidateID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	return s.applicationRepo.ListByCandidate(ctx, candidateID, pagination.Normalize())
}

// AdminDelete hard-deletes an application regardless of its status
func (s *ApplicationService) AdminDelete(ctx context.Context, id kernel.ApplicationID, actorRole kernel.Role) error {
	if actorRole != kernel.RoleAdmin {
		return application.ErrInsufficientPermissions().WithDetail("role", actorRole.String())
	}

	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	logx.Warnf("Admin override: deleting application %s in status %s", app.ID, app.Status)

	if s.cleaner != nil {
		if err := s.cleaner.PurgeApplication(ctx, id); err != nil {
			return errx.Wrap(err, "failed to purge application documents", errx.TypeExternal)
		}
	}

	if err := s.applicationRepo.Delete(ctx, id); err != nil {
		return errx.Wrap(err, "failed to delete application", errx.TypeInternal)
	}
	return nil
}
