package offersrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/recruitment/offer"
	"github.com/google/uuid"
)

// OfferService provides business operations for job offers
type OfferService struct {
	offerRepo offer.Repository
	limiter   offer.PlanLimiter
	now       func() time.Time
}

// NewOfferService creates a new instance of the offer service
func NewOfferService(offerRepo offer.Repository, limiter offer.PlanLimiter) *OfferService {
	return &OfferService{
		offerRepo: offerRepo,
		limiter:   limiter,
		now:       time.Now,
	}
}

// CreateOffer creates a draft offer for the actor's company
func (s *OfferService) CreateOffer(ctx context.Context, req offer.CreateOfferRequest, actor offer.Actor) (*offer.Offer, error) {
	if !actor.Role.CanManageApplications() || actor.CompanyID.IsEmpty() {
		return nil, offer.ErrInsufficientPermissions().WithDetail("role", actor.Role.String())
	}

	now := s.now()
	newOffer := &offer.Offer{
		ID:          kernel.NewOfferID(uuid.NewString()),
		CompanyID:   actor.CompanyID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Status:      offer.StatusDraft,
		PostedBy:    actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.offerRepo.Create(ctx, newOffer); err != nil {
		return nil, errx.Wrap(err, "failed to create offer", errx.TypeInternal)
	}

	return newOffer, nil
}

// GetOffer retrieves an offer by ID
func (s *OfferService) GetOffer(ctx context.Context, id kernel.OfferID) (*offer.Offer, error) {
	return s.offerRepo.GetByID(ctx, id)
}

// ListPublished lists offers open to candidates
func (s *OfferService) ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[offer.Offer], error) {
	offers, err := s.offerRepo.ListPublished(ctx, pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list offers", errx.TypeInternal)
	}
	return offers, nil
}

// ListByCompany lists every offer of the actor's company
func (s *OfferService) ListByCompany(ctx context.Context, actor offer.Actor, pagination kernel.PaginationOptions) (*kernel.Paginated[offer.Offer], error) {
	if actor.CompanyID.IsEmpty() {
		return nil, offer.ErrInsufficientPermissions()
	}
	offers, err := s.offerRepo.ListByCompany(ctx, actor.CompanyID, pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list company offers", errx.TypeInternal)
	}
	return offers, nil
}

// PublishOffer makes an offer visible, subject to the company's plan limit
func (s *OfferService) PublishOffer(ctx context.Context, id kernel.OfferID, actor offer.Actor) (*offer.Offer, error) {
	o, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(o) {
		return nil, offer.ErrInsufficientPermissions().WithDetail("offer_id", id.String())
	}

	if !o.CanBePublished() {
		return nil, offer.ErrCannotPublish().WithDetail("current_status", o.Status)
	}

	if err := o.Publish(s.now()); err != nil {
		return nil, err
	}

	err = s.offerRepo.Publish(ctx, o, func(active int) error {
		return s.limiter.CheckOfferLimit(ctx, o.CompanyID, active)
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to publish offer", errx.TypeInternal)
	}

	logx.Infof("Offer %s published by %s (company %s)", o.ID, actor.UserID, o.CompanyID)
	return o, nil
}

// CloseOffer stops an offer from accepting applications
func (s *OfferService) CloseOffer(ctx context.Context, id kernel.OfferID, actor offer.Actor) (*offer.Offer, error) {
	o, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(o) {
		return nil, offer.ErrInsufficientPermissions().WithDetail("offer_id", id.String())
	}

	if err := o.Close(s.now()); err != nil {
		return nil, err
	}

	if err := s.offerRepo.Update(ctx, o); err != nil {
		return nil, errx.Wrap(err, "failed to close offer", errx.TypeInternal)
	}

	return o, nil
}
