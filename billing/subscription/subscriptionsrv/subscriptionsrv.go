package subscriptionsrv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abraxas-365/bolsa/billing/subscription"
	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/pkg/metricx"
	"github.com/Abraxas-365/bolsa/recruitment/offer"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

const companyMetadataKey = "company_id"

// SubscriptionService keeps company plans in sync with Stripe and enforces plan limits
type SubscriptionService struct {
	repo          subscription.Repository
	catalog       subscription.Catalog
	webhookSecret string
	now           func() time.Time
}

var _ offer.PlanLimiter = (*SubscriptionService)(nil)

func NewSubscriptionService(repo subscription.Repository, catalog subscription.Catalog, webhookSecret string) *SubscriptionService {
	return &SubscriptionService{
		repo:          repo,
		catalog:       catalog,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

// CheckOfferLimit fails when the company already uses every slot of its plan
func (s *SubscriptionService) CheckOfferLimit(ctx context.Context, companyID kernel.CompanyID, activeOffers int) error {
	sub, err := s.repo.GetByCompany(ctx, companyID)
	if err != nil {
		return errx.Wrap(err, "failed to load subscription", errx.TypeInternal)
	}

	plan := sub.EffectivePlan(s.catalog)
	if activeOffers >= plan.MaxActiveOffers {
		return subscription.ErrPlanLimit().
			WithDetail("plan", string(plan.Code)).
			WithDetail("max_active_offers", plan.MaxActiveOffers).
			WithDetail("active_offers", activeOffers)
	}
	return nil
}

// GetForCompany describes the plan that currently applies to a company
func (s *SubscriptionService) GetForCompany(ctx context.Context, companyID kernel.CompanyID) (*subscription.SubscriptionResponse, error) {
	sub, err := s.repo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load subscription", errx.TypeInternal)
	}
	return &subscription.SubscriptionResponse{
		Plan:         sub.EffectivePlan(s.catalog),
		Subscription: sub,
		Plans:        s.catalog.Plans(),
	}, nil
}

// HandleWebhook verifies a Stripe delivery and applies it. Unknown event
// types are acknowledged without changes.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*subscription.WebhookResponse, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, subscription.ErrInvalidSignature().WithCause(err)
	}

	eventType := string(event.Type)
	metricx.WebhookEvents.WithLabelValues(eventType).Inc()

	var raw json.RawMessage
	if event.Data != nil {
		raw = event.Data.Raw
	}

	handled := true
	switch eventType {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		err = s.applySubscription(ctx, raw)
	case "checkout.session.completed":
		err = s.applyCheckout(ctx, raw)
	default:
		handled = false
		logx.Debugf("Ignoring Stripe event %s (%s)", event.ID, eventType)
	}
	if err != nil {
		return nil, err
	}

	return &subscription.WebhookResponse{Received: true, Type: eventType, Handled: handled}, nil
}

func (s *SubscriptionService) applySubscription(ctx context.Context, raw json.RawMessage) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(raw, &stripeSub); err != nil {
		return subscription.ErrInvalidEvent().WithCause(err)
	}

	existing, err := s.resolve(ctx, stripeSub.Metadata, stripeSub.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		logx.Warnf("Stripe subscription %s has no %s metadata and no local row, skipping", stripeSub.ID, companyMetadataKey)
		return nil
	}

	existing.StripeSubscriptionID = stripeSub.ID
	if stripeSub.Customer != nil && stripeSub.Customer.ID != "" {
		existing.StripeCustomerID = stripeSub.Customer.ID
	}
	existing.Status = subscription.Status(stripeSub.Status)
	if stripeSub.Items != nil {
		for _, item := range stripeSub.Items.Data {
			if item == nil || item.Price == nil {
				continue
			}
			if plan, ok := s.catalog.ByPriceID(item.Price.ID); ok {
				existing.PlanCode = plan.Code
				break
			}
		}
	}
	if stripeSub.CurrentPeriodEnd > 0 {
		end := time.Unix(stripeSub.CurrentPeriodEnd, 0).UTC()
		existing.CurrentPeriodEnd = &end
	}
	existing.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, existing); err != nil {
		return errx.Wrap(err, "failed to save subscription", errx.TypeInternal)
	}

	logx.Infof("Company %s subscription %s: plan %s, status %s", existing.CompanyID, existing.StripeSubscriptionID, existing.PlanCode, existing.Status)
	return nil
}

func (s *SubscriptionService) applyCheckout(ctx context.Context, raw json.RawMessage) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return subscription.ErrInvalidEvent().WithCause(err)
	}

	metadata := session.Metadata
	if metadata[companyMetadataKey] == "" && session.ClientReferenceID != "" {
		metadata = map[string]string{companyMetadataKey: session.ClientReferenceID}
	}

	var stripeSubID string
	if session.Subscription != nil {
		stripeSubID = session.Subscription.ID
	}

	existing, err := s.resolve(ctx, metadata, stripeSubID)
	if err != nil {
		return err
	}
	if existing == nil {
		logx.Warnf("Checkout session %s has no company reference, skipping", session.ID)
		return nil
	}

	if session.Customer != nil && session.Customer.ID != "" {
		existing.StripeCustomerID = session.Customer.ID
	}
	if stripeSubID != "" {
		existing.StripeSubscriptionID = stripeSubID
	}
	existing.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, existing); err != nil {
		return errx.Wrap(err, "failed to save subscription", errx.TypeInternal)
	}
	return nil
}

// resolve finds the local row by company metadata, then by Stripe id. A
// company seen for the first time starts on FREE/incomplete until Stripe
// reports the subscription itself.
func (s *SubscriptionService) resolve(ctx context.Context, metadata map[string]string, stripeSubID string) (*subscription.Subscription, error) {
	if companyID := kernel.CompanyID(metadata[companyMetadataKey]); !companyID.IsEmpty() {
		existing, err := s.repo.GetByCompany(ctx, companyID)
		if err != nil {
			return nil, errx.Wrap(err, "failed to load subscription", errx.TypeInternal)
		}
		if existing != nil {
			return existing, nil
		}
		return &subscription.Subscription{
			CompanyID: companyID,
			PlanCode:  subscription.PlanFree,
			Status:    subscription.StatusIncomplete,
		}, nil
	}

	if stripeSubID == "" {
		return nil, nil
	}
	existing, err := s.repo.GetByStripeSubscription(ctx, stripeSubID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load subscription", errx.TypeInternal)
	}
	return existing, nil
}
