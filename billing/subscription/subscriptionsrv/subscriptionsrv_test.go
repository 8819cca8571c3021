package subscriptionsrv

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Abraxas-365/bolsa/billing/subscription"
	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
)

const testSecret = "whsec_test"

type memRepo map[kernel.CompanyID]subscription.Subscription

func (m memRepo) GetByCompany(_ context.Context, id kernel.CompanyID) (*subscription.Subscription, error) {
	s, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m memRepo) GetByStripeSubscription(_ context.Context, id string) (*subscription.Subscription, error) {
	for _, s := range m {
		if s.StripeSubscriptionID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (m memRepo) Upsert(_ context.Context, s *subscription.Subscription) error {
	m[s.CompanyID] = *s
	return nil
}

func newService() (*SubscriptionService, memRepo) {
	repo := memRepo{}
	return NewSubscriptionService(repo, subscription.NewCatalog("price_basico", "price_pro"), testSecret), repo
}

func sign(payload string) ([]byte, string) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func subscriptionEvent(eventType, subID, status, priceID, metadata string) string {
	return fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"type": %q,
		"data": {
			"object": {
				"id": %q,
				"object": "subscription",
				"customer": "cus_1",
				"status": %q,
				"current_period_end": 1780000000,
				"metadata": %s,
				"items": {"object": "list", "data": [{"id": "si_1", "object": "subscription_item", "price": {"id": %q, "object": "price"}}]}
			}
		}
	}`, eventType, subID, status, metadata, priceID)
}

func TestHandleWebhook_SubscriptionLifecycle(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	payload, sig := sign(subscriptionEvent("customer.subscription.created", "sub_1", "active", "price_pro", `{"company_id": "comp-1"}`))
	res, err := svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.True(t, res.Handled)

	sub := repo["comp-1"]
	assert.Equal(t, subscription.PlanPro, sub.PlanCode)
	assert.Equal(t, subscription.StatusActive, sub.Status)
	assert.Equal(t, "cus_1", sub.StripeCustomerID)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.Equal(t, int64(1780000000), sub.CurrentPeriodEnd.Unix())

	// later events may omit metadata; the row is found by subscription id
	payload, sig = sign(subscriptionEvent("customer.subscription.deleted", "sub_1", "canceled", "price_pro", `{}`))
	_, err = svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusCanceled, repo["comp-1"].Status)
}

func TestHandleWebhook_UpgradeMapsPlanByPrice(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	payload, sig := sign(subscriptionEvent("customer.subscription.created", "sub_1", "trialing", "price_basico", `{"company_id": "comp-1"}`))
	_, err := svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, subscription.PlanBasico, repo["comp-1"].PlanCode)

	payload, sig = sign(subscriptionEvent("customer.subscription.updated", "sub_1", "active", "price_pro", `{"company_id": "comp-1"}`))
	_, err = svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, subscription.PlanPro, repo["comp-1"].PlanCode)
}

func TestHandleWebhook_CheckoutLinksCustomer(t *testing.T) {
	svc, repo := newService()

	payload, sig := sign(`{
		"id": "evt_2",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"client_reference_id": "comp-7",
			"customer": "cus_7",
			"subscription": "sub_7"
		}}
	}`)
	_, err := svc.HandleWebhook(context.Background(), payload, sig)
	require.NoError(t, err)

	sub := repo["comp-7"]
	assert.Equal(t, "cus_7", sub.StripeCustomerID)
	assert.Equal(t, "sub_7", sub.StripeSubscriptionID)
	assert.Equal(t, subscription.PlanFree, sub.PlanCode)
	assert.False(t, sub.IsActive())
}

func TestHandleWebhook_UnknownEventIsAcknowledged(t *testing.T) {
	svc, repo := newService()

	payload, sig := sign(`{"id": "evt_3", "object": "event", "type": "invoice.paid", "data": {"object": {"id": "in_1"}}}`)
	res, err := svc.HandleWebhook(context.Background(), payload, sig)
	require.NoError(t, err)
	assert.True(t, res.Received)
	assert.False(t, res.Handled)
	assert.Empty(t, repo)
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	svc, _ := newService()

	payload, _ := sign(subscriptionEvent("customer.subscription.created", "sub_1", "active", "price_pro", `{}`))
	_, err := svc.HandleWebhook(context.Background(), payload, "t=1,v1=deadbeef")
	assert.True(t, errx.IsCode(err, subscription.CodeInvalidSignature))
}

func TestCheckOfferLimit(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	// no subscription: FREE allows a single published offer
	assert.NoError(t, svc.CheckOfferLimit(ctx, "comp-1", 0))
	err := svc.CheckOfferLimit(ctx, "comp-1", 1)
	assert.True(t, errx.IsCode(err, subscription.CodePlanLimit))
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	repo["comp-1"] = subscription.Subscription{CompanyID: "comp-1", PlanCode: subscription.PlanBasico, Status: subscription.StatusActive}
	assert.NoError(t, svc.CheckOfferLimit(ctx, "comp-1", 4))
	assert.Error(t, svc.CheckOfferLimit(ctx, "comp-1", 5))

	repo["comp-1"] = subscription.Subscription{CompanyID: "comp-1", PlanCode: subscription.PlanPro, Status: subscription.StatusPastDue}
	assert.Error(t, svc.CheckOfferLimit(ctx, "comp-1", 1))

	res, err := svc.GetForCompany(ctx, "comp-1")
	require.NoError(t, err)
	assert.Equal(t, subscription.PlanFree, res.Plan.Code)
}
