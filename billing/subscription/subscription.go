package subscription

import (
	"time"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
)

type PlanCode string

const (
	PlanFree   PlanCode = "FREE"
	PlanBasico PlanCode = "BASICO"
	PlanPro    PlanCode = "PRO"
)

// Plan gates how many offers a company may keep published
type Plan struct {
	Code            PlanCode `json:"code"`
	Name            string   `json:"name"`
	StripePriceID   string   `json:"-"`
	MaxActiveOffers int      `json:"maxActiveOffers"`
}

// Catalog is the fixed plan list, with Stripe price ids from configuration
type Catalog struct {
	plans []Plan
}

func NewCatalog(basicoPriceID, proPriceID string) Catalog {
	return Catalog{plans: []Plan{
		{Code: PlanFree, Name: "Gratis", MaxActiveOffers: 1},
		{Code: PlanBasico, Name: "Básico", StripePriceID: basicoPriceID, MaxActiveOffers: 5},
		{Code: PlanPro, Name: "Pro", StripePriceID: proPriceID, MaxActiveOffers: 25},
	}}
}

func (c Catalog) Plans() []Plan {
	return append([]Plan(nil), c.plans...)
}

// Get returns the plan for code, or FREE when the code is unknown
func (c Catalog) Get(code PlanCode) Plan {
	for _, p := range c.plans {
		if p.Code == code {
			return p
		}
	}
	return c.plans[0]
}

// ByPriceID maps a Stripe price to a plan
func (c Catalog) ByPriceID(priceID string) (Plan, bool) {
	if priceID == "" {
		return Plan{}, false
	}
	for _, p := range c.plans {
		if p.StripePriceID == priceID {
			return p, true
		}
	}
	return Plan{}, false
}

type Status string

const (
	StatusActive     Status = "active"
	StatusTrialing   Status = "trialing"
	StatusPastDue    Status = "past_due"
	StatusCanceled   Status = "canceled"
	StatusIncomplete Status = "incomplete"
)

// Subscription is the single billing row of a company
type Subscription struct {
	CompanyID            kernel.CompanyID `db:"company_id" json:"companyId"`
	StripeCustomerID     string           `db:"stripe_customer_id" json:"-"`
	StripeSubscriptionID string           `db:"stripe_subscription_id" json:"-"`
	PlanCode             PlanCode         `db:"plan_code" json:"planCode"`
	Status               Status           `db:"status" json:"status"`
	CurrentPeriodEnd     *time.Time       `db:"current_period_end" json:"currentPeriodEnd"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the paid plan currently applies
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing
}

// EffectivePlan is the paid plan while active, FREE otherwise
func (s *Subscription) EffectivePlan(catalog Catalog) Plan {
	if s == nil || !s.IsActive() {
		return catalog.Get(PlanFree)
	}
	return catalog.Get(s.PlanCode)
}
