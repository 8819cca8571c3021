package subscription

// SubscriptionResponse - GET /api/billing/subscription
type SubscriptionResponse struct {
	Plan         Plan          `json:"plan"`
	Subscription *Subscription `json:"subscription"`
	Plans        []Plan        `json:"plans"`
}

// WebhookResponse acknowledges a Stripe delivery
type WebhookResponse struct {
	Received bool   `json:"received"`
	Type     string `json:"type"`
	Handled  bool   `json:"handled"`
}
