package request

// AsaasWebhookRequest is the provider's push notification payload. Only the
// fields this system acts on are bound; everything else is ignored.
type AsaasWebhookRequest struct {
	Event   string              `json:"event" example:"PAYMENT_RECEIVED"`
	Payment WebhookPaymentEvent `json:"payment"`
}

type WebhookPaymentEvent struct {
	ID                string  `json:"id" example:"pay_6379289690182"`
	Status            string  `json:"status" example:"RECEIVED"`
	Value             float64 `json:"value" example:"350.00"`
	ExternalReference string  `json:"externalReference" example:"7f9c24e8-3b12-4b8f-a6e0-0f2d4c9a1b33"`
}
