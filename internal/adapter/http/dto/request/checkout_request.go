package request

// CheckoutRequest is the payload for the "cria pedido e cobranca" route.
//
// `quantity` is implied by the number of items; pedagogical orders must carry
// a `responsible_party`, conventional ones must not rely on it (the first
// passenger pays).
type CheckoutRequest struct {
	Category         string                    `json:"category" binding:"required" example:"PEDAGOGICO"`
	UnitPriceCents   int64                     `json:"unit_price_cents" binding:"required" example:"35000"`
	PaymentMethod    string                    `json:"payment_method" binding:"required" example:"pix"`
	ResponsibleParty *CheckoutResponsibleParty `json:"responsible_party,omitempty"`
	Items            []CheckoutItem            `json:"items" binding:"required"`
}

type CheckoutResponsibleParty struct {
	Name  string `json:"name" example:"Maria Souza"`
	TaxID string `json:"tax_id" example:"123.456.789-09"`
	Email string `json:"email" example:"maria@example.com"`
	Phone string `json:"phone" example:"11999990000"`
}

type CheckoutItem struct {
	Name  string `json:"name" example:"Joao Souza"`
	TaxID string `json:"tax_id" example:"987.654.321-00"`
	Email string `json:"email" example:"joao@example.com"`
	Phone string `json:"phone" example:"11988880000"`
}
