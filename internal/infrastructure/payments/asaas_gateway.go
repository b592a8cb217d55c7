package payments

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase/interfaces"

	"github.com/go-resty/resty/v2"
)

var ErrMissingGatewayAPIKey = errors.New("missing ASAAS_API_KEY")

// AsaasGateway is a thin, explicit wrapper over the provider's REST API.
//
// Values cross the wire in the gateway's native decimal unit (BRL with two
// decimals); the conversion from centavos happens here at the call boundary,
// never inside the provider payloads.

type AsaasGateway struct {
	client *resty.Client
}

var _ interfaces.IPaymentGateway = (*AsaasGateway)(nil)

func NewAsaasGateway(cfg config.GatewayConfig) (*AsaasGateway, error) {
	if cfg.APIKey == "" {
		log.Printf("[gateway][asaas] missing ASAAS_API_KEY")
		return nil, ErrMissingGatewayAPIKey
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("access_token", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	log.Printf("[gateway][asaas] client initialized base_url=%s", cfg.BaseURL)
	return &AsaasGateway{client: client}, nil
}

type chargePayload struct {
	Customer          string  `json:"customer,omitempty"`
	BillingType       string  `json:"billingType,omitempty"`
	Value             float64 `json:"value,omitempty"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
	DueDate           string  `json:"dueDate,omitempty"`
}

type chargeResponse struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	Value             float64 `json:"value"`
	ExternalReference string  `json:"externalReference"`
	BillingType       string  `json:"billingType"`
	DueDate           string  `json:"dueDate"`
}

type chargeListResponse struct {
	Data []chargeResponse `json:"data"`
}

type pixQrCodeResponse struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

type customerPayload struct {
	Name        string `json:"name"`
	CpfCnpj     string `json:"cpfCnpj"`
	Email       string `json:"email,omitempty"`
	MobilePhone string `json:"mobilePhone,omitempty"`
}

type customerResponse struct {
	ID string `json:"id"`
}

type customerListResponse struct {
	Data []customerResponse `json:"data"`
}

func (g *AsaasGateway) CreateCharge(ctx context.Context, in entities.CreateChargeInput) (entities.Charge, error) {
	log.Printf("[gateway][asaas] create charge start reference=%s method=%s value_cents=%d", in.ExternalReference, in.Method, in.ValueCents)

	var out chargeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(chargePayload{
			Customer:          in.PayerID,
			BillingType:       billingTypeFromMethod(in.Method),
			Value:             toGatewayValue(in.ValueCents),
			Description:       in.Description,
			ExternalReference: in.ExternalReference,
			DueDate:           in.DueDate.Format("2006-01-02"),
		}).
		SetResult(&out).
		Post("/payments")
	if err != nil {
		return entities.Charge{}, fmt.Errorf("create charge request: %w", err)
	}
	if resp.IsError() {
		return entities.Charge{}, &entities.GatewayError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	log.Printf("[gateway][asaas] create charge success charge_id=%s status=%s", out.ID, out.Status)
	return toCharge(out), nil
}

func (g *AsaasGateway) GetCharge(ctx context.Context, chargeID string) (entities.Charge, error) {
	var out chargeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/payments/" + chargeID)
	if err != nil {
		return entities.Charge{}, fmt.Errorf("get charge request: %w", err)
	}
	if resp.IsError() {
		return entities.Charge{}, &entities.GatewayError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return toCharge(out), nil
}

func (g *AsaasGateway) ListChargesByReference(ctx context.Context, externalReference string) ([]entities.Charge, error) {
	var out chargeListResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("externalReference", externalReference).
		SetResult(&out).
		Get("/payments")
	if err != nil {
		return nil, fmt.Errorf("list charges request: %w", err)
	}
	if resp.IsError() {
		return nil, &entities.GatewayError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	charges := make([]entities.Charge, 0, len(out.Data))
	for _, c := range out.Data {
		charges = append(charges, toCharge(c))
	}
	return charges, nil
}

func (g *AsaasGateway) GetPixPayload(ctx context.Context, chargeID string) (entities.PixPayload, error) {
	var out pixQrCodeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/payments/" + chargeID + "/pixQrCode")
	if err != nil {
		return entities.PixPayload{}, fmt.Errorf("get pix payload request: %w", err)
	}
	if resp.IsError() {
		return entities.PixPayload{}, &entities.GatewayError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return entities.PixPayload{
		Code:      out.Payload,
		QRImage:   out.EncodedImage,
		ExpiresAt: out.ExpirationDate,
	}, nil
}

// UpsertPayer searches the provider by email and creates the customer only
// when absent, so the same email never maps to two provider customers.
func (g *AsaasGateway) UpsertPayer(ctx context.Context, payer entities.Payer) (string, error) {
	var found customerListResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("email", payer.Email).
		SetResult(&found).
		Get("/customers")
	if err != nil {
		return "", fmt.Errorf("search customer request: %w", err)
	}
	if resp.IsError() {
		return "", &entities.GatewayError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if len(found.Data) > 0 {
		log.Printf("[gateway][asaas] payer found customer_id=%s", found.Data[0].ID)
		return found.Data[0].ID, nil
	}

	var created customerResponse
	resp, err = g.client.R().
		SetContext(ctx).
		SetBody(customerPayload{
			Name:        payer.Name,
			CpfCnpj:     payer.TaxID,
			Email:       payer.Email,
			MobilePhone: payer.Phone,
		}).
		SetResult(&created).
		Post("/customers")
	if err != nil {
		return "", fmt.Errorf("create customer request: %w", err)
	}
	if resp.IsError() {
		return "", &entities.GatewayError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	log.Printf("[gateway][asaas] payer created customer_id=%s", created.ID)
	return created.ID, nil
}

func toCharge(c chargeResponse) entities.Charge {
	return entities.Charge{
		ID:                c.ID,
		Status:            entities.GatewayStatus(c.Status),
		Value:             c.Value,
		ExternalReference: c.ExternalReference,
		BillingType:       c.BillingType,
		DueDate:           c.DueDate,
	}
}

func billingTypeFromMethod(m entities.PaymentMethod) string {
	switch m {
	case entities.PaymentMethodPix:
		return "PIX"
	case entities.PaymentMethodCard:
		return "CREDIT_CARD"
	default:
		return "UNDEFINED"
	}
}

// toGatewayValue converts whole centavos to the provider's decimal unit.
// The count is already an integer, so the quotient carries at most two
// decimals.
func toGatewayValue(cents int64) float64 {
	return float64(cents) / 100
}
