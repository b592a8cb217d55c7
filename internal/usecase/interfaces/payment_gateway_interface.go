package interfaces

import (
	"context"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
)

// IPaymentGateway abstracts the external payment provider's REST API.
//
// Implementations return *entities.GatewayError for provider-side HTTP
// rejections and plain errors for transport failures; the lifecycle usecase
// relies on that split for the charge-adoption fallback.
type IPaymentGateway interface {
	CreateCharge(ctx context.Context, in entities.CreateChargeInput) (entities.Charge, error)
	GetCharge(ctx context.Context, chargeID string) (entities.Charge, error)
	ListChargesByReference(ctx context.Context, externalReference string) ([]entities.Charge, error)
	GetPixPayload(ctx context.Context, chargeID string) (entities.PixPayload, error)
	// UpsertPayer resolves a provider customer id by email, creating the
	// customer only when absent. Never duplicates the same email.
	UpsertPayer(ctx context.Context, payer entities.Payer) (string, error)
}
