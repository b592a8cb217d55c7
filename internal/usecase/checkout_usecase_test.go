package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	mock_interfaces "github.com/MatheusAzzevedo/avsite-sub000/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func validCheckoutInput() CheckoutInput {
	return CheckoutInput{
		Category:       entities.OrderCategoryConventional,
		UnitPriceCents: 35000,
		Method:         entities.PaymentMethodPix,
		Items: []CheckoutItemInput{
			{Name: "Ana Lima", TaxID: "390.533.447-05", Email: "ana@test.com"},
		},
	}
}

func TestCheckoutUseCase_PlaceOrder_Validations(t *testing.T) {
	uc := NewCheckoutUseCase(nil, nil, nil)

	cases := []struct {
		name   string
		mutate func(*CheckoutInput)
	}{
		{"unknown category", func(in *CheckoutInput) { in.Category = "OUTRA" }},
		{"unknown method", func(in *CheckoutInput) { in.Method = "boleto" }},
		{"no items", func(in *CheckoutInput) { in.Items = nil }},
		{"zero price", func(in *CheckoutInput) { in.UnitPriceCents = 0 }},
		{"pedagogical without responsible party", func(in *CheckoutInput) {
			in.Category = entities.OrderCategoryPedagogical
			in.ResponsibleParty = nil
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCheckoutInput()
			tc.mutate(&in)
			if _, err := uc.PlaceOrder(context.Background(), in); !errors.Is(err, ErrInvalidCheckout) {
				t.Fatalf("expected ErrInvalidCheckout, got %v", err)
			}
		})
	}
}

func TestCheckoutUseCase_PlaceOrder_Pix(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_interfaces.NewMockIOrderRepository(ctrl)
	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	cfg := config.OrdersConfig{MinCardAmountCents: 500, FirstCheckDelay: 3 * time.Minute}
	lifecycle := NewOrderLifecycleUseCase(repo, gateway, nil, cfg)
	uc := NewCheckoutUseCase(repo, gateway, lifecycle)

	var created entities.Order
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, o entities.Order) (entities.Order, error) {
			if o.Status != entities.OrderStatusPending {
				t.Fatalf("expected order created PENDENTE, got %s", o.Status)
			}
			if o.Quantity != 1 || o.TotalPriceCents != 35000 {
				t.Fatalf("unexpected totals: %+v", o)
			}
			if o.ID == "" || o.Items[0].ID == "" {
				t.Fatalf("expected generated ids, got %+v", o)
			}
			created = o
			return o, nil
		})

	repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id string) (entities.Order, error) {
			if id != created.ID {
				t.Fatalf("expected lookup of created order, got %s", id)
			}
			return created, nil
		})
	gateway.EXPECT().ListChargesByReference(gomock.Any(), gomock.Any()).Return(nil, nil)
	gateway.EXPECT().UpsertPayer(gomock.Any(), gomock.Any()).Return("cus_1", nil)
	gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(entities.Charge{ID: "pay_1", Status: entities.GatewayStatusPending, BillingType: "PIX"}, nil)

	repo.EXPECT().SetChargeCreated(gomock.Any(), gomock.Any(), "pay_1", entities.PaymentMethodPix, gomock.Any()).DoAndReturn(
		func(_ context.Context, id, chargeID string, method entities.PaymentMethod, _ time.Time) (entities.Order, error) {
			attached := created
			attached.Status = entities.OrderStatusAwaitingPayment
			attached.GatewayChargeID = chargeID
			attached.PaymentMethod = method
			return attached, nil
		})

	gateway.EXPECT().GetPixPayload(gomock.Any(), "pay_1").Return(entities.PixPayload{Code: "000201...", QRImage: "iVBOR..."}, nil)

	res, err := uc.PlaceOrder(context.Background(), validCheckoutInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.Status != entities.OrderStatusAwaitingPayment {
		t.Fatalf("expected AGUARDANDO_PAGAMENTO, got %s", res.Order.Status)
	}
	if res.Pix == nil || res.Pix.Code == "" {
		t.Fatalf("expected pix payload, got %+v", res.Pix)
	}
}

func TestCheckoutUseCase_PlaceOrder_PixPayloadFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_interfaces.NewMockIOrderRepository(ctrl)
	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	cfg := config.OrdersConfig{MinCardAmountCents: 500, FirstCheckDelay: 3 * time.Minute}
	lifecycle := NewOrderLifecycleUseCase(repo, gateway, nil, cfg)
	uc := NewCheckoutUseCase(repo, gateway, lifecycle)

	var created entities.Order
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, o entities.Order) (entities.Order, error) {
			created = o
			return o, nil
		})
	repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string) (entities.Order, error) { return created, nil })
	gateway.EXPECT().ListChargesByReference(gomock.Any(), gomock.Any()).Return(nil, nil)
	gateway.EXPECT().UpsertPayer(gomock.Any(), gomock.Any()).Return("cus_1", nil)
	gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(entities.Charge{ID: "pay_1", Status: entities.GatewayStatusPending, BillingType: "PIX"}, nil)
	repo.EXPECT().SetChargeCreated(gomock.Any(), gomock.Any(), "pay_1", entities.PaymentMethodPix, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, chargeID string, method entities.PaymentMethod, _ time.Time) (entities.Order, error) {
			attached := created
			attached.Status = entities.OrderStatusAwaitingPayment
			attached.GatewayChargeID = chargeID
			attached.PaymentMethod = method
			return attached, nil
		})
	gateway.EXPECT().GetPixPayload(gomock.Any(), "pay_1").Return(entities.PixPayload{}, errors.New("timeout"))

	res, err := uc.PlaceOrder(context.Background(), validCheckoutInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pix != nil {
		t.Fatalf("expected no pix payload, got %+v", res.Pix)
	}
}

func TestCheckoutUseCase_GetOrder(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		uc := NewCheckoutUseCase(nil, nil, nil)
		if _, err := uc.GetOrder(context.Background(), " "); !errors.Is(err, ErrInvalidOrderID) {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewCheckoutUseCase(repo, nil, nil)

		repo.EXPECT().GetByID(gomock.Any(), "ord-9").Return(entities.Order{}, nil)

		if _, err := uc.GetOrder(context.Background(), "ord-9"); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewCheckoutUseCase(repo, nil, nil)

		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(pendingOrder(), nil)

		got, err := uc.GetOrder(context.Background(), "ord-1")
		if err != nil || got.ID != "ord-1" {
			t.Fatalf("unexpected result: %+v err=%v", got, err)
		}
	})
}
