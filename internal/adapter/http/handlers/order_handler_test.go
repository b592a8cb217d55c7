package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/handlers/mocks"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func orderRouter(uc usecase.ICheckoutUseCase) *gin.Engine {
	h := NewOrderHandler(uc)
	r := gin.New()
	r.POST("/v1/checkout", h.Checkout)
	r.GET("/v1/orders/:id", h.GetOrder)
	return r
}

const checkoutBody = `{
	"category": "CONVENCIONAL",
	"unit_price_cents": 35000,
	"payment_method": "pix",
	"items": [{"name": "Ana Lima", "tax_id": "390.533.447-05", "email": "ana@test.com"}]
}`

func TestOrderHandler_Checkout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := orderRouter(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("usecase mapped error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := orderRouter(uc)

		uc.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(usecase.CheckoutResult{}, usecase.ErrAmountBelowGatewayMinimum)

		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", bytes.NewBufferString(checkoutBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success with pix payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := orderRouter(uc)

		uc.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in usecase.CheckoutInput) (usecase.CheckoutResult, error) {
				if in.Category != entities.OrderCategoryConventional || in.Method != entities.PaymentMethodPix {
					t.Fatalf("unexpected input: %+v", in)
				}
				if len(in.Items) != 1 || in.Items[0].Name != "Ana Lima" {
					t.Fatalf("unexpected items: %+v", in.Items)
				}
				return usecase.CheckoutResult{
					Order: entities.Order{ID: "ord-1", Status: entities.OrderStatusAwaitingPayment, GatewayChargeID: "pay_1"},
					Pix:   &entities.PixPayload{Code: "000201..."},
				}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", bytes.NewBufferString(checkoutBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body struct {
			Order map[string]any `json:"order"`
			Pix   map[string]any `json:"pix"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Order["id"] != "ord-1" || body.Pix["code"] != "000201..." {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := orderRouter(uc)

		uc.EXPECT().GetOrder(gomock.Any(), "ord-9").Return(entities.Order{}, usecase.ErrOrderNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/ord-9", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := orderRouter(uc)

		uc.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(entities.Order{ID: "ord-1", Status: entities.OrderStatusPaid}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/ord-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["id"] != "ord-1" || body["status"] != "PAGO" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestMapOrderError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{usecase.ErrInvalidCheckout, http.StatusBadRequest},
		{usecase.ErrInvalidOrderID, http.StatusBadRequest},
		{usecase.ErrUnsupportedPaymentMethod, http.StatusBadRequest},
		{usecase.ErrPayerDataInvalid, http.StatusBadRequest},
		{usecase.ErrAmountBelowGatewayMinimum, http.StatusBadRequest},
		{usecase.ErrOrderNotFound, http.StatusNotFound},
		{usecase.ErrGatewayUnavailable, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := mapOrderError(tc.err)
		if got.HTTPStatus != tc.code {
			t.Fatalf("for err %v expected %d got %d", tc.err, tc.code, got.HTTPStatus)
		}
	}
}
