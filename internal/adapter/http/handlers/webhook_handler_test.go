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
	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func webhookRouter(uc usecase.IOrderLifecycleUseCase, cfg config.WebhookConfig) *gin.Engine {
	h := NewWebhookHandler(uc, cfg)
	r := gin.New()
	r.POST("/webhooks/asaas", h.HandleAsaasWebhook)
	return r
}

const receivedEventBody = `{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_1","status":"RECEIVED","value":350.00,"externalReference":"ord-1"}}`

func TestWebhookHandler_AccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing token is rejected when configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderLifecycleUseCase(ctrl)
		r := webhookRouter(uc, config.WebhookConfig{AccessToken: "segredo"})

		req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewBufferString(receivedEventBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("matching token is accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderLifecycleUseCase(ctrl)
		r := webhookRouter(uc, config.WebhookConfig{AccessToken: "segredo"})

		uc.EXPECT().HandleGatewayEvent(gomock.Any(), "PAYMENT_RECEIVED", gomock.Any()).Return(true, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewBufferString(receivedEventBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("asaas-access-token", "segredo")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestWebhookHandler_HandleAsaasWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("malformed payload still answers 200", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderLifecycleUseCase(ctrl)
		r := webhookRouter(uc, config.WebhookConfig{})

		req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["success"] != false {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("unknown order is acknowledged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderLifecycleUseCase(ctrl)
		r := webhookRouter(uc, config.WebhookConfig{})

		uc.EXPECT().HandleGatewayEvent(gomock.Any(), "PAYMENT_RECEIVED", gomock.Any()).Return(false, usecase.ErrOrderNotFound)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewBufferString(receivedEventBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("store outage still answers 200", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderLifecycleUseCase(ctrl)
		r := webhookRouter(uc, config.WebhookConfig{})

		uc.EXPECT().HandleGatewayEvent(gomock.Any(), "PAYMENT_RECEIVED", gomock.Any()).Return(false, errors.New("dynamodb unavailable"))

		req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewBufferString(receivedEventBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["success"] != false {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("applied event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderLifecycleUseCase(ctrl)
		r := webhookRouter(uc, config.WebhookConfig{})

		uc.EXPECT().HandleGatewayEvent(gomock.Any(), "PAYMENT_RECEIVED", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, p usecase.GatewayEventPayment) (bool, error) {
				if p.ID != "pay_1" || p.ExternalReference != "ord-1" || p.Value != 350.00 {
					t.Fatalf("unexpected payment payload: %+v", p)
				}
				return true, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewBufferString(receivedEventBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["success"] != true || body["applied"] != true {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}
