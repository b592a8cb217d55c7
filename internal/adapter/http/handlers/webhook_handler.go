package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/dto/request"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/dto/response"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives payment notifications pushed by the gateway.
//
// The provider retries on any non-2xx answer, and a store outage can last
// longer than its retry window, so every delivery is acknowledged with 200.
// Internal failures are logged and left to the reconciliation sweep; the only
// non-200 answer is the 401 for a sender without the shared token.

type WebhookHandler struct {
	usecase     usecase.IOrderLifecycleUseCase
	accessToken string
}

func NewWebhookHandler(uc usecase.IOrderLifecycleUseCase, cfg config.WebhookConfig) *WebhookHandler {
	return &WebhookHandler{usecase: uc, accessToken: cfg.AccessToken}
}

// HandleAsaasWebhook processes one gateway event delivery.
func (h *WebhookHandler) HandleAsaasWebhook(c *gin.Context) {
	if h.accessToken != "" && c.GetHeader("asaas-access-token") != h.accessToken {
		log.Printf("[webhook][handler] rejected: bad access token remote=%s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req request.AsaasWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Malformed payloads will never become valid on retry.
		log.Printf("[webhook][handler] unreadable payload err=%v", err)
		c.JSON(http.StatusOK, response.WebhookAckResponse{Success: false})
		return
	}
	log.Printf("[webhook][handler] event received event=%s charge_id=%s reference=%s", req.Event, req.Payment.ID, req.Payment.ExternalReference)

	applied, err := h.usecase.HandleGatewayEvent(c.Request.Context(), req.Event, usecase.GatewayEventPayment{
		ID:                req.Payment.ID,
		ExternalReference: req.Payment.ExternalReference,
		Value:             req.Payment.Value,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrOrderNotFound) || errors.Is(err, usecase.ErrInvalidOrderID) {
			// Events for orders this system never issued (other tenants,
			// manual charges) are acknowledged and dropped.
			log.Printf("[webhook][handler] no matching order event=%s reference=%s err=%v", req.Event, req.Payment.ExternalReference, err)
			c.JSON(http.StatusOK, response.WebhookAckResponse{Success: true})
			return
		}
		// The reconciliation sweep will pick the order up later.
		log.Printf("[webhook][handler] processing failed event=%s reference=%s err=%v", req.Event, req.Payment.ExternalReference, err)
		c.JSON(http.StatusOK, response.WebhookAckResponse{Success: false})
		return
	}

	log.Printf("[webhook][handler] event processed event=%s reference=%s applied=%t", req.Event, req.Payment.ExternalReference, applied)
	c.JSON(http.StatusOK, response.WebhookAckResponse{Success: true, Applied: applied})
}
