package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/dto/response"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"
	"github.com/MatheusAzzevedo/avsite-sub000/pkg"

	"github.com/gin-gonic/gin"
)

// ReconcileHandler exposes the forced reconciliation routes used by
// operators when a webhook is suspected lost.

type ReconcileHandler struct {
	usecase usecase.IReconciliationUseCase
}

func NewReconcileHandler(uc usecase.IReconciliationUseCase) *ReconcileHandler {
	return &ReconcileHandler{usecase: uc}
}

// ReconcileAll checks every pending order against the gateway right now.
func (h *ReconcileHandler) ReconcileAll(c *gin.Context) {
	log.Printf("[reconcile][handler] bulk reconcile start")

	res, err := h.usecase.ReconcileAll(c.Request.Context())
	if err != nil {
		log.Printf("[reconcile][handler] bulk reconcile failed err=%v", err)
		appErr := mapReconcileError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[reconcile][handler] bulk reconcile done updated=%d total=%d", res.Updated, res.Total)

	c.JSON(http.StatusOK, response.FromReconcileResult(res))
}

// ReconcileOrder checks one order against the gateway right now.
func (h *ReconcileHandler) ReconcileOrder(c *gin.Context) {
	orderID := c.Param("id")
	log.Printf("[reconcile][handler] reconcile start order_id=%s", orderID)

	res, err := h.usecase.ReconcileOrder(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("[reconcile][handler] reconcile failed order_id=%s err=%v", orderID, err)
		appErr := mapReconcileError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[reconcile][handler] reconcile done order_id=%s updated=%d", orderID, res.Updated)

	c.JSON(http.StatusOK, response.FromReconcileResult(res))
}

func mapReconcileError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid order id", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrGatewayUnavailable):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider unavailable", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
