package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/dto/request"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/dto/response"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"
	"github.com/MatheusAzzevedo/avsite-sub000/pkg"

	"github.com/gin-gonic/gin"
)

// OrderHandler handles checkout and order status polling.

type OrderHandler struct {
	usecase usecase.ICheckoutUseCase
}

func NewOrderHandler(uc usecase.ICheckoutUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// Checkout creates an order and its gateway charge in one step.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[pedido][handler] invalid payload err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[pedido][handler] checkout start category=%s method=%s items=%d", req.Category, req.PaymentMethod, len(req.Items))

	res, err := h.usecase.PlaceOrder(c.Request.Context(), toCheckoutInput(req))
	if err != nil {
		log.Printf("[pedido][handler] checkout failed category=%s err=%v", req.Category, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[pedido][handler] checkout success order_id=%s status=%s", res.Order.ID, res.Order.Status)

	c.JSON(http.StatusCreated, response.FromCheckoutResult(res))
}

// GetOrder returns the current state of one order.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	order, err := h.usecase.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("[pedido][handler] get failed order_id=%s err=%v", orderID, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrder(order))
}

func toCheckoutInput(req request.CheckoutRequest) usecase.CheckoutInput {
	in := usecase.CheckoutInput{
		Category:       entities.OrderCategory(req.Category),
		UnitPriceCents: req.UnitPriceCents,
		Method:         entities.PaymentMethod(req.PaymentMethod),
	}
	if req.ResponsibleParty != nil {
		in.ResponsibleParty = &entities.ResponsibleParty{
			Name:  req.ResponsibleParty.Name,
			TaxID: req.ResponsibleParty.TaxID,
			Email: req.ResponsibleParty.Email,
			Phone: req.ResponsibleParty.Phone,
		}
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.CheckoutItemInput{
			Name:  it.Name,
			TaxID: it.TaxID,
			Email: it.Email,
			Phone: it.Phone,
		})
	}
	return in
}

func mapOrderError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidCheckout), errors.Is(err, usecase.ErrInvalidOrderID), errors.Is(err, usecase.ErrUnsupportedPaymentMethod):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPayerDataInvalid):
		return pkg.NewDomainErrorSimple("PAYER_DATA_INVALID", "Payer name or document is missing or invalid", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrAmountBelowGatewayMinimum):
		return pkg.NewDomainErrorSimple("AMOUNT_BELOW_MINIMUM", "Order total is below the minimum for card payments", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrGatewayUnavailable):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider unavailable", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
