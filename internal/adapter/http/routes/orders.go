package routes

import (
	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathOrders   = "/orders"
	PathCheckout = "/checkout"
)

func addOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, reconcileHandler *handlers.ReconcileHandler) {
	rg.POST(PathCheckout, orderHandler.Checkout)

	orders := rg.Group(PathOrders)
	{
		orders.GET("/:id", orderHandler.GetOrder)
	}

	admin := rg.Group("/admin" + PathOrders)
	{
		admin.POST("/reconcile-all", reconcileHandler.ReconcileAll)
		admin.POST("/:id/reconcile", reconcileHandler.ReconcileOrder)
	}
}
