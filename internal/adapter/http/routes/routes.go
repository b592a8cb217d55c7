package routes

import (
	"context"
	"log"
	"strconv"

	_ "github.com/MatheusAzzevedo/avsite-sub000/docs" // This will be auto-generated
	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/handlers"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/persistence/repository"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/infrastructure/database"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/infrastructure/notify"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/infrastructure/payments"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/infrastructure/scheduler"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run wires every dependency and starts the server. It blocks.
func Run(cfg config.Config) {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(cfg)

	err := router.Run(":" + strconv.Itoa(cfg.Port))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(cfg config.Config) {
	ddb := database.ConnectDynamoDB(cfg.AWS)
	orderRepo := repository.NewOrderDynamoRepository(ddb, cfg.Orders)

	var paymentGateway interfaces.IPaymentGateway
	asaasGateway, err := payments.NewAsaasGateway(cfg.Gateway)
	if err != nil {
		log.Printf("Asaas gateway not configured: %v", err)
	} else {
		paymentGateway = asaasGateway
	}

	dispatcher := notify.NewDispatcher(notify.NewEmailSender(cfg.SMTP), cfg.Orders.NotifyQueueSize)
	dispatcher.Start()

	lifecycleUseCase := usecase.NewOrderLifecycleUseCase(orderRepo, paymentGateway, dispatcher, cfg.Orders)
	reconciliationUseCase := usecase.NewReconciliationUseCase(orderRepo, paymentGateway, lifecycleUseCase, cfg.Orders)
	checkoutUseCase := usecase.NewCheckoutUseCase(orderRepo, paymentGateway, lifecycleUseCase)

	sweeper := scheduler.NewReconciliationScheduler(reconciliationUseCase, cfg.Orders.SweepInterval)
	sweeper.Start(context.Background())

	orderHandler := handlers.NewOrderHandler(checkoutUseCase)
	reconcileHandler := handlers.NewReconcileHandler(reconciliationUseCase)
	webhookHandler := handlers.NewWebhookHandler(lifecycleUseCase, cfg.Webhook)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addOrderRoutes(v1, orderHandler, reconcileHandler)

	// O gateway chama este endpoint diretamente.
	router.POST("/webhooks/asaas", webhookHandler.HandleAsaasWebhook)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
