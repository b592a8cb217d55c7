package main

import (
	_ "github.com/MatheusAzzevedo/avsite-sub000/docs"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/adapter/http/routes"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Order Reconciliation API
// @version         1.0
// @description     Order and payment reconciliation service for trip bookings, backed by DynamoDB and the Asaas gateway.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run(config.Load())
}
