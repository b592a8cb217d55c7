package config

import (
	"os"
	"strconv"
	"time"
)

// Config is loaded once at startup and injected into constructors. No
// component reads the environment on its own.

type Config struct {
	Port    int
	AWS     AWSConfig
	Gateway GatewayConfig
	SMTP    SMTPConfig
	Orders  OrdersConfig
	Webhook WebhookConfig
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// DynamoDBEndpoint points to a local instance when set (e.g. http://dynamodb:8000).
	DynamoDBEndpoint string
}

type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type OrdersConfig struct {
	Table string
	// MinCardAmountCents is the floor below which card charges are refused.
	MinCardAmountCents int64
	// FirstCheckDelay is how long after charge creation the first automatic
	// reconciliation runs; most PIX payments settle within it.
	FirstCheckDelay time.Duration
	// RecheckInterval is the period between automatic re-checks of an order
	// that is still unpaid after the first check.
	RecheckInterval time.Duration
	// SweepInterval is how often the scheduler looks for due orders.
	SweepInterval    time.Duration
	SweepConcurrency int
	// NotifyQueueSize bounds the async confirmation-mail queue.
	NotifyQueueSize int
}

type WebhookConfig struct {
	// AccessToken, when set, must match the asaas-access-token header of
	// incoming webhook requests. Empty disables the check.
	AccessToken string
}

func Load() Config {
	return Config{
		Port: getenvInt("PORT", 8080),
		AWS: AWSConfig{
			Region:           getenvDefault("AWS_REGION", "us-east-1"),
			AccessKeyID:      getenvDefault("AWS_ACCESS_KEY_ID", "local"),
			SecretAccessKey:  getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
			DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		},
		Gateway: GatewayConfig{
			BaseURL: getenvDefault("ASAAS_BASE_URL", "https://api.asaas.com/v3"),
			APIKey:  os.Getenv("ASAAS_API_KEY"),
			Timeout: getenvDuration("ASAAS_TIMEOUT", 15*time.Second),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getenvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenvDefault("SMTP_FROM", "reservas@avsite.com.br"),
		},
		Orders: OrdersConfig{
			Table:              getenvDefault("ORDERS_TABLE", "orders"),
			MinCardAmountCents: getenvInt64("MIN_CARD_AMOUNT_CENTS", 500),
			FirstCheckDelay:    getenvDuration("RECONCILE_FIRST_CHECK_DELAY", 3*time.Minute),
			RecheckInterval:    getenvDuration("RECONCILE_RECHECK_INTERVAL", 4*time.Hour),
			SweepInterval:      getenvDuration("RECONCILE_SWEEP_INTERVAL", time.Minute),
			SweepConcurrency:   getenvInt("RECONCILE_SWEEP_CONCURRENCY", 4),
			NotifyQueueSize:    getenvInt("NOTIFY_QUEUE_SIZE", 64),
		},
		Webhook: WebhookConfig{
			AccessToken: os.Getenv("WEBHOOK_ACCESS_TOKEN"),
		},
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
