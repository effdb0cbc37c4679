package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName   string
	Address       string
	JaegerAddress string

	MongoURI  string
	CassDB    string
	RedisHost string
	RedisPort string

	InventoryServiceURL string

	// TTL tiers, chosen per data volatility. The search namespace is
	// written by the accommodation service; we only invalidate it.
	HotelDetailTTL  time.Duration
	AvailabilityTTL time.Duration
	QuoteTTL        time.Duration
	RuleSummaryTTL  time.Duration
	MetricsTTL      time.Duration

	// Front cache tier shared by all namespaces.
	LocalCacheSize int
	LocalCacheTTL  time.Duration

	DemandWindow time.Duration
	DemandMaxAge time.Duration

	InvalidationQueueSize int
	InvalidationWorkers   int

	LogFile string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("No .env file found, reading configuration from environment")
	}

	return &Config{
		ServiceName:   "pricing-service",
		Address:       envString("PRICING_ADDRESS", ":8090"),
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),

		MongoURI:  os.Getenv("MONGO_DB_URI"),
		CassDB:    os.Getenv("CASS_DB"),
		RedisHost: os.Getenv("REDIS_HOST"),
		RedisPort: os.Getenv("REDIS_PORT"),

		InventoryServiceURL: envString("INVENTORY_SERVICE_URL", "https://acc-server:8083/api/accommodation"),

		HotelDetailTTL:  envDuration("CACHE_HOTEL_TTL", 6*time.Hour),
		AvailabilityTTL: envDuration("CACHE_AVAILABILITY_TTL", 5*time.Minute),
		QuoteTTL:        envDuration("CACHE_QUOTE_TTL", 5*time.Minute),
		RuleSummaryTTL:  envDuration("CACHE_RULE_SUMMARY_TTL", 2*time.Hour),
		MetricsTTL:      envDuration("CACHE_METRICS_TTL", 30*time.Second),

		LocalCacheSize: envInt("LOCAL_CACHE_SIZE", 2048),
		LocalCacheTTL:  envDuration("LOCAL_CACHE_TTL", 30*time.Second),

		DemandWindow: envDuration("DEMAND_WINDOW", 30*24*time.Hour),
		DemandMaxAge: envDuration("DEMAND_MAX_AGE", time.Hour),

		InvalidationQueueSize: envInt("INVALIDATION_QUEUE_SIZE", 1024),
		InvalidationWorkers:   envInt("INVALIDATION_WORKERS", 4),

		LogFile: os.Getenv("PRICING_LOG_FILE"),
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("couldn't convert %s to int, using default\n", key)
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		fmt.Printf("couldn't parse %s as duration, using default\n", key)
		return fallback
	}
	return parsed
}
