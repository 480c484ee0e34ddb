package config

import (
	"os"
	"time"
)

type Config struct {
	Port string
	Env  string

	// Storage backend: "mongo" (default) or "dynamo".
	StorageBackend string

	MongoURL string
	MongoDB  string

	DynamoCartTable     string
	DynamoPurchaseTable string

	RedisURL string

	CatalogServiceURL string

	PurchaseSNSTopicARN string

	// Bound on each individual data-store round trip.
	StoreTimeout time.Duration
	// TTL on the per-user checkout lock; a crashed handler releases the
	// user after at most this long.
	CheckoutLockTTL time.Duration
}

func Load() Config {
	return Config{
		Port:                getEnv("PORT", "8085"),
		Env:                 getEnv("APP_ENV", "development"),
		StorageBackend:      getEnv("STORAGE_BACKEND", "mongo"),
		MongoURL:            getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "academy"),
		DynamoCartTable:     getEnv("DYNAMO_CART_TABLE", "cart-lines"),
		DynamoPurchaseTable: getEnv("DYNAMO_PURCHASE_TABLE", "user-purchases"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		CatalogServiceURL:   getEnv("COURSE_CATALOG_URL", "http://localhost:8081"),
		PurchaseSNSTopicARN: getEnv("PURCHASE_SNS_TOPIC_ARN", ""),
		StoreTimeout:        10 * time.Second,
		CheckoutLockTTL:     30 * time.Second,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
