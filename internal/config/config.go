package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr          string
	PostgresURL       string
	RedisAddr         string
	KafkaBrokers      []string
	CORSOrigin        string
	RazorpayBaseURL   string
	RazorpayKeyID     string
	RazorpayKeySecret string
}

// Load reads configuration from the environment, after loading a local .env
// file if one exists. PostgresURL is the only hard requirement; mains check
// it. Empty RedisAddr or KafkaBrokers disable the cache and notifications
// respectively.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":5000"),
		PostgresURL:       os.Getenv("POSTGRES_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		KafkaBrokers:      splitCSV(os.Getenv("KAFKA_BROKERS")),
		CORSOrigin:        getenv("CORS_ORIGIN", "*"),
		RazorpayBaseURL:   os.Getenv("RAZORPAY_BASE_URL"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
