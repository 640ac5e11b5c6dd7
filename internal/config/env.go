package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr       string
	GinMode       string
	DBDSN         string
	RedisAddr     string
	JWTSecret     string
	CORSOrigins   []string
	SeatHoldTTL   time.Duration
	PaymentWindow time.Duration
	ExpirySweep   time.Duration
	SeatCacheTTL  time.Duration
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/bus_booking?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Env{
		AppAddr:       appAddr,
		GinMode:       ginMode,
		DBDSN:         dsn,
		RedisAddr:     redisAddr,
		JWTSecret:     secret,
		CORSOrigins:   origins,
		SeatHoldTTL:   durationEnv("SEAT_HOLD_TTL", 5*time.Minute),
		PaymentWindow: durationEnv("PAYMENT_WINDOW", 30*time.Minute),
		ExpirySweep:   durationEnv("EXPIRY_SWEEP_INTERVAL", time.Minute),
		SeatCacheTTL:  durationEnv("SEAT_CACHE_TTL", 10*time.Second),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
