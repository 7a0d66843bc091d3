package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Connection settings are required and
// enforced by must(); booking-policy knobs fall back to sensible
// defaults so a bare deployment books with the standard rules.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify bearer tokens

	CancelWindow        time.Duration // lead time before showtime while cancellation is allowed
	CancelFeePercent    int           // percent of the total retained on cancellation
	TaxPercent          int           // percent tax on the seat subtotal
	ConvenienceFeeCents int64         // flat fee added to every booking
	MaxAdvanceDays      int           // scheduling horizon in days
	ReserveTimeout      time.Duration // bound on acquiring the reservation lock

	SweepInterval time.Duration // period of the completion/cleanup sweeps
}

// Load reads configuration values from environment variables and
// returns a Config.  Missing required variables cause the program to
// exit with a fatal log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		CancelWindow:        envDur("CANCEL_WINDOW", 2*time.Hour),
		CancelFeePercent:    envInt("CANCEL_FEE_PERCENT", 10),
		TaxPercent:          envInt("TAX_PERCENT", 18),
		ConvenienceFeeCents: int64(envInt("CONVENIENCE_FEE_CENTS", 3000)),
		MaxAdvanceDays:      envInt("MAX_ADVANCE_DAYS", 30),
		ReserveTimeout:      envDur("RESERVE_TIMEOUT", 3*time.Second),

		SweepInterval: envDur("SWEEP_INTERVAL", time.Hour),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
