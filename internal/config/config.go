package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The three token secrets are independent on
// purpose: an activation token must never verify as a session token.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	Port             string // HTTP port to listen on
	DBUser           string // database username
	DBPass           string // database password (optional)
	DBHost           string // database host address
	DBPort           string // database port number
	DBName           string // database name
	ActivationSecret string // secret for signup activation tokens
	AccessSecret     string // secret for access tokens
	RefreshSecret    string // secret for refresh tokens
	AccessTTLMin     int    // access token time-to-live in minutes
	RefreshTTLDays   int    // refresh token time-to-live in days
	SessionTTLDays   int    // session cache entry lifetime (0 = no expiry)
	BcryptCost       int    // bcrypt cost for password hashing
	ResendAPIKey     string // Resend API key for activation email (optional)
	EmailFrom        string // sender address for outbound email
}

// Load reads configuration values from environment variables. Required
// variables are enforced by must() and missing values cause the program to
// exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"),
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		ActivationSecret: must("ACTIVATION_SECRET"),
		AccessSecret:     must("ACCESS_TOKEN_SECRET"),
		RefreshSecret:    must("REFRESH_TOKEN_SECRET"),
		AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:   mustInt("REFRESH_TOKEN_TTL_DAYS"),
		SessionTTLDays:   atoi(getenv("SESSION_TTL_DAYS", "0")),
		BcryptCost:       mustInt("BCRYPT_COST"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		EmailFrom:        getenv("EMAIL_FROM", "no-reply@localhost"),
	}
}

// AccessTTL returns the access token lifetime as a duration.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMin) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a duration.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// SessionTTL returns the session cache lifetime; zero means entries live
// until logout deletes them.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLDays) * 24 * time.Hour
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

// parseDur parses a duration for optional settings with defaults. Unlike
// mustInt it cannot be fatal, but a typo should not degrade silently.
func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("config: invalid duration %q, using 1s", s)
		return time.Second
	}
	return d
}
