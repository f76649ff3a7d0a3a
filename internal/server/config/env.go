package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; variables already set in
// the process environment win over the file.
//
// Recognized variables:
//
//	ADDRESS       HTTP bind address (e.g. ":8080")
//	DATABASE_DSN  PostgreSQL DSN
//	JWT_SECRET    HMAC secret for token signing
//	TOKEN_TTL     token lifetime, time.ParseDuration format (e.g. "24h")
//	BCRYPT_COST   bcrypt work factor
//
// Malformed values are ignored rather than fatal so that a stray variable
// cannot prevent startup with defaults.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok && v != "" {
		config.Address = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
}
