// Package config reads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Port the HTTP server listens on.
	Port int
	// SQLiteDSN locates the database file.
	SQLiteDSN string
	// CORSOrigin is the browser origin allowed to call the API.
	CORSOrigin string
	// AdminPasswordHash is a bcrypt hash guarding catalog mutations.
	// Empty disables the gate.
	AdminPasswordHash string
}

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:       8080,
		SQLiteDSN:  "file:reservations.db",
		CORSOrigin: "http://localhost:5173",
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(os.Getenv("SQLITE_DSN")); v != "" {
		cfg.SQLiteDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGIN")); v != "" {
		cfg.CORSOrigin = v
	}
	cfg.AdminPasswordHash = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))

	return cfg, nil
}
