package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr           string
	GinMode           string
	DBDSN             string
	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	CORSOrigins       []string
}

// LoadEnv reads configuration from the environment, with .env support for
// local development. Missing keys fall back to development defaults.
func LoadEnv() Env {
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	adminPassword := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))

	secret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if secret == "" {
		// The admin password doubles as the signing key when no dedicated
		// secret is configured.
		secret = adminPassword
	}
	if secret == "" {
		secret = "default-secret-key"
	}

	var origins []string
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}

	return Env{
		AppAddr:           appAddr,
		GinMode:           strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		AdminPassword:     adminPassword,
		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		SessionSecret:     secret,
		CORSOrigins:       origins,
	}
}
