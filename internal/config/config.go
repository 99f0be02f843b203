package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Backend the API client talks to
	API APIConfig

	// Credential storage
	Credentials CredentialsConfig

	// Logging configuration
	Logging LoggingConfig

	// Development backend (cmd/devbackend only)
	DevBackend DevBackendConfig
}

// ServerConfig holds web UI configuration
type ServerConfig struct {
	Port        string
	TemplateDir string
	StaticDir   string
}

// APIConfig holds backend configuration
type APIConfig struct {
	BaseURL string
}

// CredentialsConfig holds where and how the bearer token is kept
type CredentialsConfig struct {
	Path   string
	Secret string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// DevBackendConfig holds settings for the in-memory development backend
type DevBackendConfig struct {
	Port         string
	JWTSecret    string
	DemoEmail    string
	DemoPassword string
}

// Load reads configuration from the environment, after loading the given
// .env files (default ".env"). Missing files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			TemplateDir: getEnv("TEMPLATE_DIR", "web/templates"),
			StaticDir:   getEnv("STATIC_DIR", "web/static"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		},
		Credentials: CredentialsConfig{
			Path:   getEnv("CREDENTIALS_PATH", "credentials.db"),
			Secret: getEnv("CREDENTIALS_SECRET", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		DevBackend: DevBackendConfig{
			Port:         getEnv("BACKEND_PORT", "8000"),
			JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
			DemoEmail:    getEnv("DEMO_EMAIL", "demo@example.com"),
			DemoPassword: getEnv("DEMO_PASSWORD", "password"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
