package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDev  = "DEV"
	EnvTest = "TEST"
	EnvProd = "PROD"
)

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Postgres  PostgresConfig
	Superuser SuperuserConfig
	OIDC      OIDCConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	Environment  string
	CORSOrigins  []string
	AllowedHosts []string
}

// AuthConfig keeps raw values; they are parsed and validated by the
// constructors that consume them.
type AuthConfig struct {
	SecretKey    string
	AccessTTL    string
	RefreshTTL   string
	BcryptRounds string
	HashWorkers  string
	AllowSignup  string
	CookieSecure string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type SuperuserConfig struct {
	Email    string
	Name     string
	Password string
}

type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Host:         getenv("SERVER_HOST", "0.0.0.0"),
			Port:         getenv("SERVER_PORT", "8000"),
			Environment:  strings.ToUpper(getenv("ENVIRONMENT", EnvDev)),
			CORSOrigins:  splitList(os.Getenv("BACKEND_CORS_ORIGINS")),
			AllowedHosts: splitList(getenv("ALLOWED_HOSTS", "localhost,127.0.0.1")),
		},
		Auth: AuthConfig{
			SecretKey:    os.Getenv("SECRET_KEY"),
			AccessTTL:    getenv("JWT_ACCESS_TTL", "24h"),
			RefreshTTL:   getenv("JWT_REFRESH_TTL", "168h"),
			BcryptRounds: getenv("SECURITY_BCRYPT_ROUNDS", "12"),
			HashWorkers:  os.Getenv("HASH_WORKERS"),
			AllowSignup:  getenv("ALLOW_SIGNUP", "true"),
			CookieSecure: os.Getenv("AUTH_COOKIE_SECURE"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Superuser: SuperuserConfig{
			Email:    os.Getenv("FIRST_SUPERUSER_EMAIL"),
			Name:     getenv("FIRST_SUPERUSER_NAME", "admin"),
			Password: os.Getenv("FIRST_SUPERUSER_PASSWORD"),
		},
		OIDC: OIDCConfig{
			IssuerURL:    os.Getenv("OIDC_ISSUER_URL"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
	}
}

func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func (c ServerConfig) IsProduction() bool {
	return c.Environment == EnvProd
}

// Configured reports whether enough settings are present to reach a database.
func (c PostgresConfig) Configured() bool {
	return c.DatabaseURL != "" || (c.User != "" && c.Database != "")
}

func (c OIDCConfig) Enabled() bool {
	return c.IssuerURL != ""
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
