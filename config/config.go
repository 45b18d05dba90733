package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName      string `env:"APP_NAME" envDefault:"ggp-api"`
	AppEnv       string `env:"APP_ENV" envDefault:"local"`
	HTTPHost     string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort     string `env:"HTTP_PORT" envDefault:"3000"`
	HTTPBasePath string `env:"HTTP_BASE_PATH" envDefault:""`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"app"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"app_password"`
	DBName     string `env:"DB_NAME" envDefault:"ggp"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTSecret        string        `env:"JWT_SECRET"`
	AccessTTL        time.Duration `env:"JWT_EXPIRES_IN" envDefault:"15m"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_TOKEN_SECRET"`
	RefreshTTL       time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRATION" envDefault:"168h"`
	RefreshCookieTTL time.Duration `env:"REFRESH_COOKIE_TTL" envDefault:"168h"`

	DefaultRole string   `env:"DEFAULT_ROLE" envDefault:"user"`
	// signups with these emails are given the admin role
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryBaseURL   string `env:"CLOUDINARY_BASE_URL" envDefault:"https://api.cloudinary.com/v1_1"`

	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	NATSURL                    string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSVerifySubject          string `env:"NATS_SUBJECT_VERIFY_JWT" envDefault:"auth.verifyJWT"`
	NATSIdentityCreatedSubject string `env:"NATS_SUBJECT_IDENTITY_CREATED" envDefault:"identity.created"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:3000/auth/google/callback"`

	// requests per second per client IP on /auth; 0 disables the limiter
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"20"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
