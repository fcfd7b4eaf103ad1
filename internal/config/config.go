package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Storage    string     `yaml:"storage" env:"STORAGE" env-default:"postgres"`
	Database   Database   `yaml:"database"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Pricing    Pricing    `yaml:"pricing"`
	Booking    Booking    `yaml:"booking"`
	Auth       Auth       `yaml:"auth"`
	Mail       Mail       `yaml:"mail"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-default:"domio"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateLimit   float64       `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst   int           `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy" env:"HTTP_TRUST_PROXY" env-default:"false"`
}

// Pricing holds the marketplace commission parameters.
type Pricing struct {
	MinimumFee float64 `yaml:"minimum_fee" env:"PRICING_MINIMUM_FEE"`
	FeeRate    float64 `yaml:"fee_rate" env:"PRICING_FEE_RATE"`
}

type Booking struct {
	// RequirePayment creates bookings as pending; they are confirmed by a
	// separate payment call. Otherwise bookings are confirmed on creation.
	RequirePayment     bool    `yaml:"require_payment" env:"BOOKING_REQUIRE_PAYMENT" env-default:"false"`
	PaymentSuccessRate float64 `yaml:"payment_success_rate" env:"BOOKING_PAYMENT_SUCCESS_RATE"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
}

type Mail struct {
	Enabled  bool   `yaml:"enabled" env:"MAIL_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"MAIL_FROM" env-default:"no-reply@domio.local"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, err
	}

	cfg := defaults()

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// defaults covers the numeric settings where zero is a meaningful value.
// cleanenv's env-default would overwrite an explicit zero from the file, so
// these are preset before the file is decoded on top.
func defaults() Config {
	return Config{
		HTTPServer: HTTPServer{
			RateLimit: 10,
			RateBurst: 20,
		},
		Pricing: Pricing{
			MinimumFee: 50,
			FeeRate:    0.05,
		},
		Booking: Booking{
			PaymentSuccessRate: 0.8,
		},
	}
}
