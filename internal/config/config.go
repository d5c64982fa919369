package config

import (
	"errors"
	"os"

	"github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	HTTPAddr          string   `env:"HTTP_ADDR" envDefault:":8080"`
	BaseURL           string   `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DBDSN             string   `env:"DB_DSN"`
	JWTSecret         string   `env:"JWT_SECRET" envDefault:"stockease_dev_secret"`
	AllowRegistration bool     `env:"ALLOW_REGISTRATION" envDefault:"false"`
	AllowedOrigins    []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
	GeminiAPIKey      string   `env:"GEMINI_API_KEY"`

	// SMTP (reminder mail)
	MailerHost     string `env:"MAILER_HOST"`
	MailerPort     int    `env:"MAILER_PORT" envDefault:"587"`
	MailerLogin    string `env:"MAILER_LOGIN"`
	MailerPassword string `env:"MAILER_PASSWORD"`
	MailerFrom     string `env:"MAILER_FROM"`
	MailerFromName string `env:"MAILER_FROM_NAME" envDefault:"Stock8Ease"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (Config, error) {
	var c Config

	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}

	return c, nil
}
