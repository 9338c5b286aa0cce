package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	Port          int
	SessionSecret string
	OrderTimeout  time.Duration

	DB    DBConfig
	Redis RedisConfig
	OIDC  OIDCConfig
	Email EmailConfig
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Africa/Nairobi",
		c.Host, c.User, c.Password, c.Name, c.Port,
	)
}

type RedisConfig struct {
	Addr string
}

type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type EmailConfig struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	SenderEmail        string
}

// Load reads configuration from the environment. In local development a
// .env.local file is loaded first so the shell stays clean.
func Load() Config {
	appEnv := getEnvOrDefault("APP_ENV", "development")
	if appEnv == "local" {
		if err := godotenv.Load(".env.local"); err != nil {
			log.Printf("Warning: .env.local not loaded: %v. Relying on system environment variables.", err)
		}
	}

	return Config{
		AppEnv:        appEnv,
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		Port:          getEnvInt("PORT", 8080),
		SessionSecret: getEnvOrDefault("SESSION_SECRET", "change-me"),
		OrderTimeout:  getEnvDuration("ORDER_TIMEOUT", 5*time.Second),
		DB: DBConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			User:     getEnvOrDefault("POSTGRES_USER", "pharmacy"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "pharmacy"),
			Name:     getEnvOrDefault("POSTGRES_DB", "pharmacy_system"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
		},
		Redis: RedisConfig{
			Addr: getEnvOrDefault("REDIS_ADDR", ""),
		},
		OIDC: OIDCConfig{
			Issuer:       os.Getenv("OIDC_ISSUER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
		Email: EmailConfig{
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			AWSRegion:          getEnvOrDefault("AWS_REGION", "us-east-1"),
			SenderEmail:        os.Getenv("AWS_SENDER_ADDRESS"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
