package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values shared by the app and register services.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	RegisterPort    string
	FirebaseAPIKey  string
	FirebaseDBURL   string
	CredentialsFile string
	IdentityBaseURL string
	SessionSecret   string
	SessionTTL      time.Duration
	RedisURL        string
	CookieName      string
}

// HTTPAddress returns the address the main application server should listen on.
func (c Config) HTTPAddress() string {
	return listenAddress(c.AppPort)
}

// RegisterAddress returns the address the registration server should listen on.
func (c Config) RegisterAddress() string {
	return listenAddress(c.RegisterPort)
}

func listenAddress(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}

	return fmt.Sprintf(":%s", port)
}

// Load reads configuration values from environment variables and optional .env file.
// The Firebase endpoints, service-account credentials, session secret and Redis URL
// are mandatory; the process must not start without them.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ACCOMNOTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Accomnote")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("register.port", "5001")
	v.SetDefault("identity.base_url", "https://identitytoolkit.googleapis.com/v1")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie", "accomnote_session")

	ttlString := v.GetString("session.ttl")
	if ttlString == "" {
		ttlString = "24h"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		RegisterPort:    v.GetString("register.port"),
		FirebaseAPIKey:  v.GetString("firebase.api_key"),
		FirebaseDBURL:   strings.TrimRight(v.GetString("firebase.db_url"), "/"),
		CredentialsFile: v.GetString("google.credentials"),
		IdentityBaseURL: strings.TrimRight(v.GetString("identity.base_url"), "/"),
		SessionSecret:   v.GetString("session.secret"),
		SessionTTL:      ttl,
		RedisURL:        v.GetString("redis.url"),
		CookieName:      v.GetString("session.cookie"),
	}

	if cfg.FirebaseAPIKey == "" || cfg.FirebaseDBURL == "" {
		return Config{}, fmt.Errorf("firebase api key and db url must be provided")
	}

	if cfg.CredentialsFile == "" {
		return Config{}, fmt.Errorf("google service-account credentials file must be provided")
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("session secret must be provided")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("redis url must be provided")
	}

	return cfg, nil
}
