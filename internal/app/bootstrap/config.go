package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string
	HTTPPort  int
	GRPCPort  int

	Theme    string
	SiteName string
	Tagline  string
	Contact  string

	StorageBackend string
	DatabaseURL    string
	RedisURL       string
	DataDir        string
	MaxDBConns     int

	SessionTTL        time.Duration
	BcryptCost        int
	JWTKeyID          string
	JWTPrivateKeyPEM  string
	JWTPublicKeyPEM   string
	AllowEphemeralJWT bool

	NotifyBackend    string
	NotifyServiceID  string
	NotifyTemplateID string
	NotifyPublicKey  string
	NotifyAPIBaseURL string
	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPassword     string
	SMTPFrom         string
	SMTPTo           string
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Site struct {
		Theme   string `yaml:"theme"`
		Name    string `yaml:"name"`
		Tagline string `yaml:"tagline"`
		Contact string `yaml:"contact"`
	} `yaml:"site"`
	Storage struct {
		Backend     string `yaml:"backend"`
		DatabaseURL string `yaml:"database_url"`
		RedisURL    string `yaml:"redis_url"`
		DataDir     string `yaml:"data_dir"`
	} `yaml:"storage"`
	Auth struct {
		SessionTTLHours int    `yaml:"session_ttl_hours"`
		BcryptCost      int    `yaml:"bcrypt_cost"`
		JWTKeyID        string `yaml:"jwt_key_id"`
		AllowEphemeral  *bool  `yaml:"allow_ephemeral_jwt"`
	} `yaml:"auth"`
	Notify struct {
		Backend    string `yaml:"backend"`
		ServiceID  string `yaml:"service_id"`
		TemplateID string `yaml:"template_id"`
		PublicKey  string `yaml:"public_key"`
		APIBaseURL string `yaml:"api_base_url"`
	} `yaml:"notify"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:         "client-portal",
		HTTPPort:          8080,
		GRPCPort:          9090,
		Theme:             "dark",
		SiteName:          "Joseph Robinson — Web Development",
		Tagline:           "Freelance web development for small businesses",
		StorageBackend:    "memory",
		SessionTTL:        24 * time.Hour,
		JWTKeyID:          "portal-key-1",
		AllowEphemeralJWT: true,
		NotifyBackend:     "none",
		NotifyTemplateID:  "ticket_created",
	}
	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Site.Theme != "" {
			cfg.Theme = f.Site.Theme
		}
		if f.Site.Name != "" {
			cfg.SiteName = f.Site.Name
		}
		if f.Site.Tagline != "" {
			cfg.Tagline = f.Site.Tagline
		}
		cfg.Contact = f.Site.Contact
		if f.Storage.Backend != "" {
			cfg.StorageBackend = f.Storage.Backend
		}
		cfg.DatabaseURL = f.Storage.DatabaseURL
		cfg.RedisURL = f.Storage.RedisURL
		cfg.DataDir = f.Storage.DataDir
		if f.Auth.SessionTTLHours > 0 {
			cfg.SessionTTL = time.Duration(f.Auth.SessionTTLHours) * time.Hour
		}
		cfg.BcryptCost = f.Auth.BcryptCost
		if f.Auth.JWTKeyID != "" {
			cfg.JWTKeyID = f.Auth.JWTKeyID
		}
		if f.Auth.AllowEphemeral != nil {
			cfg.AllowEphemeralJWT = *f.Auth.AllowEphemeral
		}
		if f.Notify.Backend != "" {
			cfg.NotifyBackend = f.Notify.Backend
		}
		cfg.NotifyServiceID = f.Notify.ServiceID
		if f.Notify.TemplateID != "" {
			cfg.NotifyTemplateID = f.Notify.TemplateID
		}
		cfg.NotifyPublicKey = f.Notify.PublicKey
		cfg.NotifyAPIBaseURL = f.Notify.APIBaseURL
	}

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.Theme = envOrDefault("SITE_THEME", cfg.Theme)
	cfg.StorageBackend = envOrDefault("STORAGE_BACKEND", cfg.StorageBackend)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.DataDir = envOrDefault("DATA_DIR", cfg.DataDir)
	cfg.MaxDBConns = envInt("MAX_DB_CONNS", cfg.MaxDBConns)
	cfg.SessionTTL = time.Duration(envInt("SESSION_TTL_HOURS", int(cfg.SessionTTL.Hours()))) * time.Hour
	cfg.BcryptCost = envInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.JWTKeyID = envOrDefault("JWT_KEY_ID", cfg.JWTKeyID)
	cfg.JWTPrivateKeyPEM = os.Getenv("JWT_PRIVATE_KEY_PEM")
	cfg.JWTPublicKeyPEM = os.Getenv("JWT_PUBLIC_KEY_PEM")
	cfg.NotifyBackend = envOrDefault("NOTIFY_BACKEND", cfg.NotifyBackend)
	cfg.NotifyServiceID = envOrDefault("NOTIFY_SERVICE_ID", cfg.NotifyServiceID)
	cfg.NotifyTemplateID = envOrDefault("NOTIFY_TEMPLATE_ID", cfg.NotifyTemplateID)
	cfg.NotifyPublicKey = envOrDefault("NOTIFY_PUBLIC_KEY", cfg.NotifyPublicKey)
	cfg.NotifyAPIBaseURL = envOrDefault("NOTIFY_API_BASE_URL", cfg.NotifyAPIBaseURL)
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = envOrDefault("SMTP_PORT", "587")
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = os.Getenv("SMTP_FROM")
	cfg.SMTPTo = os.Getenv("SMTP_TO")
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
