package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AuthModeClaims = "claims"
	AuthModeDigest = "digest"

	StorageFS  = "fs"
	StorageGCS = "gcs"
)

type Config struct {
	Server struct {
		Address      string `mapstructure:"address"`
		Port         string `mapstructure:"port"`
		CookieSecure bool   `mapstructure:"cookie_secure"`
	} `mapstructure:"server"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"logs"`

	Database struct {
		Driver string `mapstructure:"driver"` // sqlite | postgres | mysql
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Auth AuthConfig `mapstructure:"auth"`

	CORS struct {
		Origins string `mapstructure:"origins"` // comma separated
	} `mapstructure:"cors"`

	Storage struct {
		Driver      string `mapstructure:"driver"` // fs | gcs
		Root        string `mapstructure:"root"`
		PublicURL   string `mapstructure:"public_url"`
		Bucket      string `mapstructure:"bucket"`
		MaxUploadMB int64  `mapstructure:"max_upload_mb"`
	} `mapstructure:"storage"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
		Notify   string `mapstructure:"notify"`
	} `mapstructure:"smtp"`

	RateLimit struct {
		LoginPerMinute  int `mapstructure:"login_per_minute"`
		SubmitPerMinute int `mapstructure:"submit_per_minute"`
	} `mapstructure:"ratelimit"`
}

type AuthConfig struct {
	Mode          string `mapstructure:"mode"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	SessionSecret string `mapstructure:"session_secret"`
}

// Secret returns the key used to sign session tokens. The digest mode keys
// on the admin password; the claims mode prefers SESSION_SECRET and falls
// back to the admin password.
func (a AuthConfig) Secret() string {
	if a.Mode == AuthModeDigest {
		return a.AdminPassword
	}
	if a.SessionSecret != "" {
		return a.SessionSecret
	}
	return a.AdminPassword
}

// Origins splits the CORS allow-list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Address + ":" + c.Server.Port
}

// env names that predate the dotted keys and are kept for existing deployments.
var envNames = map[string]string{
	"server.address":              "SERVER_ADDRESS",
	"server.port":                 "PORT",
	"server.cookie_secure":        "COOKIE_SECURE",
	"logs.level":                  "LOG_LEVEL",
	"logs.format":                 "LOG_FORMAT",
	"logs.file":                   "LOG_FILE",
	"database.driver":             "DATABASE_DRIVER",
	"database.dsn":                "DATABASE_URL",
	"auth.mode":                   "AUTH_MODE",
	"auth.admin_email":            "ADMIN_EMAIL",
	"auth.admin_password":         "ADMIN_PASSWORD",
	"auth.session_secret":         "SESSION_SECRET",
	"cors.origins":                "CORS_ORIGINS",
	"storage.driver":              "STORAGE_DRIVER",
	"storage.root":                "MEDIA_ROOT",
	"storage.public_url":          "MEDIA_PUBLIC_URL",
	"storage.bucket":              "GCS_BUCKET",
	"storage.max_upload_mb":       "MAX_UPLOAD_MB",
	"smtp.host":                   "SMTP_HOST",
	"smtp.port":                   "SMTP_PORT",
	"smtp.user":                   "SMTP_USER",
	"smtp.password":               "SMTP_PASSWORD",
	"smtp.from":                   "SMTP_FROM",
	"smtp.notify":                 "NOTIFY_EMAIL",
	"ratelimit.login_per_minute":  "LOGIN_RATE_LIMIT",
	"ratelimit.submit_per_minute": "SUBMIT_RATE_LIMIT",
}

// Load reads configuration from .env, the environment and an optional
// YAML file named by CONFIG_FILE, in increasing order of precedence for
// the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.cookie_secure", false)

	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.format", "text")
	v.SetDefault("logs.file", "")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "paperpaints.db")

	v.SetDefault("auth.mode", AuthModeClaims)
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.session_secret", "")

	v.SetDefault("cors.origins", "http://localhost:3000")

	v.SetDefault("storage.driver", StorageFS)
	v.SetDefault("storage.root", "./media")
	v.SetDefault("storage.public_url", "/media")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.max_upload_mb", 10)

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.notify", "")

	v.SetDefault("ratelimit.login_per_minute", 10)
	v.SetDefault("ratelimit.submit_per_minute", 20)

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	cfg.Auth.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.Auth.AdminEmail))
	cfg.Auth.Mode = strings.ToLower(strings.TrimSpace(cfg.Auth.Mode))

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load for process startup, where a bad configuration is fatal.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func validate(c *Config) error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("database.driver %q is not supported (sqlite|postgres|mysql)", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn must not be empty")
	}
	switch c.Auth.Mode {
	case AuthModeClaims, AuthModeDigest:
	default:
		return fmt.Errorf("auth.mode %q is not supported (claims|digest)", c.Auth.Mode)
	}
	switch c.Storage.Driver {
	case StorageFS:
		if strings.TrimSpace(c.Storage.Root) == "" {
			return errors.New("storage.root must not be empty")
		}
	case StorageGCS:
		if strings.TrimSpace(c.Storage.Bucket) == "" {
			return errors.New("storage.bucket must be set for the gcs driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported (fs|gcs)", c.Storage.Driver)
	}
	if c.Storage.MaxUploadMB <= 0 {
		return errors.New("storage.max_upload_mb must be positive")
	}
	if c.RateLimit.LoginPerMinute <= 0 || c.RateLimit.SubmitPerMinute <= 0 {
		return errors.New("rate limits must be positive")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port must not be empty")
	}
	return nil
}
