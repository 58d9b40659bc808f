package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	Mail struct {
		Provider string // "" disables outbound mail
		APIKey   string
		From     string
	}
	Slug struct {
		// AssumeTakenOnError makes the allocator treat an erroring
		// availability probe as a collision instead of aborting.
		AssumeTakenOnError bool
	}
	// BaseURL is the public origin used in notification links,
	// e.g. https://undang.example.com
	BaseURL         string
	AdminEmail      string
	SessionLifetime time.Duration
	InsecureCookies bool
}

// Load reads config from environment (UNDANG_ prefix) and optional undang.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("UNDANG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("undang")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("base_url", "http://localhost:8080")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.Mail.Provider = v.GetString("mail.provider")
	cfg.Mail.APIKey = v.GetString("mail.api_key")
	cfg.Mail.From = v.GetString("mail.from")
	cfg.Slug.AssumeTakenOnError = v.GetBool("slug.assume_taken_on_error")
	cfg.BaseURL = strings.TrimSuffix(v.GetString("base_url"), "/")
	cfg.AdminEmail = v.GetString("admin_email")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid UNDANG_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("UNDANG_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("UNDANG_DB_DSN is required")
	}
	if cfg.OIDC.Issuer == "" {
		return nil, fmt.Errorf("UNDANG_OIDC_ISSUER is required")
	}
	if cfg.OIDC.ClientID == "" {
		return nil, fmt.Errorf("UNDANG_OIDC_CLIENT_ID is required")
	}
	if cfg.OIDC.ClientSecret == "" {
		return nil, fmt.Errorf("UNDANG_OIDC_CLIENT_SECRET is required")
	}
	if cfg.OIDC.RedirectURL == "" {
		return nil, fmt.Errorf("UNDANG_OIDC_REDIRECT_URL is required")
	}
	if cfg.Mail.Provider != "" && cfg.Mail.APIKey == "" {
		return nil, fmt.Errorf("UNDANG_MAIL_API_KEY is required when a mail provider is set")
	}

	return cfg, nil
}
