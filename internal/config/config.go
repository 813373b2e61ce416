// Package config holds the site configuration. Values come from a profile
// preset overridden by environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
)

type Profile string

const (
	Development Profile = "development"
	Production  Profile = "production"
	Staging     Profile = "staging"
	Testing     Profile = "testing"
)

const (
	AppName    = "Kusse Tech Studio"
	AppVersion = "2.0.0"

	defaultSecretKey = "dev-secret-key-change-in-production"
)

func (p Profile) Valid() bool {
	switch p {
	case Development, Production, Staging, Testing:
		return true
	}
	return false
}

type Mail struct {
	Host         string `env:"MAIL_SERVER"`
	Port         int    `env:"MAIL_PORT"`
	Username     string `env:"MAIL_USERNAME"`
	Password     string `env:"MAIL_PASSWORD"`
	UseTLS       bool   `env:"MAIL_USE_TLS"`
	Sender       string `env:"MAIL_DEFAULT_SENDER"`
	SuppressSend bool   `env:"MAIL_SUPPRESS_SEND"`
}

// Addr is host:port of the SMTP server.
func (m Mail) Addr() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

type Config struct {
	Profile Profile `env:"APP_ENV"`

	// Debug and Testing are set by the profile only.
	Debug   bool
	Testing bool

	SecretKey string `env:"SECRET_KEY"`
	Host      string `env:"HOST"`
	Port      int    `env:"PORT"`
	BaseURL   string `env:"BASE_URL"`
	StaticDir string `env:"STATIC_DIR"`

	GoogleAnalyticsID string `env:"GOOGLE_ANALYTICS_ID"`
	ContactEmail      string `env:"CONTACT_EMAIL"`
	Mail              Mail

	GitHubToken  string `env:"GITHUB_TOKEN"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	// AnalyticsDB is the sqlite file for analytics; empty disables recording.
	AnalyticsDB string `env:"ANALYTICS_DB"`

	LogFile  string `env:"LOG_FILE"`
	LogLevel string `env:"LOG_LEVEL"`

	OutboundTimeout time.Duration `env:"OUTBOUND_TIMEOUT"`
	StartupTime     time.Time
}

// Defaults returns the preset for profile.
func Defaults(profile Profile) Config {
	cfg := Config{
		Profile:         profile,
		SecretKey:       defaultSecretKey,
		Port:            8080,
		StaticDir:       "static",
		ContactEmail:    "contact@kussetech.com",
		LogLevel:        "info",
		OutboundTimeout: 10 * time.Second,
		Mail: Mail{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}

	switch profile {
	case Development:
		cfg.Debug = true
		cfg.LogLevel = "debug"
		cfg.Mail = Mail{Host: "localhost", Port: 1025}
	case Production:
		cfg.Mail.UseTLS = true
		cfg.Host = "0.0.0.0"
		cfg.LogFile = "logs/app.log"
	case Staging:
		cfg.Debug = true
		cfg.Testing = true
		cfg.Mail.UseTLS = true
		cfg.Host = "0.0.0.0"
		cfg.LogFile = "logs/app.log"
	case Testing:
		cfg.Testing = true
		cfg.SecretKey = "test-secret-key-change-in-prod"
		cfg.Mail.SuppressSend = true
		cfg.LogLevel = "warn"
	}
	return cfg
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(environ())
}

// LoadFrom builds a Config from the given environment. The profile named by
// APP_ENV supplies defaults; any other variable that is set wins over them.
func LoadFrom(environment map[string]string) (Config, error) {
	profile := Profile(strings.ToLower(strings.TrimSpace(environment["APP_ENV"])))
	if profile == "" {
		profile = Development
	}

	cfg := Defaults(profile)
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Profile = profile
	cfg.StartupTime = time.Now().UTC()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if !c.Profile.Valid() {
		result = multierror.Append(result, fmt.Errorf("unknown profile %q", c.Profile))
	}
	if c.Port < 1 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Profile == Production && (c.SecretKey == "" || c.SecretKey == defaultSecretKey) {
		result = multierror.Append(result, fmt.Errorf("SECRET_KEY must be set in production"))
	}
	if c.OutboundTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("outbound timeout must be positive, got %s", c.OutboundTimeout))
	}
	if c.Mail.Port < 0 || c.Mail.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("mail port %d out of range", c.Mail.Port))
	}

	return result.ErrorOrNil()
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MailEnabled reports whether contact messages can be delivered.
func (c Config) MailEnabled() bool {
	return !c.Mail.SuppressSend && c.Mail.Host != "" && c.ContactEmail != ""
}

func environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
