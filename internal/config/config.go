package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full service configuration, read from a YAML file with
// environment variable overrides.
type Config struct {
	Env      string `yaml:"env" env:"KIOSKFLOW_ENV" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"KIOSKFLOW_LOG_LEVEL" env-default:"info"`

	FlowsDir      string `yaml:"flows_dir" env:"KIOSKFLOW_FLOWS_DIR" env-default:"flows"`
	DefaultLocale string `yaml:"default_locale" env:"KIOSKFLOW_DEFAULT_LOCALE" env-default:"en"`

	Listen struct {
		BindIP string `yaml:"bind_ip" env:"KIOSKFLOW_BIND_IP" env-default:"0.0.0.0"`
		Port   string `yaml:"port" env:"KIOSKFLOW_PORT" env-default:"8080"`
	} `yaml:"listen"`

	Redis struct {
		Enabled    bool          `yaml:"enabled" env:"KIOSKFLOW_REDIS_ENABLED" env-default:"false"`
		Address    string        `yaml:"address" env:"KIOSKFLOW_REDIS_ADDRESS" env-default:"127.0.0.1:6379"`
		Password   string        `yaml:"password" env:"KIOSKFLOW_REDIS_PASSWORD" env-default:""`
		DB         int           `yaml:"db" env:"KIOSKFLOW_REDIS_DB" env-default:"0"`
		SessionTTL time.Duration `yaml:"session_ttl" env:"KIOSKFLOW_REDIS_SESSION_TTL" env-default:"2h"`
	} `yaml:"redis"`

	// Collaborators are the external delivery services. Empty base URL
	// disables the corresponding endpoint.
	Email struct {
		BaseURL string `yaml:"base_url" env:"KIOSKFLOW_EMAIL_URL" env-default:""`
		From    string `yaml:"from" env:"KIOSKFLOW_EMAIL_FROM" env-default:"selfhelp@court.local"`
		// AutoSendField names the answer holding the visitor's address.
		// When set, completed sessions are mailed without an explicit
		// email request.
		AutoSendField string `yaml:"auto_send_field" env:"KIOSKFLOW_EMAIL_AUTO_SEND_FIELD" env-default:""`
	} `yaml:"email"`
	PDF struct {
		BaseURL string `yaml:"base_url" env:"KIOSKFLOW_PDF_URL" env-default:""`
	} `yaml:"pdf"`
	Queue struct {
		BaseURL string `yaml:"base_url" env:"KIOSKFLOW_QUEUE_URL" env-default:""`
	} `yaml:"queue"`
	ClientTimeout time.Duration `yaml:"client_timeout" env:"KIOSKFLOW_CLIENT_TIMEOUT" env-default:"10s"`

	// Privacy controls at-rest protection of session state. The keys are
	// base64-encoded 32-byte AES-256 keys.
	Privacy struct {
		EncryptionKey string   `yaml:"encryption_key" env:"KIOSKFLOW_ENCRYPTION_KEY" env-default:""`
		FallbackKeys  []string `yaml:"fallback_keys" env:"KIOSKFLOW_FALLBACK_KEYS" env-separator:","`
		PIIPatterns   []string `yaml:"pii_patterns" env:"KIOSKFLOW_PII_PATTERNS" env-separator:","`
	} `yaml:"privacy"`
}

// Load reads configuration from path, or from environment only when the file
// does not exist. Unlike a package-level singleton, every call builds a fresh
// value; the caller owns it.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				desc, _ := cleanenv.GetDescription(cfg, nil)
				return nil, fmt.Errorf("failed to read config %s: %w; %s", path, err, desc)
			}
			return cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return c.Listen.BindIP + ":" + c.Listen.Port
}
