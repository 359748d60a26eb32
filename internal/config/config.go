package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("auth-gateway version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Google  GoogleConfig  `mapstructure:"google"`
	Client  ClientConfig  `mapstructure:"client"`
}

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Timeout string `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// JWTConfig holds the session token signing parameters. The key is loaded
// once at startup and shared read-only; it must never be logged.
type JWTConfig struct {
	Key      string `mapstructure:"key"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
	Hours    int    `mapstructure:"hours"`
}

// Lifetime returns the configured session token lifetime.
func (c *JWTConfig) Lifetime() time.Duration {
	return time.Duration(c.Hours) * time.Hour
}

// GoogleConfig holds the provider-issued OAuth client credentials.
type GoogleConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	Scopes       []string `mapstructure:"scopes"`
}

// ClientConfig describes the browser caller. Origin doubles as the OAuth
// redirect URI and as the CORS allow-list entry.
type ClientConfig struct {
	Origin string `mapstructure:"origin"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.String("server.host", "", "Server host")
	pflag.Int("server.port", 0, "Server port")
	pflag.String("logging.level", "", "Log level (debug|info|warn|error)")
	// Note: no pflag.Parse() here as it's called in main.go
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("AUTH_GATEWAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("jwt.hours", 2)
	viper.SetDefault("google.scopes", []string{"openid", "profile", "email"})

	// Required keys default to empty so env-only deployments survive
	// viper.Unmarshal; validate() enforces presence after the merge.
	for _, key := range []string{
		"jwt.key", "jwt.issuer", "jwt.audience",
		"google.client_id", "google.client_secret", "client.origin",
	} {
		viper.SetDefault(key, "")
	}

	// Load ./config.yaml first
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AddConfigPath("/etc/auth-gateway")

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; env vars and flags can carry everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"jwt.key", c.JWT.Key},
		{"jwt.issuer", c.JWT.Issuer},
		{"jwt.audience", c.JWT.Audience},
		{"google.client_id", c.Google.ClientID},
		{"google.client_secret", c.Google.ClientSecret},
		{"client.origin", c.Client.Origin},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			envKey := strings.ToUpper(strings.ReplaceAll(r.key, ".", "_"))
			return fmt.Errorf("%s is required, please adjust the config or set the AUTH_GATEWAY_%s environment variable", r.key, envKey)
		}
	}
	if c.JWT.Hours <= 0 {
		return fmt.Errorf("jwt.hours must be positive, got %d", c.JWT.Hours)
	}
	return nil
}
