package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// WhatsApp Calendar Bot specifics
	WhatsApp  WhatsAppConfig
	Anthropic AnthropicConfig
	Google    GoogleConfig
	Database  DatabaseConfig
	Bot       BotConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type WhatsAppConfig struct {
	AccessToken     string
	PhoneNumberID   string
	BotPhoneNumber  string
	VerifyToken     string
	AppSecret       string
	RateLimitPerMin int
}

type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

type DatabaseConfig struct {
	Path string
}

type BotConfig struct {
	// BaseURL is the public URL of this service, used for OAuth
	// redirects and auth links sent over chat.
	BaseURL string

	// Timezone used for naive datetimes and the system prompt clock.
	Timezone string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// WhatsApp Cloud API
	cfg.WhatsApp.AccessToken = viper.GetString("whatsapp.access_token")
	cfg.WhatsApp.PhoneNumberID = viper.GetString("whatsapp.phone_number_id")
	cfg.WhatsApp.BotPhoneNumber = viper.GetString("whatsapp.bot_phone_number")
	cfg.WhatsApp.VerifyToken = viper.GetString("whatsapp.verify_token")
	cfg.WhatsApp.AppSecret = viper.GetString("whatsapp.app_secret")
	cfg.WhatsApp.RateLimitPerMin = viper.GetInt("whatsapp.rate_limit_per_min")
	if token := viper.GetString("whatsapp_access_token"); token != "" {
		cfg.WhatsApp.AccessToken = token
	}
	if secret := viper.GetString("whatsapp_app_secret"); secret != "" {
		cfg.WhatsApp.AppSecret = secret
	}

	// Anthropic
	cfg.Anthropic.APIKey = viper.GetString("anthropic.api_key")
	cfg.Anthropic.Model = viper.GetString("anthropic.model")
	cfg.Anthropic.MaxTokens = viper.GetInt("anthropic.max_tokens")
	if key := viper.GetString("anthropic_api_key"); key != "" {
		cfg.Anthropic.APIKey = key
	}

	// Google OAuth
	cfg.Google.ClientID = viper.GetString("google.client_id")
	cfg.Google.ClientSecret = viper.GetString("google.client_secret")
	if id := viper.GetString("google_client_id"); id != "" {
		cfg.Google.ClientID = id
	}
	if secret := viper.GetString("google_client_secret"); secret != "" {
		cfg.Google.ClientSecret = secret
	}

	// Storage
	cfg.Database.Path = viper.GetString("database.path")

	// Bot
	cfg.Bot.BaseURL = strings.TrimRight(viper.GetString("bot.base_url"), "/")
	cfg.Bot.Timezone = viper.GetString("bot.timezone")
	if baseURL := viper.GetString("base_url"); baseURL != "" {
		cfg.Bot.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("whatsapp.rate_limit_per_min", 60)
	viper.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	viper.SetDefault("anthropic.max_tokens", 1024)
	viper.SetDefault("database.path", "bot.db")
	viper.SetDefault("bot.base_url", "http://localhost:8080")
	viper.SetDefault("bot.timezone", "UTC")
}

func validate(cfg *Config) error {
	if cfg.WhatsApp.AccessToken == "" {
		return fmt.Errorf("whatsapp.access_token is required")
	}
	if cfg.WhatsApp.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp.phone_number_id is required")
	}
	if cfg.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required")
	}
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		return fmt.Errorf("google.client_id and google.client_secret are required")
	}
	return nil
}
