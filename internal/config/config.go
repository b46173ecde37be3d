package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mailgun-mock/internal/logger"
)

const (
	flagConfig   = "config"
	flagPort     = "port"
	flagLogLevel = "log-level"
)

type Config struct {
	Port           string `yaml:"port"`
	BaseURL        string `yaml:"base_url"`
	MessagesSuffix string `yaml:"messages_suffix"`
	MaxBodySize    string `yaml:"max_body_size"`
	LogLevel       string `yaml:"log_level"`
	Timezone       string `yaml:"timezone"`
	Env            string `yaml:"env"`
}

func defaults() *Config {
	return &Config{
		Port:           "8181",
		BaseURL:        "http://localhost:8181",
		MessagesSuffix: "/messages",
		MaxBodySize:    "32M",
		LogLevel:       "info",
		Env:            "development",
	}
}

// RegisterFlags adds the server flags to cmd.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(flagConfig, "", "optional YAML config file")
	flags.String(flagPort, "", "port to listen on (overrides PORT)")
	flags.String(flagLogLevel, "", "debug, info, warn or error (overrides LOG_LEVEL)")
}

// LoadConfig layers defaults, the YAML file named by --config, the
// environment (a .env file is loaded if present) and finally explicit flags.
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	path, _ := cmd.Flags().GetString(flagConfig)
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if cmd.Flags().Changed(flagPort) {
		cfg.Port, _ = cmd.Flags().GetString(flagPort)
	}
	if cmd.Flags().Changed(flagLogLevel) {
		cfg.LogLevel, _ = cmd.Flags().GetString(flagLogLevel)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = GetEnv("PORT", c.Port)
	c.BaseURL = GetEnv("BASE_URL", c.BaseURL)
	c.MessagesSuffix = GetEnv("MESSAGES_SUFFIX", c.MessagesSuffix)
	c.MaxBodySize = GetEnv("MAX_BODY_SIZE", c.MaxBodySize)
	c.LogLevel = GetEnv("LOG_LEVEL", c.LogLevel)
	c.Timezone = GetEnv("TIMEZONE", c.Timezone)
	c.Env = GetEnv("ENV", c.Env)
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if !strings.HasPrefix(c.MessagesSuffix, "/") {
		return fmt.Errorf("MESSAGES_SUFFIX must start with /, got %q", c.MessagesSuffix)
	}
	if _, err := bytes.Parse(c.MaxBodySize); err != nil || c.MaxBodySize == "" {
		return fmt.Errorf("MAX_BODY_SIZE must be a size like 32M, got %q", c.MaxBodySize)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location is the zone used to display receive times. Empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
