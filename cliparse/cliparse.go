// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/meal-window/db"
	"github.com/danielhkuo/meal-window/window"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AuthSecret   string

	CutoffHour int
	TimeZone   string
	Location   *time.Location

	RetentionDays int
	RetentionCron string

	AMQPURL       string
	TelegramToken string
	KitchenChatID int64

	LogLevel    string
	Environment string
	ConfigFile  string
}

// fileConfig mirrors Config for YAML and TOML files.
// Pointers distinguish "absent" from a zero value such as cutoff 0.
type fileConfig struct {
	Port          *int    `yaml:"port" toml:"port"`
	DatabaseURL   *string `yaml:"database_url" toml:"database_url"`
	DatabaseType  *string `yaml:"database_type" toml:"database_type"`
	AuthSecret    *string `yaml:"auth_secret" toml:"auth_secret"`
	CutoffHour    *int    `yaml:"cutoff_hour" toml:"cutoff_hour"`
	TimeZone      *string `yaml:"time_zone" toml:"time_zone"`
	RetentionDays *int    `yaml:"retention_days" toml:"retention_days"`
	RetentionCron *string `yaml:"retention_cron" toml:"retention_cron"`
	AMQPURL       *string `yaml:"amqp_url" toml:"amqp_url"`
	TelegramToken *string `yaml:"telegram_token" toml:"telegram_token"`
	KitchenChatID *int64  `yaml:"kitchen_chat_id" toml:"kitchen_chat_id"`
	LogLevel      *string `yaml:"log_level" toml:"log_level"`
	Environment   *string `yaml:"environment" toml:"environment"`
}

func defaults() Config {
	return Config{
		Port:          3318,
		DatabaseType:  db.TypeSQLite,
		CutoffHour:    window.DefaultCutoffHour,
		TimeZone:      "Local",
		RetentionDays: 30,
		RetentionCron: "30 3 * * *",
		LogLevel:      "info",
		Environment:   "development",
	}
}

// ParseFlags builds the configuration. Precedence, highest first:
// command-line flags, environment (including .env), config file, defaults.
func ParseFlags(args []string) (Config, error) {
	var flags Config

	fs := flag.NewFlagSet("meal-window", flag.ContinueOnError)

	fs.StringVar(&flags.ConfigFile, "c", "", "Config file (.yaml, .yml or .toml)")

	// Network config
	fs.IntVar(&flags.Port, "p", 0, "Server port")
	fs.StringVar(&flags.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&flags.DatabaseType, "t", "", "Database type (sqlite, postgres, pgx or memory)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&flags.AuthSecret, "auth-secret", "", "Token signing secret (prefer env)")
	fs.StringVar(&flags.TelegramToken, "telegram-token", "", "Telegram bot token (prefer env)")

	// Window rules
	fs.IntVar(&flags.CutoffHour, "cutoff", 0, "Hour of day (0-23) at which the open window advances")
	fs.StringVar(&flags.TimeZone, "tz", "", "IANA time zone for the cutoff")
	fs.IntVar(&flags.RetentionDays, "retention-days", 0, "Days of confirmations to keep (0 keeps everything)")
	fs.StringVar(&flags.RetentionCron, "retention-cron", "", "Cron spec for the retention purge")

	// Integrations
	fs.StringVar(&flags.AMQPURL, "amqp", "", "RabbitMQ URL for confirmation events")
	fs.Int64Var(&flags.KitchenChatID, "kitchen-chat", 0, "Telegram chat that receives cutoff summaries")

	fs.StringVar(&flags.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&flags.Environment, "env", "", "Environment (development, staging, production)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := defaults()

	cfg.ConfigFile = flags.ConfigFile
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("CONFIG_FILE")
	}
	if cfg.ConfigFile != "" {
		if err := applyFile(&cfg, cfg.ConfigFile); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	// Only flags that were actually given override the lower layers
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.Port = flags.Port
		case "d":
			cfg.DatabaseURL = flags.DatabaseURL
		case "t":
			cfg.DatabaseType = flags.DatabaseType
		case "auth-secret":
			cfg.AuthSecret = flags.AuthSecret
		case "telegram-token":
			cfg.TelegramToken = flags.TelegramToken
		case "cutoff":
			cfg.CutoffHour = flags.CutoffHour
		case "tz":
			cfg.TimeZone = flags.TimeZone
		case "retention-days":
			cfg.RetentionDays = flags.RetentionDays
		case "retention-cron":
			cfg.RetentionCron = flags.RetentionCron
		case "amqp":
			cfg.AMQPURL = flags.AMQPURL
		case "kitchen-chat":
			cfg.KitchenChatID = flags.KitchenChatID
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "env":
			cfg.Environment = flags.Environment
		}
	})

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &fc)
	case ".toml":
		_, err = toml.Decode(string(raw), &fc)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setIf(&cfg.Port, fc.Port)
	setIf(&cfg.DatabaseURL, fc.DatabaseURL)
	setIf(&cfg.DatabaseType, fc.DatabaseType)
	setIf(&cfg.AuthSecret, fc.AuthSecret)
	setIf(&cfg.CutoffHour, fc.CutoffHour)
	setIf(&cfg.TimeZone, fc.TimeZone)
	setIf(&cfg.RetentionDays, fc.RetentionDays)
	setIf(&cfg.RetentionCron, fc.RetentionCron)
	setIf(&cfg.AMQPURL, fc.AMQPURL)
	setIf(&cfg.TelegramToken, fc.TelegramToken)
	setIf(&cfg.KitchenChatID, fc.KitchenChatID)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.Environment, fc.Environment)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"DATABASE_URL":   &cfg.DatabaseURL,
		"DATABASE_TYPE":  &cfg.DatabaseType,
		"AUTH_SECRET":    &cfg.AuthSecret,
		"TIME_ZONE":      &cfg.TimeZone,
		"RETENTION_CRON": &cfg.RetentionCron,
		"AMQP_URL":       &cfg.AMQPURL,
		"TELEGRAM_TOKEN": &cfg.TelegramToken,
		"LOG_LEVEL":      &cfg.LogLevel,
		"ENVIRONMENT":    &cfg.Environment,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":           &cfg.Port,
		"CUTOFF_HOUR":    &cfg.CutoffHour,
		"RETENTION_DAYS": &cfg.RetentionDays,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s env variable", key)
		}
		*dst = n
	}

	if v := os.Getenv("KITCHEN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.New("invalid KITCHEN_CHAT_ID env variable")
		}
		cfg.KitchenChatID = id
	}
	return nil
}

func (cfg *Config) validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}

	switch cfg.DatabaseType {
	case db.TypeSQLite, db.TypePostgres, db.TypePgx:
		if cfg.DatabaseURL == "" {
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case db.TypeMemory:
	default:
		return fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AuthSecret == "" {
		return errors.New("AUTH_SECRET required")
	}

	if cfg.CutoffHour < 0 || cfg.CutoffHour > 23 {
		return fmt.Errorf("cutoff hour %d out of range [0,23]", cfg.CutoffHour)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	if cfg.RetentionDays < 0 {
		return errors.New("retention days must not be negative")
	}
	if cfg.RetentionDays > 0 {
		if _, err := cron.ParseStandard(cfg.RetentionCron); err != nil {
			return fmt.Errorf("invalid retention cron %q: %w", cfg.RetentionCron, err)
		}
	}

	if cfg.TelegramToken != "" && cfg.KitchenChatID == 0 {
		return errors.New("KITCHEN_CHAT_ID required when a Telegram token is set")
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	return nil
}

// IsProduction reports whether logs should be machine readable
func (cfg Config) IsProduction() bool {
	return cfg.Environment == "production" || cfg.Environment == "staging"
}
