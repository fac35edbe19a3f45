package config

import (
	"strings"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion   string `mapstructure:"GENERAL_VERSION"`
	Environment      string `mapstructure:"ENVIRONMENT"`
	ServerPort       int    `mapstructure:"SERVER_PORT"`
	CorsAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`

	GoogleServiceAccountEmail string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	GooglePrivateKey          string `mapstructure:"GOOGLE_PRIVATE_KEY"`
	GoogleSheetsID            string `mapstructure:"GOOGLE_SHEETS_ID"`
	GoogleDriveFolderID       string `mapstructure:"GOOGLE_DRIVE_FOLDER_ID"`

	EmailProvider        string `mapstructure:"EMAIL_PROVIDER"`
	ResendAPIKey         string `mapstructure:"RESEND_API_KEY"`
	SESRegion            string `mapstructure:"SES_REGION"`
	EmailFrom            string `mapstructure:"EMAIL_FROM"`
	EmailTo              string `mapstructure:"EMAIL_TO"`
	CustomerEmailEnabled bool   `mapstructure:"CUSTOMER_EMAIL_ENABLED"`

	CacheAddress string `mapstructure:"CACHE_ADDRESS"`
	CachePort    int    `mapstructure:"CACHE_PORT"`

	SchedulerEnabled bool `mapstructure:"SCHEDULER_ENABLED"`
	ProgressTTLHours int  `mapstructure:"PROGRESS_TTL_HOURS"`
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "CORS_ALLOW_ORIGINS",
		"GOOGLE_SERVICE_ACCOUNT_EMAIL", "GOOGLE_PRIVATE_KEY", "GOOGLE_SHEETS_ID", "GOOGLE_DRIVE_FOLDER_ID",
		"EMAIL_PROVIDER", "RESEND_API_KEY", "SES_REGION", "EMAIL_FROM", "EMAIL_TO", "CUSTOMER_EMAIL_ENABLED",
		"CACHE_ADDRESS", "CACHE_PORT",
		"SCHEDULER_ENABLED", "PROGRESS_TTL_HOURS",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	if viper.IsSet("SERVER_PORT") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	// Service-account keys arrive with literal \n sequences from env files
	config.GooglePrivateKey = strings.ReplaceAll(config.GooglePrivateKey, `\n`, "\n")

	if config.EmailProvider == "" {
		config.EmailProvider = "resend"
	}
	if config.ProgressTTLHours <= 0 {
		config.ProgressTTLHours = 24
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config", "environment", config.Environment, "port", config.ServerPort)
	return config, nil
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.EmailProvider != "resend" && config.EmailProvider != "ses" {
		return log.Error(
			"Fatal error: unknown email provider",
			"provider", config.EmailProvider,
		)
	}

	// The drive root folder is checked again per request so that a
	// misconfigured deployment still serves health and contact traffic,
	// but surface it loudly at startup.
	if config.GoogleDriveFolderID == "" {
		log.Warn("GOOGLE_DRIVE_FOLDER_ID is not set, document uploads will be rejected")
	}
	if config.GoogleSheetsID == "" {
		log.Warn("GOOGLE_SHEETS_ID is not set, ledger writes will be rejected")
	}

	return nil
}
