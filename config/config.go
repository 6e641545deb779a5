package config

import (
	"kirayo/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string  `mapstructure:"GENERAL_VERSION"`
	Environment          string  `mapstructure:"ENVIRONMENT"`
	ServerPort           int     `mapstructure:"SERVER_PORT"`
	DatabaseHost         string  `mapstructure:"DB_HOST"`
	DatabasePort         int     `mapstructure:"DB_PORT"`
	DatabaseName         string  `mapstructure:"DB_NAME"`
	DatabaseUser         string  `mapstructure:"DB_USER"`
	DatabasePassword     string  `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string  `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int     `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int     `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string  `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string  `mapstructure:"JWT_SECRET"`
	JWTExpiryHours       int     `mapstructure:"JWT_EXPIRY_HOURS"`
	ServiceFeePercent    float64 `mapstructure:"SERVICE_FEE_PERCENT"`
	UploadDir            string  `mapstructure:"UPLOAD_DIR"`
	UploadMaxBytes       int64   `mapstructure:"UPLOAD_MAX_BYTES"`
	SMTPHost             string  `mapstructure:"SMTP_HOST"`
	SMTPPort             int     `mapstructure:"SMTP_PORT"`
	SMTPUser             string  `mapstructure:"SMTP_USER"`
	SMTPPassword         string  `mapstructure:"SMTP_PASSWORD"`
	SMTPSender           string  `mapstructure:"SMTP_SENDER"`
	SchedulerEnabled     bool    `mapstructure:"SCHEDULER_ENABLED"`
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	// Enable automatic environment variable reading first
	viper.AutomaticEnv()

	// Bind environment variables to config keys
	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS",
		"JWT_SECRET", "JWT_EXPIRY_HOURS", "SERVICE_FEE_PERCENT",
		"UPLOAD_DIR", "UPLOAD_MAX_BYTES",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_SENDER",
		"SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("SERVICE_FEE_PERCENT", 5)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	viper.SetDefault("SCHEDULER_ENABLED", true)

	// Check if key environment variables are already set
	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		// Load base .env file
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		// Load .env.local overrides if it exists
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

	if config.JWTSecret == "" {
		return log.Err("Fatal error: JWT_SECRET is required", nil)
	}

	if config.ServiceFeePercent < 0 || config.ServiceFeePercent > 100 {
		return log.Error(
			"Fatal error: invalid service fee percent",
			"percent", config.ServiceFeePercent,
		)
	}

	if config.SMTPHost != "" && config.SMTPSender == "" {
		return log.Err("Fatal error: SMTP_SENDER required when SMTP_HOST is set", nil)
	}

	return nil
}
