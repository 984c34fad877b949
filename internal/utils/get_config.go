package utils

import (
	"gopkg.in/yaml.v2"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppPort      string `yaml:"APP_PORT"`
	RateLimitMax string `yaml:"RATE_LIMIT_MAX"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Logging
	LogMode string `yaml:"LOG_MODE"`
	LogFile string `yaml:"LOG_FILE"`

	// Ledger
	LedgerMaxRetries string `yaml:"LEDGER_MAX_RETRIES"`

	// Jobs
	LowStockAlertCron  string `yaml:"LOW_STOCK_ALERT_CRON"`
	LowStockAlertEmail string `yaml:"LOW_STOCK_ALERT_EMAIL"`
	BackupCron         string `yaml:"BACKUP_CRON"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

var defaults = map[string]string{
	"APP_PORT":             "8080",
	"RATE_LIMIT_MAX":       "50",
	"LOG_MODE":             "development",
	"LEDGER_MAX_RETRIES":   "5",
	"LOW_STOCK_ALERT_CRON": "@every 1h",
	"BACKUP_CRON":          "@daily",
}

func LoadConfig() {
	LoadConfigFile("config.yaml")
}

// LoadConfigFile reads the yaml file at path. A missing file leaves only defaults
// and environment variables.
func LoadConfigFile(path string) {
	config = Config{}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

// GetConfig returns the environment variable named key when set, otherwise the file value,
// otherwise the built-in default.
func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	if v := fileValue(key); v != "" {
		return v
	}
	return defaults[key]
}

func GetConfigInt(key string, fallback int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return v
}

func fileValue(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "RATE_LIMIT_MAX":
		return config.RateLimitMax
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "LOG_MODE":
		return config.LogMode
	case "LOG_FILE":
		return config.LogFile
	case "LEDGER_MAX_RETRIES":
		return config.LedgerMaxRetries
	case "LOW_STOCK_ALERT_CRON":
		return config.LowStockAlertCron
	case "LOW_STOCK_ALERT_EMAIL":
		return config.LowStockAlertEmail
	case "BACKUP_CRON":
		return config.BackupCron
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}
