package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains notification delivery settings. Provider selects the
// implementation: "smtp" (gomail) or "sendgrid".
type EmailConfig struct {
	Provider    string `yaml:"provider"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	From        string `yaml:"from"`
	SendGridKey string `yaml:"sendgrid_key"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
	ResetTokenExpiry  int    `yaml:"reset_token_expiry_minutes"`
}

// AuthConfig contains role derivation settings. AdminEmailDomain is the
// reserved suffix that grants the admin role (e.g. "@example.org").
type AuthConfig struct {
	AdminEmailDomain string `yaml:"admin_email_domain"`
}

// AlertsConfig contains alerting thresholds
type AlertsConfig struct {
	LowStockThreshold int32 `yaml:"low_stock_threshold"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	OverdueSweep     string `yaml:"overdue_sweep"`
	LowStockSweep    string `yaml:"low_stock_sweep"`
	MaintenanceSweep string `yaml:"maintenance_sweep"`
	DailySummary     string `yaml:"daily_summary"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("EMAIL_PROVIDER"); val != "" {
		c.Email.Provider = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Email.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Email.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Email.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Email.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.Email.From = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridKey = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Auth
	if val := os.Getenv("ADMIN_EMAIL_DOMAIN"); val != "" {
		c.Auth.AdminEmailDomain = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Email validation
	if c.Email.Provider == "" {
		c.Email.Provider = "smtp"
	}
	switch c.Email.Provider {
	case "smtp":
		if c.Email.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Email.Port <= 0 || c.Email.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.Port)
		}
	case "sendgrid":
		if c.Email.SendGridKey == "" {
			return fmt.Errorf("SendGrid API key is required")
		}
	default:
		return fmt.Errorf("unknown email provider: %s", c.Email.Provider)
	}
	if c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 24 * 60
	}
	if c.JWT.ResetTokenExpiry == 0 {
		c.JWT.ResetTokenExpiry = 60
	}

	// Auth validation
	if c.Auth.AdminEmailDomain == "" {
		return fmt.Errorf("admin email domain is required")
	}

	// Alert defaults
	if c.Alerts.LowStockThreshold == 0 {
		c.Alerts.LowStockThreshold = 2
	}

	// Scheduler defaults
	if c.Scheduler.OverdueSweep == "" {
		c.Scheduler.OverdueSweep = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.LowStockSweep == "" {
		c.Scheduler.LowStockSweep = "0 0 10 * * *" // 10 AM UTC
	}
	if c.Scheduler.MaintenanceSweep == "" {
		c.Scheduler.MaintenanceSweep = "0 0 11 * * *" // 11 AM UTC
	}
	if c.Scheduler.DailySummary == "" {
		c.Scheduler.DailySummary = "0 0 18 * * *" // 6 PM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
