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
	Redis     RedisConfig     `yaml:"redis"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Rental    RentalConfig    `yaml:"rental"`
	Pricing   PricingConfig   `yaml:"pricing"`
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

// RedisConfig contains availability-cache settings. The cache is optional;
// when disabled every read goes straight to Postgres.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSecs  int    `yaml:"ttl_seconds"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	From       string `yaml:"from"`
	AdminEmail string `yaml:"admin_email"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RentalConfig contains order and eligibility settings
type RentalConfig struct {
	OrderNumberPrefix     string `yaml:"order_number_prefix"`
	MaxQuantityPerOrder   int    `yaml:"max_quantity_per_order"`
	MaxActiveOrders       int    `yaml:"max_active_orders_per_customer"`
	RequireVerified       bool   `yaml:"require_verified_customer"`
	ReturnReminderDays    int    `yaml:"return_reminder_days"`
	ReservationHorizonDay int    `yaml:"reservation_horizon_days"`
}

// PricingConfig contains the default rates applied when a product does not
// override them. All rates are fractions (0.10 = 10%).
type PricingConfig struct {
	TaxRate                 float64 `yaml:"tax_rate"`
	LongTermDiscountRate    float64 `yaml:"long_term_discount_rate"`
	LongTermDays            int     `yaml:"long_term_days"`
	MediumTermDiscountRate  float64 `yaml:"medium_term_discount_rate"`
	MediumTermDays          int     `yaml:"medium_term_days"`
	OverdueFeeRate          float64 `yaml:"overdue_fee_rate"`
	DepositRate             float64 `yaml:"deposit_rate"`
	DefaultExtensionRate    float64 `yaml:"default_extension_rate"`
	EarlyReturnDiscountRate float64 `yaml:"early_return_discount_rate"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkOverdueOrders    string `yaml:"mark_overdue_orders"`
	SendReturnReminders  string `yaml:"send_return_reminders"`
	SecureReservations   string `yaml:"secure_upcoming_reservations"`
	ReportLowStock       string `yaml:"report_low_stock"`
	AuditOvercommit      string `yaml:"audit_overcommit"`
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

	// Validate configuration
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

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
		c.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}
	if val := os.Getenv("ADMIN_EMAIL"); val != "" {
		c.SMTP.AdminEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
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

// Validate checks if the configuration is valid and fills in defaults
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

	// SMTP validation
	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 14
	}

	// Redis defaults
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}
	if c.Redis.TTLSecs == 0 {
		c.Redis.TTLSecs = 30
	}

	// Rental defaults
	if c.Rental.OrderNumberPrefix == "" {
		c.Rental.OrderNumberPrefix = "RO"
	}
	if c.Rental.MaxQuantityPerOrder == 0 {
		c.Rental.MaxQuantityPerOrder = 100
	}
	if c.Rental.MaxActiveOrders == 0 {
		c.Rental.MaxActiveOrders = 10
	}
	if c.Rental.ReturnReminderDays == 0 {
		c.Rental.ReturnReminderDays = 2
	}
	if c.Rental.ReservationHorizonDay == 0 {
		c.Rental.ReservationHorizonDay = 1
	}

	// Pricing defaults
	if c.Pricing.TaxRate == 0 {
		c.Pricing.TaxRate = 0.10
	}
	if c.Pricing.LongTermDiscountRate == 0 {
		c.Pricing.LongTermDiscountRate = 0.10
	}
	if c.Pricing.LongTermDays == 0 {
		c.Pricing.LongTermDays = 30
	}
	if c.Pricing.MediumTermDiscountRate == 0 {
		c.Pricing.MediumTermDiscountRate = 0.05
	}
	if c.Pricing.MediumTermDays == 0 {
		c.Pricing.MediumTermDays = 14
	}
	if c.Pricing.OverdueFeeRate == 0 {
		c.Pricing.OverdueFeeRate = 0.10
	}
	if c.Pricing.DepositRate == 0 {
		c.Pricing.DepositRate = 0.30
	}
	if c.Pricing.DefaultExtensionRate == 0 {
		c.Pricing.DefaultExtensionRate = 1.0
	}
	if c.Pricing.EarlyReturnDiscountRate == 0 {
		c.Pricing.EarlyReturnDiscountRate = 0.10
	}

	// Scheduler defaults
	if c.Scheduler.MarkOverdueOrders == "" {
		c.Scheduler.MarkOverdueOrders = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendReturnReminders == "" {
		c.Scheduler.SendReturnReminders = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.SecureReservations == "" {
		c.Scheduler.SecureReservations = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.ReportLowStock == "" {
		c.Scheduler.ReportLowStock = "0 0 6 * * *" // 6 AM UTC
	}
	if c.Scheduler.AuditOvercommit == "" {
		c.Scheduler.AuditOvercommit = "0 30 * * * *" // every hour at :30
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
