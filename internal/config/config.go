package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Store        StoreConfig        `yaml:"store"`
	RabbitMQ     RabbitMQConfig     `yaml:"rabbitmq"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Notification NotificationConfig `yaml:"notification"`
	Order        OrderConfig        `yaml:"order"`
	Admin        AdminConfig        `yaml:"admin"`
	Reconcile    ReconcileConfig    `yaml:"reconcile"`
	Logger       LoggerConfig       `yaml:"logger"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"`
	Collection string `yaml:"collection"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

type NotificationConfig struct {
	ServiceID      string        `yaml:"service_id"`
	TemplateID     string        `yaml:"template_id"`
	PickupLocation string        `yaml:"pickup_location"`
	BannerTTL      time.Duration `yaml:"banner_ttl"`
	Workers        int           `yaml:"workers"`
}

type OrderConfig struct {
	TimeSlots  []string `yaml:"time_slots"`
	DateLayout string   `yaml:"date_layout"`
	Location   string   `yaml:"location"`
}

type AdminConfig struct {
	Passphrase string `yaml:"passphrase"`
}

type ReconcileConfig struct {
	Schedule string `yaml:"schedule"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

const passphraseEnv = "STOREFRONT_ADMIN_PASSPHRASE"

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.applyDefaults()

	if v := os.Getenv(passphraseEnv); v != "" {
		cfg.Admin.Passphrase = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = "postgres"
	}
	if c.Store.Collection == "" {
		c.Store.Collection = "products"
	}
	if c.Notification.PickupLocation == "" {
		c.Notification.PickupLocation = "046"
	}
	if c.Notification.BannerTTL <= 0 {
		c.Notification.BannerTTL = 6 * time.Second
	}
	if c.Notification.Workers <= 0 {
		c.Notification.Workers = 4
	}
	if len(c.Order.TimeSlots) == 0 {
		c.Order.TimeSlots = []string{"12:00", "12:30", "13:00", "16:30", "17:00"}
	}
	if c.Order.DateLayout == "" {
		c.Order.DateLayout = "02/01/2006"
	}
	if c.Order.Location == "" {
		c.Order.Location = "Local"
	}
	if c.Admin.Passphrase == "" {
		c.Admin.Passphrase = "admin123"
	}
	if c.Logger.Mode == "" {
		c.Logger.Mode = "development"
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "postgres", "redis":
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
	if c.Logger.FileEnable && c.Logger.Filename == "" {
		return fmt.Errorf("logger.filename is required when file_enable is set")
	}
	return nil
}

// TimeLocation resolves the configured timezone used for pickup dates
func (c *Config) TimeLocation() *time.Location {
	if c.Order.Location == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Order.Location)
	if err != nil {
		return time.Local
	}
	return loc
}
