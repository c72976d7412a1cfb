package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App           AppConfig           `yaml:"app"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Backup        BackupConfig        `yaml:"backup"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Logging       LoggingConfig       `yaml:"logging"`
	Cabins        []models.Cabin      `yaml:"cabins"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Booking       BookingConfig       `yaml:"booking"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Sweep         SweepConfig         `yaml:"sweep"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// PricingConfig holds the per-guest nightly rates in whole CLP.
type PricingConfig struct {
	AdultRateHigh int64 `yaml:"adult_rate_high"`
	AdultRateLow  int64 `yaml:"adult_rate_low"`
	ChildRate     int64 `yaml:"child_rate"`
}

type BookingConfig struct {
	MaxStayNights      int `yaml:"max_stay_nights"`
	BookingHorizonDays int `yaml:"booking_horizon_days"`
}

// NotificationsConfig owns the anchor clock times reminders are computed
// from and the snooze bounds.
type NotificationsConfig struct {
	CheckInAnchor  string `yaml:"check_in_anchor"`  // HH:MM, local
	CheckOutAnchor string `yaml:"check_out_anchor"` // HH:MM, local
	SnoozeHours    int    `yaml:"snooze_hours"`
	MaxSnoozeHours int    `yaml:"max_snooze_hours"`
}

// SweepConfig drives the maintenance loop. No-show flagging and expiry
// cleanup stay off unless the operator turns them on; expiry cleanup
// deletes rows.
type SweepConfig struct {
	IntervalMinutes int     `yaml:"interval_minutes"`
	DeliveryRPS     float64 `yaml:"delivery_rps"`
	DeliveryBurst   int     `yaml:"delivery_burst"`
	NoShowFlagging  bool    `yaml:"no_show_flagging"`
	ExpiryCleanup   bool    `yaml:"expiry_cleanup"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; only a present-but-unreadable file is an error.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Pricing.AdultRateHigh <= c.Pricing.AdultRateLow {
		return fmt.Errorf("high season adult rate (%d) must exceed low season rate (%d)",
			c.Pricing.AdultRateHigh, c.Pricing.AdultRateLow)
	}
	if c.Pricing.AdultRateLow <= 0 || c.Pricing.ChildRate <= 0 {
		return errors.New("nightly rates must be positive")
	}

	if c.Booking.MaxStayNights <= 0 {
		return errors.New("booking.max_stay_nights must be positive")
	}
	if c.Booking.BookingHorizonDays <= 0 {
		return errors.New("booking.booking_horizon_days must be positive")
	}

	if _, _, err := AnchorClock(c.Notifications.CheckInAnchor); err != nil {
		return fmt.Errorf("notifications.check_in_anchor: %w", err)
	}
	if _, _, err := AnchorClock(c.Notifications.CheckOutAnchor); err != nil {
		return fmt.Errorf("notifications.check_out_anchor: %w", err)
	}
	if c.Notifications.SnoozeHours <= 0 {
		return errors.New("notifications.snooze_hours must be positive")
	}
	if c.Notifications.MaxSnoozeHours < c.Notifications.SnoozeHours {
		return errors.New("notifications.max_snooze_hours must be at least snooze_hours")
	}

	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis.address is required when redis is enabled")
	}

	return ValidateCabins(c.Cabins)
}

// ValidateCabins rejects a catalog with blank or duplicate ids or
// non-positive capacities.
func ValidateCabins(cabins []models.Cabin) error {
	if len(cabins) == 0 {
		return errors.New("cabin catalog is empty")
	}
	seen := make(map[string]bool)
	for _, cabin := range cabins {
		if cabin.ID == "" {
			return fmt.Errorf("cabin %q has an empty id", cabin.Name)
		}
		if seen[cabin.ID] {
			return fmt.Errorf("duplicate cabin id: %s", cabin.ID)
		}
		seen[cabin.ID] = true
		if cabin.Capacity <= 0 {
			return fmt.Errorf("cabin %s has invalid capacity %d", cabin.ID, cabin.Capacity)
		}
	}
	return nil
}

// Cabin looks a catalog entry up by id.
func (c *Config) Cabin(id string) (models.Cabin, bool) {
	for _, cabin := range c.Cabins {
		if cabin.ID == id {
			return cabin, true
		}
	}
	return models.Cabin{}, false
}

// AnchorClock parses an HH:MM anchor into hour and minute.
func AnchorClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid anchor time %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

func (c *Config) applyDefaults() {
	if len(c.Cabins) == 0 {
		c.Cabins = defaultCabins()
	}

	if c.Pricing.AdultRateHigh == 0 {
		c.Pricing.AdultRateHigh = 25000
	}
	if c.Pricing.AdultRateLow == 0 {
		c.Pricing.AdultRateLow = 20000
	}
	if c.Pricing.ChildRate == 0 {
		c.Pricing.ChildRate = 10000
	}

	if c.Booking.MaxStayNights == 0 {
		c.Booking.MaxStayNights = models.DefaultMaxStayNights
	}
	if c.Booking.BookingHorizonDays == 0 {
		c.Booking.BookingHorizonDays = models.DefaultBookingHorizonDays
	}

	if c.Notifications.CheckInAnchor == "" {
		c.Notifications.CheckInAnchor = "14:00"
	}
	if c.Notifications.CheckOutAnchor == "" {
		c.Notifications.CheckOutAnchor = "11:00"
	}
	if c.Notifications.SnoozeHours == 0 {
		c.Notifications.SnoozeHours = models.DefaultSnoozeHours
	}
	if c.Notifications.MaxSnoozeHours == 0 {
		c.Notifications.MaxSnoozeHours = models.MaxSnoozeHours
	}

	if c.Sweep.IntervalMinutes == 0 {
		c.Sweep.IntervalMinutes = 15
	}
	if c.Sweep.DeliveryRPS == 0 {
		c.Sweep.DeliveryRPS = 1
	}
	if c.Sweep.DeliveryBurst == 0 {
		c.Sweep.DeliveryBurst = 5
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.Backup.Enabled {
		if c.Backup.RetentionDays == 0 {
			c.Backup.RetentionDays = 7
		}
		if c.Backup.StoragePath == "" {
			c.Backup.StoragePath = "./backups"
		}
	}
}

func defaultCabins() []models.Cabin {
	return []models.Cabin{
		{ID: "cabana-pequena", Name: "Cabaña Pequeña", Capacity: 3, SortOrder: 1, IsActive: true},
		{ID: "cabana-mediana-1", Name: "Cabaña Mediana 1", Capacity: 4, SortOrder: 2, IsActive: true},
		{ID: "cabana-mediana-2", Name: "Cabaña Mediana 2", Capacity: 4, SortOrder: 3, IsActive: true},
		{ID: "cabana-grande", Name: "Cabaña Grande", Capacity: 6, SortOrder: 4, IsActive: true},
	}
}
