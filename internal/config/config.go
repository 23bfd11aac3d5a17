package config

import (
	"errors"
	"fmt"
	"os"

	"reservas/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Admin      AdminConfig      `yaml:"admin"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Google     GoogleConfig     `yaml:"google"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AdminConfig struct {
	MinPasswordLength int `yaml:"min_password_length"`
	SessionTTLSeconds int `yaml:"session_ttl_seconds"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path  string `yaml:"path"`
	Brand string `yaml:"brand"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment variables referenced from the YAML may
	// come from the real environment instead.
	_ = godotenv.Load(".env")

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
	if c.Storage.Path == "" {
		return errors.New("storage path is required")
	}
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return errors.New("telegram enabled but bot_token is empty")
	}
	if c.Telegram.Enabled && c.Telegram.ChatID == 0 {
		return errors.New("telegram enabled but chat_id is empty")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Admin.MinPasswordLength == 0 {
		c.Admin.MinPasswordLength = models.DefaultMinPassword
	}
	if c.Admin.SessionTTLSeconds == 0 {
		c.Admin.SessionTTLSeconds = models.DefaultSessionTTL
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Exports.Brand == "" {
		c.Exports.Brand = "chef_franko"
	}
	if c.RateLimit.Burst == 0 && c.RateLimit.RPS > 0 {
		c.RateLimit.Burst = 5
	}
}

// LoadMenu reads the POS catalog. The menu ships as its own file so the
// kitchen can edit it without touching service settings.
func LoadMenu(menuPath string) (models.Menu, error) {
	data, err := os.ReadFile(menuPath)
	if err != nil {
		return nil, err
	}

	var menuConfig struct {
		Categories []models.MenuCategory `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &menuConfig); err != nil {
		return nil, err
	}

	if err := ValidateMenu(menuConfig.Categories); err != nil {
		return nil, err
	}

	return menuConfig.Categories, nil
}

// ValidateMenu rejects duplicate or empty item ids across the catalog.
func ValidateMenu(categories []models.MenuCategory) error {
	seen := make(map[string]bool)
	for _, category := range categories {
		if category.ID == "" {
			return fmt.Errorf("category %q has empty id", category.Name)
		}
		for _, item := range category.Items {
			if item.ID == "" {
				return fmt.Errorf("item %q has empty id", item.Name)
			}
			if seen[item.ID] {
				return fmt.Errorf("duplicate menu item id: %s", item.ID)
			}
			seen[item.ID] = true
		}
	}
	return nil
}
