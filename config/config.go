package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort         = "8080"
	defaultFeedTimeout  = 10 * time.Second
	defaultLogLevel     = "info"
	defaultKVDBFileName = "doctors.db"
	defaultIndexDirName = "doctors.bleve"
)

type Config struct {
	config *viper.Viper
}

// Load reads config/config.<ENV>.yaml from the project root when it exists.
// Environment variables always win over file values.
func Load() (*Config, error) {

	env := os.Getenv(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	port := c.getString("PORT", "server.port")
	if len(port) == 0 {
		port = defaultPort
	}

	return port
}

func (c *Config) GetLogLevel() string {
	level := c.getString("LOG_LEVEL", "log.level")
	if len(level) == 0 {
		level = defaultLogLevel
	}

	return level
}

// GetFeedURL is the remote JSON feed of doctors. When empty, GetFeedPath is used.
func (c *Config) GetFeedURL() string {
	return c.getString("FEED_URL", "feed.url")
}

func (c *Config) GetFeedPath() string {
	feedPath := c.getString("FEED_PATH", "feed.path")
	if len(feedPath) == 0 || filepath.IsAbs(feedPath) {
		return feedPath
	}

	if projectRoot, err := getProjectRoot(); err == nil {
		return filepath.Join(projectRoot, feedPath)
	}

	return feedPath
}

func (c *Config) GetFeedTimeout() time.Duration {
	return c.getDuration("FEED_TIMEOUT", "feed.timeout", defaultFeedTimeout)
}

// GetRefreshInterval returns 0 when periodic refreshing is disabled.
func (c *Config) GetRefreshInterval() time.Duration {
	return c.getDuration("FEED_REFRESH_INTERVAL", "feed.refresh_interval", 0)
}

func (c *Config) GetKVDBPath() string {
	kvdbPath := c.getString("KVDB_PATH", "database.kvdb_path")
	if len(kvdbPath) == 0 {
		kvdbPath = defaultKVDBFileName
	}

	return filepath.Join(c.GetStoragePath(), kvdbPath)
}

func (c *Config) GetIndexPath() string {
	indexPath := c.getString("INDEX_PATH", "database.index_path")
	if len(indexPath) == 0 {
		indexPath = defaultIndexDirName
	}

	return filepath.Join(c.GetStoragePath(), indexPath)
}

func (c *Config) GetStoragePath() string {
	return c.getString("STORAGE_PATH", "database.storage_path")
}

func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func (c *Config) getDuration(envKey string, fileKey string, fallback time.Duration) time.Duration {
	raw := c.getString(envKey, fileKey)
	if len(raw) == 0 {
		return fallback
	}

	duration, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration in config, using default", "key", fileKey, "value", raw, "err", err.Error())
		return fallback
	}

	return duration
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
