package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/sirupsen/logrus"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`

	configFile string

	loggerOnce sync.Once
	logger     *ringLogger
}

type APIConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Timeout        string `mapstructure:"timeout"`
	VerifyEndpoint string `mapstructure:"verify_endpoint"`
	// Token overrides the stored session token when set.
	Token string `mapstructure:"token"`
}

type StreamConfig struct {
	Heartbeat      string `mapstructure:"heartbeat"`
	ReconnectDelay string `mapstructure:"reconnect_delay"`
	MaxReconnects  int    `mapstructure:"max_reconnects"`
}

type WatchConfig struct {
	PollInterval string `mapstructure:"poll_interval"`
	Notify       bool   `mapstructure:"notify"`
}

type StorageBackend string

const (
	StorageBackendFile   StorageBackend = "file"
	StorageBackendSQLite StorageBackend = "sqlite"
	StorageBackendMemory StorageBackend = "memory"
)

type StorageConfig struct {
	Backend StorageBackend `mapstructure:"backend"`
	Path    string         `mapstructure:"path"`
}

type ServerConfig struct {
	Host string     `mapstructure:"host"`
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Validate rejects configuration that cannot produce a working client.
func (c *Config) Validate() error {
	if !common.IsValidURL(c.API.Endpoint) {
		return fmt.Errorf("invalid api.endpoint: %q", c.API.Endpoint)
	}
	if len(c.API.VerifyEndpoint) > 0 && !common.IsValidURL(c.API.VerifyEndpoint) {
		return fmt.Errorf("invalid api.verify_endpoint: %q", c.API.VerifyEndpoint)
	}
	if c.Stream.MaxReconnects < 0 {
		return fmt.Errorf("stream.max_reconnects must not be negative")
	}
	switch c.Storage.Backend {
	case StorageBackendFile, StorageBackendSQLite, StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage.backend: %q", c.Storage.Backend)
	}
	return nil
}

func (c *Config) GetConfigFile() string {
	return c.configFile
}

func (c *Config) GetAPIEndpoint() string {
	return strings.TrimSuffix(c.API.Endpoint, "/")
}

func (c *Config) GetVerifyEndpoint() string {
	if len(c.API.VerifyEndpoint) == 0 {
		return DefaultVerifyEndpoint
	}
	return strings.TrimSuffix(c.API.VerifyEndpoint, "/")
}

// GetAPIHostname is used to name the per-backend session file.
func (c *Config) GetAPIHostname() string {
	u, err := url.Parse(c.GetAPIEndpoint())
	if err != nil || len(u.Host) == 0 {
		return "default"
	}
	return u.Host
}

func (c *Config) GetTimeout() time.Duration {
	return parseDurationOrDefault(c.API.Timeout, 30*time.Second)
}

func (c *Config) GetHeartbeatInterval() time.Duration {
	return parseDurationOrDefault(c.Stream.Heartbeat, 30*time.Second)
}

func (c *Config) GetReconnectDelay() time.Duration {
	return parseDurationOrDefault(c.Stream.ReconnectDelay, 2*time.Second)
}

func (c *Config) GetMaxReconnects() int {
	return c.Stream.MaxReconnects
}

func (c *Config) GetPollInterval() time.Duration {
	return parseDurationOrDefault(c.Watch.PollInterval, 5*time.Second)
}

func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetStoragePath returns the configured storage location, falling back to
// ~/.config/atlantic.
func (c *Config) GetStoragePath() string {
	if len(c.Storage.Path) > 0 {
		return c.Storage.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".atlantic")
	}
	return filepath.Join(home, ".config", "atlantic")
}

func (c *Config) GetLogger() *ringLogger {
	c.loggerOnce.Do(func() {
		c.logger = NewRingLogger(defaultRingSize)
	})
	return c.logger
}

func parseDurationOrDefault(value string, fallback time.Duration) time.Duration {
	if len(value) == 0 {
		return fallback
	}
	d, err := common.ParseDuration(value)
	if err != nil {
		logrus.WithError(err).WithField("value", value).Warnln("Invalid duration, using default")
		return fallback
	}
	return d
}
