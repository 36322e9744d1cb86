package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	DefaultAPIEndpoint    = "http://localhost:8082"
	DefaultVerifyEndpoint = "http://localhost:8765"
)

func DefaultConfig() *Config {

	v := viper.New()

	// Set default values
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("error unmarshaling default config: %v", err)
	}

	return &config
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if err := setupViperConfig(v, configFile); err != nil {
		return nil, err
	}

	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := setupLogging(config, v); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		// .env file not found, that's okay - continue with other sources
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

// setupViperConfig configures viper with file paths and defaults
func setupViperConfig(v *viper.Viper, configFile string) error {
	// Set configuration file details
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/atlantic")

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	if err := setupHomeConfigPath(v); err != nil {
		return err
	}

	// Set default values
	setDefaults(v)

	// Set environment variable settings
	v.SetEnvPrefix("ATLANTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)

	return nil
}

// setupHomeConfigPath adds the home directory config path if available
func setupHomeConfigPath(v *viper.Viper) error {
	home := os.Getenv("HOME")
	if len(home) == 0 {
		return nil
	}

	usr, err := user.Current()
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	configPath := filepath.Join(usr.HomeDir, ".config", "atlantic")
	v.AddConfigPath(configPath)

	return nil
}

// bindEnvironmentVariables binds all environment variables to viper
func bindEnvironmentVariables(v *viper.Viper) {

	// Backend
	v.BindEnv("api.endpoint", "ATLANTIC_API_ENDPOINT")
	v.BindEnv("api.endpoint", "ATLANTIC_API_URL")
	v.BindEnv("api.timeout", "ATLANTIC_API_TIMEOUT")
	v.BindEnv("api.verify_endpoint", "ATLANTIC_API_VERIFY_ENDPOINT")
	v.BindEnv("api.token", "ATLANTIC_TOKEN")

	bindStreamEnvVars(v)
	bindStorageEnvVars(v)
	bindLoggingEnvVars(v)
}

func bindStreamEnvVars(v *viper.Viper) {
	v.BindEnv("stream.heartbeat", "ATLANTIC_STREAM_HEARTBEAT")
	v.BindEnv("stream.reconnect_delay", "ATLANTIC_STREAM_RECONNECT_DELAY")
	v.BindEnv("stream.max_reconnects", "ATLANTIC_STREAM_MAX_RECONNECTS")
	v.BindEnv("watch.poll_interval", "ATLANTIC_WATCH_POLL_INTERVAL")
}

func bindStorageEnvVars(v *viper.Viper) {
	v.BindEnv("storage.backend", "ATLANTIC_STORAGE_BACKEND")
	v.BindEnv("storage.path", "ATLANTIC_STORAGE_PATH")
}

// bindLoggingEnvVars binds logging configuration environment variables
func bindLoggingEnvVars(v *viper.Viper) {
	v.BindEnv("logging.level", "ATLANTIC_LOGGING_LEVEL")
	v.BindEnv("logging.format", "ATLANTIC_LOGGING_FORMAT")
	v.BindEnv("logging.output", "ATLANTIC_LOGGING_OUTPUT")
}

// readAndUnmarshalConfig reads the configuration file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	// Read configuration file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.configFile = v.ConfigFileUsed()

	return &config, nil
}

// setupLogging configures the logging system based on the config
func setupLogging(config *Config, v *viper.Viper) error {
	// Set logging level
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)
	logrus.AddHook(config.GetLogger())

	// Set logging format
	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	output, err := openLogOutput(config.Logging.Output)
	if err != nil {
		return err
	}
	logrus.SetOutput(output)

	// Dump out the config settings if in debug mode
	if logrusLevel >= logrus.DebugLevel {
		for key, value := range v.AllSettings() {
			if key == "api" {
				continue
			}
			logrus.Debugf("Config '%s': %v\n", key, value)
		}
	}

	return nil
}

func openLogOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, nil
	}
}

func setDefaults(v *viper.Viper) {

	// Backend defaults
	v.SetDefault("api.endpoint", DefaultAPIEndpoint)
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.verify_endpoint", DefaultVerifyEndpoint)
	v.SetDefault("api.token", "")

	// Status stream defaults
	v.SetDefault("stream.heartbeat", "30s")
	v.SetDefault("stream.reconnect_delay", "2s")
	v.SetDefault("stream.max_reconnects", 3)

	// Watcher defaults
	v.SetDefault("watch.poll_interval", "5s")
	v.SetDefault("watch.notify", true)

	// Client storage defaults
	v.SetDefault("storage.backend", string(StorageBackendFile))
	v.SetDefault("storage.path", "")

	// Local relay defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8790)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
}
