package bookshelf

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to the name of every configuration key when read from the environment. ie, BOOKSHELF_PORT
const EnvPrefix = "BOOKSHELF"

// Config holds everything needed to run the server
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// a json, yaml or toml file with the records to serve. the sample data is used when empty
	DataFile           string        `mapstructure:"data"`
	LogLevel           string        `mapstructure:"loglevel"`
	Playground         bool          `mapstructure:"playground"`
	H2C                bool          `mapstructure:"h2c"`
	MaxParallelism     int           `mapstructure:"maxparallelism"`
	SkipIntegrityCheck bool          `mapstructure:"skipintegritycheck"`
	PersistedQueries   bool          `mapstructure:"persistedqueries"`
	ReadTimeout        time.Duration `mapstructure:"readtimeout"`
	WriteTimeout       time.Duration `mapstructure:"writetimeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdowntimeout"`
}

// DefaultConfig is the configuration used for any value that is not set elsewhere
func DefaultConfig() Config {
	return Config{
		Host:            "",
		Port:            4000,
		LogLevel:        "Info",
		Playground:      true,
		MaxParallelism:  10,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Address is the host:port pair the server listens on
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate makes sure the configuration can be used to start a server
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.MaxParallelism < 0 {
		return fmt.Errorf("max parallelism must not be negative")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// NewViper returns a viper instance that knows the defaults and reads the environment.
// If configFile is not empty, it is read as well.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("host", defaults.Host)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("data", defaults.DataFile)
	v.SetDefault("loglevel", defaults.LogLevel)
	v.SetDefault("playground", defaults.Playground)
	v.SetDefault("h2c", defaults.H2C)
	v.SetDefault("maxparallelism", defaults.MaxParallelism)
	v.SetDefault("skipintegritycheck", defaults.SkipIntegrityCheck)
	v.SetDefault("persistedqueries", defaults.PersistedQueries)
	v.SetDefault("readtimeout", defaults.ReadTimeout)
	v.SetDefault("writetimeout", defaults.WriteTimeout)
	v.SetDefault("shutdowntimeout", defaults.ShutdownTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", configFile, err)
		}
	}

	return v, nil
}

// LoadConfig decodes and validates the configuration held by viper
func LoadConfig(v *viper.Viper) (Config, error) {
	config := Config{}
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadDotEnv adds the variables defined in the given files to the environment, skipping files that don't exist.
// Variables that are already set are left alone.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("could not load %s: %w", file, err)
		}
	}
	return nil
}
