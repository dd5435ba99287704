package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// App holds application configuration.
type App struct {
	Name    string `mapstructure:"name" default:"ai-crypto-assistant"`
	Env     string `mapstructure:"env" default:"development"`
	Version string `mapstructure:"version" default:"dev"`
}

// Logger holds logger configuration.
type Logger struct {
	Level    string `mapstructure:"level" default:"info" validate:"oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" default:"json" validate:"oneof=json console"`
}

// Redis holds Redis configuration.
type Redis struct {
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"6379" validate:"min=1,max=65535"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
	PoolSize int    `mapstructure:"pool_size" default:"10" validate:"min=1"`
}

// API holds API server configuration.
type API struct {
	Host string `mapstructure:"host" default:"0.0.0.0"`
	Port int    `mapstructure:"port" default:"8080" validate:"min=1,max=65535"`
}

// EnvBinding binds a config key to one or more environment variables, first set wins.
type EnvBinding struct {
	Key  string
	Envs []string
}

// Load loads configuration from a file into the given config struct. A .env file
// in the working directory is loaded first when present.
func Load(path string, config interface{}, bindings ...EnvBinding) error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range bindings {
		args := append([]string{b.Key}, b.Envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", b.Key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("Failed to read config file, trying environment variables only")
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := defaults.Set(config); err != nil {
		return fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
