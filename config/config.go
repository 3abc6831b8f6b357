package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "MEDIAPREP"

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("abspath", ValidateAbsPath)
	validate.RegisterValidation("identifier", ValidateIdentifier)
	validate.RegisterValidation("pathpattern", ValidatePathPattern)

	if err := validate.Struct(c); err != nil {
		return err
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runtime", "server")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.timestamp", true)
	v.SetDefault("upload.chunk_size", 1024*1024)
	v.SetDefault("upload.small_media_threshold", 5*1024*1024)
	v.SetDefault("upload.deprecation_warnings", true)
	v.SetDefault("upload.target", "tweet")
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.limits.max_file_size", 512*1024*1024)
	v.SetDefault("server.limits.max_multipart_mem", 32*1024*1024)
	v.SetDefault("media.strategy", "noop")
	v.SetDefault("manifest.strategy", "noop")
}

// LoadConfig reads a YAML file, applies defaults and MEDIAPREP_* environment
// overrides, then validates the result.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(file)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
