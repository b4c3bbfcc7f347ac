package seeder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete seeder configuration
type Config struct {
	Version  string         `mapstructure:"version" yaml:"version"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Answers  AnswersConfig  `mapstructure:"answers" yaml:"answers"`
}

// DefaultsConfig holds default seeder settings
type DefaultsConfig struct {
	APIURL   string        `mapstructure:"api_url" yaml:"api_url"`
	Count    int           `mapstructure:"count" yaml:"count"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Seed     int64         `mapstructure:"seed" yaml:"seed"`
}

// AnswersConfig lists the choices offered by the survey form.
type AnswersConfig struct {
	Models   []string `mapstructure:"models" yaml:"models"`
	Purposes []string `mapstructure:"purposes" yaml:"purposes"`
	Emotions []string `mapstructure:"emotions" yaml:"emotions"`
}

// LoadConfig loads configuration with cascade: flags > ./seeder.yaml > ~/.survey/seeder.yaml > defaults
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("seeder")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SEEDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".survey"))
		}
	}

	// Read config file (optional - don't fail if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "1.0")

	v.SetDefault("defaults.api_url", "http://localhost:4000")
	v.SetDefault("defaults.count", 20)
	v.SetDefault("defaults.interval", 0)
	v.SetDefault("defaults.seed", 0)

	v.SetDefault("answers.models", []string{"ChatGPT", "Claude", "Gemini", "Llama", "Mistral"})
	v.SetDefault("answers.purposes", []string{"coding", "writing", "research", "translation", "study"})
	v.SetDefault("answers.emotions", []string{"기쁨", "만족", "보통", "답답함", "놀라움"})
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Defaults.APIURL) == "" {
		return errors.New("defaults.api_url is required")
	}
	if c.Defaults.Count <= 0 {
		return fmt.Errorf("defaults.count must be positive, got %d", c.Defaults.Count)
	}
	if c.Defaults.Interval < 0 {
		return errors.New("defaults.interval must not be negative")
	}
	if len(c.Answers.Models) == 0 || len(c.Answers.Purposes) == 0 || len(c.Answers.Emotions) == 0 {
		return errors.New("answers.models, answers.purposes and answers.emotions must not be empty")
	}
	return nil
}
