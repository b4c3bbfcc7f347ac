package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL = "http://localhost:4000"
	DefaultLocale = "ko"
)

type Config struct {
	CurrentProfile string              `yaml:"current_profile"`
	Profiles       map[string]*Profile `yaml:"profiles"`
	Defaults       *Profile            `yaml:"defaults"`
	path           string
}

// Profile points the admin client at one deployment.
// RESTReadKey must be a read-only key; it is used only for the fallback read.
type Profile struct {
	APIURL      string `yaml:"api_url,omitempty"`
	RESTURL     string `yaml:"rest_url,omitempty"`
	RESTReadKey string `yaml:"rest_read_key,omitempty"`
	Locale      string `yaml:"locale,omitempty"`
}

// Keys settable through `survey config set`.
var Keys = []string{"api_url", "rest_url", "rest_read_key", "locale"}

func Default() *Config {
	return &Config{
		CurrentProfile: "default",
		Profiles:       make(map[string]*Profile),
		Defaults: &Profile{
			APIURL: DefaultAPIURL,
			Locale: DefaultLocale,
		},
	}
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".survey", "config.yaml"), nil
}

func Load(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		p, err := defaultPath()
		if err != nil {
			return nil, err
		}
		cfgFile = p
	}

	cfg := Default()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cfgFile, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}
	if cfg.Defaults == nil {
		cfg.Defaults = Default().Defaults
	}

	return cfg, nil
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Save() error {
	if c.path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// holds a database key
	return os.WriteFile(c.path, data, 0600)
}

// Resolve returns the named profile (current when empty) layered over the defaults.
// A profile that does not exist yet resolves to the defaults.
func (c *Config) Resolve(name string) Profile {
	if name == "" {
		name = c.CurrentProfile
	}

	var out Profile
	if c.Defaults != nil {
		out = *c.Defaults
	}
	p, ok := c.Profiles[name]
	if !ok {
		return out
	}
	if p.APIURL != "" {
		out.APIURL = p.APIURL
	}
	if p.RESTURL != "" {
		out.RESTURL = p.RESTURL
	}
	if p.RESTReadKey != "" {
		out.RESTReadKey = p.RESTReadKey
	}
	if p.Locale != "" {
		out.Locale = p.Locale
	}
	return out
}

func (c *Config) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}

	return profile, nil
}

// Set updates one key of the named profile, creating the profile if needed.
func (c *Config) Set(name, key, value string) error {
	if name == "" {
		name = c.CurrentProfile
	}
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}
	p, ok := c.Profiles[name]
	if !ok {
		p = &Profile{}
	}

	switch key {
	case "api_url":
		p.APIURL = value
	case "rest_url":
		p.RESTURL = value
	case "rest_read_key":
		p.RESTReadKey = value
	case "locale":
		p.Locale = value
	default:
		return fmt.Errorf("unknown key '%s' (valid keys: %v)", key, Keys)
	}

	c.Profiles[name] = p
	return nil
}

func (c *Config) RemoveProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(c.Profiles, name)

	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}

	return c.Save()
}

// ProfileNames returns the configured profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
