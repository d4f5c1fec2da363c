package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DonovanMods/mrunpack/internal/domain"

	"gopkg.in/yaml.v3"
)

// Defaults applied when config.yaml is missing or leaves a key unset
const (
	DefaultJobs             = 8
	DefaultHTTPTimeout      = 5 * time.Minute
	DefaultInstallerTimeout = 10 * time.Minute
)

// Config holds global application settings
type Config struct {
	LinkMethod             domain.LinkMethod `yaml:"-"`
	LinkMethodStr          string            `yaml:"link_method"`
	MinecraftDir           string            `yaml:"minecraft_dir,omitempty"`
	JavaPath               string            `yaml:"java_path"`
	Jobs                   int               `yaml:"jobs"`
	CachePath              string            `yaml:"cache_path,omitempty"`
	HTTPTimeout            time.Duration     `yaml:"http_timeout"`
	InstallerTimeout       time.Duration     `yaml:"installer_timeout"`
	FabricInstallerVersion string            `yaml:"fabric_installer_version"`
	QuiltInstallerVersion  string            `yaml:"quilt_installer_version"`
}

func defaults() *Config {
	return &Config{
		LinkMethod:             domain.LinkCopy,
		JavaPath:               "java",
		Jobs:                   DefaultJobs,
		HTTPTimeout:            DefaultHTTPTimeout,
		InstallerTimeout:       DefaultInstallerTimeout,
		FabricInstallerVersion: domain.DefaultFabricInstallerVersion,
		QuiltInstallerVersion:  domain.DefaultQuiltInstallerVersion,
	}
}

// Load reads configuration from the given directory
func Load(configDir string) (*Config, error) {
	cfg := defaults()

	configPath := filepath.Join(configDir, FileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.LinkMethodStr != "" {
		cfg.LinkMethod = domain.ParseLinkMethod(cfg.LinkMethodStr)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("invalid config: jobs must be at least 1, got %d", c.Jobs)
	}
	if c.HTTPTimeout < 0 || c.InstallerTimeout < 0 {
		return errors.New("invalid config: timeouts must not be negative")
	}
	if c.JavaPath == "" {
		c.JavaPath = "java"
	}
	if c.FabricInstallerVersion == "" {
		c.FabricInstallerVersion = domain.DefaultFabricInstallerVersion
	}
	if c.QuiltInstallerVersion == "" {
		c.QuiltInstallerVersion = domain.DefaultQuiltInstallerVersion
	}
	return nil
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	c.LinkMethodStr = c.LinkMethod.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	configPath := filepath.Join(configDir, FileName)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// InstallerVersions returns the pinned generic installer releases
func (c *Config) InstallerVersions() domain.InstallerVersions {
	return domain.InstallerVersions{
		Fabric: c.FabricInstallerVersion,
		Quilt:  c.QuiltInstallerVersion,
	}
}
