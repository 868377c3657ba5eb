package configs

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Environment variables overriding the config file.
const (
	EnvBackend  = "TC_SECRETS_BACKEND"
	EnvStoreDir = "TC_SECRETS_STORE_DIR"
	EnvProfile  = "TC_SECRETS_PROFILE"
	EnvRegion   = "TC_SECRETS_REGION"
)

// Defaults written by config init and used when a key is absent.
const (
	DefaultBackend      = "aws"
	DefaultProfile      = "tc-secrets-cli-profile"
	DefaultRegion       = "us-east-1"
	DefaultBackupSuffix = ".bak"
)

type UserConfig struct {
	User  User        `toml:"user"`
	AWS   AWSConfig   `toml:"aws"`
	Store StoreConfig `toml:"store"`
	Sync  SyncConfig  `toml:"sync"`
}

type User struct {
	UUID string `toml:"user_uuid"`
	Name string `toml:"name,omitempty"`
}

type AWSConfig struct {
	Profile     string `toml:"profile"`
	Region      string `toml:"region"`
	SSOStartURL string `toml:"sso_start_url,omitempty"`
	SSORegion   string `toml:"sso_region,omitempty"`
}

type StoreConfig struct {
	// Backend is "aws" or "dir".
	Backend string `toml:"backend"`
	// Dir is the directory used by the dir backend.
	Dir string `toml:"dir,omitempty"`
}

type SyncConfig struct {
	BackupSuffix   string   `toml:"backup_suffix"`
	StatusPatterns []string `toml:"status_patterns,omitempty"`
}

// DefaultUserConfig returns the configuration used when no file exists.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		User: User{Name: UserTCSecretsSettings.Username},
		AWS: AWSConfig{
			Profile: DefaultProfile,
			Region:  DefaultRegion,
		},
		Store: StoreConfig{
			Backend: DefaultBackend,
		},
		Sync: SyncConfig{
			BackupSuffix: DefaultBackupSuffix,
		},
	}
}

// LoadUserConfig loads the user configuration from the config file, fills
// in defaults for absent keys and applies environment overrides.
func LoadUserConfig() (*UserConfig, error) {
	config := DefaultUserConfig()

	if _, err := os.Stat(ConfigPath()); err == nil {
		if err := LoadTOML(ConfigPath(), config); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	config.applyDefaults()
	config.applyEnv()

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	if err := SaveTOML(ConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}

// GenerateUserUUID generates a new UUID for the user.
func GenerateUserUUID() string {
	return uuid.New().String()
}

// EnsureUserConfig ensures the user configuration exists and has a UUID.
func EnsureUserConfig() (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if config.User.UUID == "" {
		config.User.UUID = GenerateUserUUID()
		if err := SaveUserConfig(config); err != nil {
			return nil, fmt.Errorf("failed to save user config: %w", err)
		}
	}

	return config, nil
}

// StoreDir returns the dir backend directory, falling back to the default.
func (c *UserConfig) StoreDir() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return DefaultStoreDir()
}

func (c *UserConfig) applyDefaults() {
	if c.AWS.Profile == "" {
		c.AWS.Profile = DefaultProfile
	}
	if c.AWS.Region == "" {
		c.AWS.Region = DefaultRegion
	}
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultBackend
	}
	if c.Sync.BackupSuffix == "" {
		c.Sync.BackupSuffix = DefaultBackupSuffix
	}
}

func (c *UserConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		c.Store.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoreDir)); v != "" {
		c.Store.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvProfile)); v != "" {
		c.AWS.Profile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRegion)); v != "" {
		c.AWS.Region = v
	}
}
