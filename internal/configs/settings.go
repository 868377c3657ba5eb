package configs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/tc-secrets/internal/utils"
)

// AppName names the user configuration directory.
const AppName = "tc-secrets"

type UserSettings struct {
	UserConfigsPath string
	Username        string
}

var UserTCSecretsSettings *UserSettings

func init() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	// This is independent of the working directory, so it is ok to init here
	UserTCSecretsSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, AppName),
		Username:        username,
	}
}

// ConfigPath returns the path of the user config file.
func ConfigPath() string {
	return filepath.Join(UserTCSecretsSettings.UserConfigsPath, "config.toml")
}

// AuditLogPath returns the path of the audit log.
func AuditLogPath() string {
	return filepath.Join(UserTCSecretsSettings.UserConfigsPath, "audit.jsonl")
}

// DefaultStoreDir is where the dir backend keeps secrets unless configured.
func DefaultStoreDir() string {
	return filepath.Join(UserTCSecretsSettings.UserConfigsPath, "store")
}
