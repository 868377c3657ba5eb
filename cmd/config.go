package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tc-secrets configuration",
	Long: `Provides commands for managing the user configuration stored in
config.toml under the tc-secrets config directory.

The configuration selects the secret store backend (aws or dir), the AWS
profile and region, the backup suffix used by reset and the default status
patterns. Environment variables override it:

  TC_SECRETS_BACKEND    store backend
  TC_SECRETS_STORE_DIR  directory of the dir backend
  TC_SECRETS_PROFILE    AWS shared config profile
  TC_SECRETS_REGION     AWS region

Examples:
  # Initialize your user configuration
  tc-secrets config init

  # Show the configuration in effect
  tc-secrets config show`,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}
