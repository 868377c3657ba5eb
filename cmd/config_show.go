package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/tc-secrets/internal/configs"
	"github.com/PolarWolf314/tc-secrets/internal/store"
	"github.com/PolarWolf314/tc-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Displays the configuration in effect: the values from config.toml with
defaults filled in and environment overrides applied.

Examples:
  tc-secrets config show
  tc-secrets config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		Logger.Debugf("Loading user config from %s", configs.ConfigPath())
		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return fail(nil, err)
		}

		if configShowJSON {
			return outputUserConfigJSON(userConfig)
		}
		outputUserConfigText(userConfig)
		return nil
	},
}

// outputUserConfigJSON outputs user config in JSON format.
func outputUserConfigJSON(config *configs.UserConfig) error {
	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
	}
	fmt.Println(string(output))
	return nil
}

// outputUserConfigText outputs user config in human-readable format.
func outputUserConfigText(config *configs.UserConfig) {
	fmt.Println(ui.Info.Sprint("User Configuration") + " (" + ui.Path.Sprint(configs.ConfigPath()) + "):")
	fmt.Println()
	if config.User.Name != "" {
		fmt.Printf("  %-16s %s\n", "Name:", ui.Success.Sprint(config.User.Name))
	}
	if config.User.UUID != "" {
		fmt.Printf("  %-16s %s\n", "User ID:", ui.Warning.Sprint(config.User.UUID))
	}
	fmt.Printf("  %-16s %s\n", "Backend:", ui.Success.Sprint(config.Store.Backend))
	if strings.EqualFold(config.Store.Backend, store.BackendDir) {
		fmt.Printf("  %-16s %s\n", "Store:", ui.Path.Sprint(config.StoreDir()))
	} else {
		fmt.Printf("  %-16s %s\n", "Profile:", ui.Success.Sprint(config.AWS.Profile))
		fmt.Printf("  %-16s %s\n", "Region:", ui.Success.Sprint(config.AWS.Region))
		if config.AWS.SSOStartURL != "" {
			fmt.Printf("  %-16s %s\n", "SSO Start URL:", config.AWS.SSOStartURL)
		}
		if config.AWS.SSORegion != "" {
			fmt.Printf("  %-16s %s\n", "SSO Region:", config.AWS.SSORegion)
		}
	}
	fmt.Printf("  %-16s %s\n", "Backup Suffix:", ui.Code.Sprint(config.Sync.BackupSuffix))
	if len(config.Sync.StatusPatterns) > 0 {
		fmt.Printf("  %-16s %s\n", "Status Patterns:", strings.Join(config.Sync.StatusPatterns, ", "))
	}
}
