package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/tc-secrets/internal/configs"
	"github.com/PolarWolf314/tc-secrets/internal/store"
	"github.com/PolarWolf314/tc-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var (
	configInitName    string
	configInitBackend string
	configInitDir     string
	configInitProfile string
	configInitRegion  string
	configInitYes     bool
)

func init() {
	configInitCmd.Flags().StringVarP(&configInitName, "name", "n", "", "your display name in the audit log")
	configInitCmd.Flags().StringVar(&configInitBackend, "backend", "", "secret store backend (aws or dir)")
	configInitCmd.Flags().StringVar(&configInitDir, "dir", "", "directory of the dir backend")
	configInitCmd.Flags().StringVar(&configInitProfile, "profile", "", "AWS shared config profile")
	configInitCmd.Flags().StringVar(&configInitRegion, "region", "", "AWS region")
	configInitCmd.Flags().BoolVarP(&configInitYes, "yes", "y", false, "accept defaults instead of prompting")
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitName = ""
	configInitBackend = ""
	configInitDir = ""
	configInitProfile = ""
	configInitRegion = ""
	configInitYes = false
}

// promptForInput prompts the user for input with an optional default value.
func promptForInput(reader *bufio.Reader, prompt, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" && defaultValue != "" {
		return defaultValue, nil
	}
	return input, nil
}

// resolveValue returns the flag value when set, the default when prompting
// is disabled, and otherwise asks the user.
func resolveValue(reader *bufio.Reader, flagValue, prompt, defaultValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if configInitYes {
		return defaultValue, nil
	}
	return promptForInput(reader, prompt, defaultValue)
}

// RunConfigInit writes the user configuration, prompting for every value
// not given as a flag.
func RunConfigInit() (*configs.UserConfig, error) {
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	if !configInitYes {
		fmt.Println(ui.Info.Sprint("Welcome to tc-secrets!") + " Let's set up your configuration.")
		fmt.Println()
	}

	name, err := resolveValue(reader, configInitName, "Display name", userConfig.User.Name)
	if err != nil {
		return nil, err
	}

	backend, err := resolveValue(reader, configInitBackend, "Secret store backend (aws or dir)", userConfig.Store.Backend)
	if err != nil {
		return nil, err
	}
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend != store.BackendAWS && backend != store.BackendDir {
		return nil, fmt.Errorf("invalid backend: %s (must be %s or %s)", backend, store.BackendAWS, store.BackendDir)
	}

	switch backend {
	case store.BackendAWS:
		profile, err := resolveValue(reader, configInitProfile, "AWS profile", userConfig.AWS.Profile)
		if err != nil {
			return nil, err
		}
		region, err := resolveValue(reader, configInitRegion, "AWS region", userConfig.AWS.Region)
		if err != nil {
			return nil, err
		}
		userConfig.AWS.Profile = profile
		userConfig.AWS.Region = region
	case store.BackendDir:
		dir, err := resolveValue(reader, configInitDir, "Store directory", userConfig.StoreDir())
		if err != nil {
			return nil, err
		}
		userConfig.Store.Dir = dir
	}

	userConfig.User.Name = name
	userConfig.Store.Backend = backend
	if userConfig.User.UUID == "" {
		userConfig.User.UUID = configs.GenerateUserUUID()
	}

	if err := configs.SaveUserConfig(userConfig); err != nil {
		return nil, err
	}

	return userConfig, nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize your user configuration",
	Long: `Creates or updates the tc-secrets user configuration.

The command prompts for:
  - Display name (used in the audit log)
  - Secret store backend (aws or dir)
  - AWS profile and region, or the store directory for the dir backend

Values given as flags are not prompted for. Use --yes to accept the
current values for everything else.

Examples:
  # Interactive setup
  tc-secrets config init

  # Non-interactive setup
  tc-secrets config init --backend aws --profile tc-secrets-cli-profile --region eu-west-1 --yes

  # Offline store in a directory
  tc-secrets config init --backend dir --dir ~/secrets-store --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		userConfig, err := RunConfigInit()
		if err != nil {
			return fail(nil, err)
		}
		Logger.Infof("Saved user config with backend %s", userConfig.Store.Backend)

		fmt.Println()
		fmt.Println(ui.Success.Sprint("✓") + " User configuration saved to " + ui.Path.Sprint(configs.ConfigPath()))
		fmt.Println()
		fmt.Println("Your settings:")
		if userConfig.User.Name != "" {
			fmt.Println("  Name:    " + ui.Highlight.Sprint(userConfig.User.Name))
		}
		fmt.Println("  Backend: " + ui.Highlight.Sprint(userConfig.Store.Backend))
		if userConfig.Store.Backend == store.BackendDir {
			fmt.Println("  Store:   " + ui.Path.Sprint(userConfig.StoreDir()))
		} else {
			fmt.Println("  Profile: " + ui.Highlight.Sprint(userConfig.AWS.Profile))
			fmt.Println("  Region:  " + ui.Highlight.Sprint(userConfig.AWS.Region))
		}
		fmt.Println("  User ID: " + ui.Highlight.Sprint(userConfig.User.UUID))
		return nil
	},
}
