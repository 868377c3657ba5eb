package cmd

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/PolarWolf314/tc-secrets/internal/logging"
	"github.com/PolarWolf314/tc-secrets/internal/ui"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "tc-secrets",
		Short: "Sync a local .env file with a field of a remote secret",
		Long: `tc-secrets keeps a local secrets file in step with one field of a remote
secret record (AWS Secrets Manager by default).

The file carries its own version and the secret and field it belongs to in
header lines:

  #do-not-edit--secrets-version 3
  #do-not-edit--secrets-id team/backend
  #do-not-edit--secrets-field-id dev

Field contents are encrypted with a password before they leave the machine.

Usage:
  tc-secrets <command> [flags]

Run 'tc-secrets help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			figure.NewColorFigure("tc-secrets", "alligator2", "green", true).Print()
			fmt.Println()
			fmt.Println("Run " + ui.Code.Sprint("tc-secrets --help") + " to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(authCmd)
	RootCmd.AddCommand(syncCmd)
	RootCmd.AddCommand(diffCmd)
	RootCmd.AddCommand(updateCmd)
	RootCmd.AddCommand(resetCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// Execute runs the root command. Errors already shown to the user by a
// command are not printed again.
func Execute() error {
	err := RootCmd.Execute()
	if err == nil {
		return nil
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("Error:")+" "+err.Error())
	}
	return err
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	Logger = logger.Logger{}
	resetPasswordState()
	resetAuthCommandState()
	resetSyncCommandState()
	resetDiffCommandState()
	resetUpdateCommandState()
	resetResetCommandState()
	resetStatusCommandState()
	resetLogCommandState()
	resetConfigInitState()
	resetConfigShowState()
}
