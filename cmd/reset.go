package cmd

import (
	"context"

	"github.com/PolarWolf314/tc-secrets/internal/ui"
	"github.com/PolarWolf314/tc-secrets/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	resetFilepath string
	resetSecretID string
	resetFieldID  string
	resetNoBackup bool
)

func init() {
	resetCmd.Flags().StringVarP(&resetFilepath, "filepath", "f", "", "path to the local secrets file")
	resetCmd.Flags().StringVar(&resetSecretID, "secret", "", "secret to restore from (defaults to the file's header)")
	resetCmd.Flags().StringVar(&resetFieldID, "field", "", "field to restore from (defaults to the file's header)")
	resetCmd.Flags().BoolVar(&resetNoBackup, "no-backup", false, "do not keep a copy of the overwritten file")
	addPasswordFlags(resetCmd)
	_ = resetCmd.MarkFlagRequired("filepath")
	resetCmd.MarkFlagsRequiredTogether("secret", "field")
}

func resetResetCommandState() {
	resetFilepath = ""
	resetSecretID = ""
	resetFieldID = ""
	resetNoBackup = false
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite a local secrets file with its remote field",
	Long: `Replaces the local secrets file with the content of the remote secret
field, whatever the versions. This is how a conflict is resolved in favour of
the remote side, and how a broken file is restored.

The previous file is kept next to it with the configured backup suffix
unless --no-backup is given.

Examples:
  tc-secrets reset -f .env
  tc-secrets reset -f .env --secret team/backend --field dev
  tc-secrets reset -f .env --no-backup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting reset command")
		spinner, cleanup := startSpinner("Restoring secrets file...", verbose)
		defer cleanup()

		cipher, err := newCipher()
		if err != nil {
			return fail(spinner, err)
		}

		cfg, st, err := loadEnvironment()
		if err != nil {
			return fail(spinner, err)
		}

		result, err := workflows.Reset(context.Background(), workflows.ResetOptions{
			Path:         resetFilepath,
			SecretID:     resetSecretID,
			FieldID:      resetFieldID,
			Cipher:       cipher,
			Store:        st,
			Backup:       !resetNoBackup,
			BackupSuffix: cfg.Sync.BackupSuffix,
		})
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Infof("Reset %s from %s/%s at v%d", result.Path, result.SecretID, result.FieldID, result.Version)

		msg := ui.Success.Sprint("✓") + " Restored " + ui.Path.Sprint(result.Path) + " from " +
			ui.Ref(result.SecretID, result.FieldID) + " at version " + ui.Version.Sprint(result.Version)
		if result.BackupPath != "" {
			msg += "\n" + ui.Info.Sprint("→") + " Previous file saved to " + ui.Path.Sprint(result.BackupPath)
		}
		spinner.FinalMSG = msg
		return nil
	},
}
