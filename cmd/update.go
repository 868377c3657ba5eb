package cmd

import (
	"context"

	"github.com/PolarWolf314/tc-secrets/internal/ui"
	"github.com/PolarWolf314/tc-secrets/internal/workflows"

	"github.com/spf13/cobra"
)

var updateFilepath string

func init() {
	updateCmd.Flags().StringVarP(&updateFilepath, "filepath", "f", "", "path to the local secrets file")
	_ = updateCmd.MarkFlagRequired("filepath")
}

func resetUpdateCommandState() {
	updateFilepath = ""
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Bump the version of a local secrets file",
	Long: `Increments the version header of the local secrets file by one so the
next sync pushes it to the remote field. Run it after editing the file.

Examples:
  tc-secrets update -f .env`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting update command")
		spinner, cleanup := startSpinner("Updating secrets file version...", verbose)
		defer cleanup()

		result, err := workflows.Update(context.Background(), workflows.UpdateOptions{Path: updateFilepath})
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Infof("Bumped %s from v%d to v%d", result.Path, result.OldVersion, result.NewVersion)

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Updated the version of the secret file to " +
			ui.Version.Sprint(result.NewVersion) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tc-secrets sync -f "+result.Path) + " to push it"
		return nil
	},
}
