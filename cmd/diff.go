package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/tc-secrets/internal/ui"
	"github.com/PolarWolf314/tc-secrets/internal/workflows"

	"github.com/spf13/cobra"
)

var diffFilepath string

func init() {
	diffCmd.Flags().StringVarP(&diffFilepath, "filepath", "f", "", "path to the local secrets file")
	addPasswordFlags(diffCmd)
	_ = diffCmd.MarkFlagRequired("filepath")
}

func resetDiffCommandState() {
	diffFilepath = ""
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show the differences between a local secrets file and its remote field",
	Long: `Prints a unified diff from the remote secret field to the local secrets
file. Nothing is written.

Examples:
  tc-secrets diff -f .env
  tc-secrets diff -f .env -p hunter2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting diff command")
		spinner, cleanup := startSpinner("Fetching remote secret...", verbose)
		defer cleanup()

		cipher, err := newCipher()
		if err != nil {
			return fail(spinner, err)
		}

		_, st, err := loadEnvironment()
		if err != nil {
			return fail(spinner, err)
		}

		result, err := workflows.Diff(context.Background(), workflows.DiffOptions{
			Path:   diffFilepath,
			Cipher: cipher,
			Store:  st,
		})
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Debugf("Local v%d, remote v%d, sync would %s", result.LocalVersion, result.RemoteVersion, result.Action)

		spinner.Stop()
		fmt.Printf("Comparing local file %s with remote secret %s\n",
			ui.Path.Sprint(result.Path), ui.Ref(result.SecretID, result.FieldID))

		rendered := ui.RenderDiff(
			"remote/"+result.SecretID+"/"+result.FieldID,
			"local/"+result.Path,
			result.RemoteContent,
			result.LocalContent,
		)
		if rendered == "" {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " No differences"
			return nil
		}

		fmt.Print(ui.EnsureNewline(rendered))
		if result.Identical() {
			spinner.FinalMSG = ui.Info.Sprint("→") + " Only the headers differ."
		}
		return nil
	},
}
