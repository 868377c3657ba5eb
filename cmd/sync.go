package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/tc-secrets/internal/ui"
	"github.com/PolarWolf314/tc-secrets/internal/workflows"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	syncFilepath string
	syncDryRun   bool
)

func init() {
	syncCmd.Flags().StringVarP(&syncFilepath, "filepath", "f", "", "path to the local secrets file")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "preview sync without making changes")
	addPasswordFlags(syncCmd)
	_ = syncCmd.MarkFlagRequired("filepath")
}

func resetSyncCommandState() {
	syncFilepath = ""
	syncDryRun = false
}

// selector is the terminal selector used for downloads. Tests replace it.
var selector workflows.Selector = ui.PromptSelector{}

// spinnerSelector stops the spinner before handing the terminal to the
// selection prompt.
type spinnerSelector struct {
	spinner *spinner.Spinner
	inner   workflows.Selector
}

func (s spinnerSelector) Select(label string, items []string) (int, error) {
	s.spinner.Stop()
	return s.inner.Select(label, items)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize a local secrets file with its remote secret field",
	Long: `Compares the version of the local secrets file with the version stored in
its remote secret field and brings the older side up to date:

  - local older than remote:  the local file is overwritten (pull)
  - local newer than remote:  the remote field is overwritten (push)
  - same version, same body:  nothing happens
  - same version, different body:  conflict, nothing is written

When the file does not exist yet, you are asked to pick a secret and a field
to download into it.

Use --dry-run to preview what would happen without making changes.

Examples:
  tc-secrets sync -f .env
  tc-secrets sync -f .env -p hunter2
  tc-secrets sync -f .env --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting sync command")
		spinner, cleanup := startSpinner("Syncing secrets...", verbose)
		defer cleanup()

		cipher, err := newCipher()
		if err != nil {
			return fail(spinner, err)
		}

		_, st, err := loadEnvironment()
		if err != nil {
			return fail(spinner, err)
		}

		Logger.Debugf("Syncing %s (dry-run=%t)", syncFilepath, syncDryRun)
		result, err := workflows.Sync(context.Background(), workflows.SyncOptions{
			Path:     syncFilepath,
			Cipher:   cipher,
			Store:    st,
			Selector: spinnerSelector{spinner: spinner, inner: selector},
			DryRun:   syncDryRun,
		})
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Infof("Sync decided %s (local v%d, remote v%d)", result.Action, result.LocalVersion, result.RemoteVersion)

		if result.DryRun {
			spinner.Stop()
			printSyncDryRun(result)
			return nil
		}

		spinner.FinalMSG = formatSyncResult(result)
		if result.Action == workflows.ActionConflict {
			return &reportedError{err: fmt.Errorf("conflict between %s and %s", result.Path, ui.Ref(result.SecretID, result.FieldID))}
		}
		return nil
	},
}

func formatSyncResult(result *workflows.SyncResult) string {
	ref := ui.Ref(result.SecretID, result.FieldID)
	path := ui.Path.Sprint(result.Path)

	switch result.Action {
	case workflows.ActionDownload:
		return ui.Success.Sprint("✓") + " Downloaded and saved the secret " + ref + " to " + path
	case workflows.ActionPull:
		return ui.Success.Sprint("✓") + " The local secret file is outdated. Updated to version " +
			ui.Version.Sprint(result.RemoteVersion)
	case workflows.ActionPush:
		return ui.Success.Sprint("✓") + " The remote secret has been updated with the local secret file version " +
			ui.Version.Sprint(result.LocalVersion)
	case workflows.ActionConflict:
		return ui.Error.Sprint("✗") + " " + path + " and " + ref + " are both at version " +
			ui.Version.Sprint(result.LocalVersion) + " but hold different secrets\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tc-secrets diff -f "+result.Path) + " to compare them, then " +
			ui.Code.Sprint("tc-secrets update -f "+result.Path) + " to keep the local file or " +
			ui.Code.Sprint("tc-secrets reset -f "+result.Path) + " to keep the remote one"
	default:
		return ui.Success.Sprint("✓") + " The local secret file is up to date!"
	}
}

// printSyncDryRun displays what would happen during a sync operation.
func printSyncDryRun(result *workflows.SyncResult) {
	ref := ui.Ref(result.SecretID, result.FieldID)
	path := ui.Path.Sprint(result.Path)

	fmt.Println()
	fmt.Println(ui.Warning.Sprint("[dry-run]") + " Would sync " + path + " with " + ref + ":")
	fmt.Println()

	switch result.Action {
	case workflows.ActionDownload:
		fmt.Printf("  - Download %s into %s at version %s\n", ref, path, ui.Version.Sprint(result.RemoteVersion))
	case workflows.ActionPull:
		fmt.Printf("  - Overwrite %s with remote version %s (local is %s)\n", path,
			ui.Version.Sprint(result.RemoteVersion), ui.Version.Sprint(result.LocalVersion))
	case workflows.ActionPush:
		fmt.Printf("  - Overwrite %s with local version %s (remote is %s)\n", ref,
			ui.Version.Sprint(result.LocalVersion), ui.Version.Sprint(result.RemoteVersion))
	case workflows.ActionConflict:
		fmt.Printf("  - Nothing: both sides are at version %s but differ (conflict)\n", ui.Version.Sprint(result.LocalVersion))
	default:
		fmt.Println("  - Nothing: already up to date")
	}

	fmt.Println()
	fmt.Println(ui.Info.Sprint("No changes made.") + " Run without " + ui.Code.Sprint("--dry-run") + " to execute.")
}
