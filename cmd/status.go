package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/ui"
	"github.com/PolarWolf314/tc-secrets/internal/workflows"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
	addPasswordFlags(statusCmd)
}

func resetStatusCommandState() {
	statusJSONOutput = false
}

// statusFileJSON is the JSON form of a file status.
type statusFileJSON struct {
	Path          string `json:"path"`
	SecretID      string `json:"secret_id,omitempty"`
	FieldID       string `json:"field_id,omitempty"`
	LocalVersion  int    `json:"local_version"`
	RemoteVersion int    `json:"remote_version"`
	Action        string `json:"action"`
	Error         string `json:"error,omitempty"`
}

type statusSummaryJSON struct {
	Pull      int `json:"pull"`
	Push      int `json:"push"`
	Conflict  int `json:"conflict"`
	UpToDate  int `json:"up_to_date"`
	Untracked int `json:"untracked"`
	Errors    int `json:"errors"`
}

type statusJSON struct {
	Files   []statusFileJSON  `json:"files"`
	Summary statusSummaryJSON `json:"summary"`
}

var statusCmd = &cobra.Command{
	Use:   "status [PATTERN...]",
	Short: "Show what sync would do for every secrets file",
	Long: `Finds secrets files under the current directory and shows, for each one,
what sync would do with it. Nothing is written.

Patterns are paths, directories or globs (** is supported). Without
patterns the configured status patterns are used, or **/.env* when none are
configured. Backup copies made by reset are skipped.

Each file is reported as one of:
  - pull:       the remote field is newer
  - push:       the local file is newer
  - conflict:   same version, different secrets
  - up-to-date: nothing to do
  - untracked:  the file has no secret and field headers
  - error:      the file or its remote field could not be read

Examples:
  tc-secrets status
  tc-secrets status "services/**/.env"
  tc-secrets status --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")
		spinner, cleanup := startSpinner("Checking secrets files...", verbose)
		defer cleanup()

		cipher, err := newCipher()
		if err != nil {
			return fail(spinner, err)
		}

		cfg, st, err := loadEnvironment()
		if err != nil {
			return fail(spinner, err)
		}

		root, err := os.Getwd()
		if err != nil {
			return fail(spinner, err)
		}

		patterns := args
		if len(patterns) == 0 {
			patterns = cfg.Sync.StatusPatterns
		}
		Logger.Debugf("Resolving %v under %s", patterns, root)

		result, err := workflows.Status(context.Background(), workflows.StatusOptions{
			Root:         root,
			Patterns:     patterns,
			BackupSuffix: cfg.Sync.BackupSuffix,
			Cipher:       cipher,
			Store:        st,
		})
		if errors.Is(err, kerrors.ErrNoFilesFound) {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " No secrets files found."
			return nil
		}
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Infof("Checked %d file(s)", len(result.Files))

		spinner.Stop()
		if statusJSONOutput {
			return outputStatusJSON(result)
		}

		printStatusTable(result)
		return nil
	},
}

// outputStatusJSON outputs the result as JSON.
func outputStatusJSON(result *workflows.StatusResult) error {
	out := statusJSON{
		Files: make([]statusFileJSON, 0, len(result.Files)),
		Summary: statusSummaryJSON{
			Pull:      result.Summary.Pull,
			Push:      result.Summary.Push,
			Conflict:  result.Summary.Conflict,
			UpToDate:  result.Summary.UpToDate,
			Untracked: result.Summary.Untracked,
			Errors:    result.Summary.Errors,
		},
	}
	for _, f := range result.Files {
		entry := statusFileJSON{
			Path:          f.Path,
			SecretID:      f.SecretID,
			FieldID:       f.FieldID,
			LocalVersion:  f.LocalVersion,
			RemoteVersion: f.RemoteVersion,
			Action:        string(f.Action),
		}
		if f.Err != nil {
			entry.Error = f.Err.Error()
		}
		out.Files = append(out.Files, entry)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// printStatusTable prints a formatted table of file statuses.
func printStatusTable(result *workflows.StatusResult) {
	fmt.Println("Secrets files status:")
	fmt.Println()

	pathWidth := 30
	for _, file := range result.Files {
		if len(file.Path) > pathWidth {
			pathWidth = len(file.Path)
		}
	}
	if pathWidth > 60 {
		pathWidth = 60
	}

	fmt.Printf("  %-*s  %s\n", pathWidth, "FILE", "STATUS")

	for _, file := range result.Files {
		displayPath := file.Path
		if len(displayPath) > pathWidth {
			displayPath = "..." + displayPath[len(displayPath)-pathWidth+3:]
		}
		fmt.Printf("  %-*s  %s\n", pathWidth, displayPath, formatFileStatus(file))
	}

	fmt.Println()
	fmt.Println("Summary:")

	s := result.Summary
	if s.UpToDate > 0 {
		fmt.Printf("  %d file(s) up to date\n", s.UpToDate)
	}
	if s.Pull > 0 {
		fmt.Printf("  %d file(s) behind the remote (run '%s' to pull)\n", s.Pull, ui.Code.Sprint("tc-secrets sync -f FILE"))
	}
	if s.Push > 0 {
		fmt.Printf("  %d file(s) ahead of the remote (run '%s' to push)\n", s.Push, ui.Code.Sprint("tc-secrets sync -f FILE"))
	}
	if s.Conflict > 0 {
		fmt.Printf("  %d file(s) in conflict (run '%s' to compare)\n", s.Conflict, ui.Code.Sprint("tc-secrets diff -f FILE"))
	}
	if s.Untracked > 0 {
		fmt.Printf("  %d file(s) without secret headers\n", s.Untracked)
	}
	if s.Errors > 0 {
		fmt.Printf("  %d file(s) could not be checked\n", s.Errors)
	}
}

func formatFileStatus(file workflows.FileStatusInfo) string {
	versions := ui.Version.Sprint(file.LocalVersion) + " / " + ui.Version.Sprint(file.RemoteVersion)

	switch file.Action {
	case workflows.ActionUpToDate:
		return ui.Success.Sprint("✓") + " up to date " + versions
	case workflows.ActionPull:
		return ui.Warning.Sprint("↓") + " pull " + versions
	case workflows.ActionPush:
		return ui.Warning.Sprint("↑") + " push " + versions
	case workflows.ActionConflict:
		return ui.Error.Sprint("✗") + " conflict " + versions
	case workflows.StatusUntracked:
		return ui.Info.Sprint("◌") + " untracked"
	default:
		msg := "error"
		if file.Err != nil {
			msg += ": " + file.Err.Error()
		}
		return ui.Error.Sprint("✗") + " " + msg
	}
}
