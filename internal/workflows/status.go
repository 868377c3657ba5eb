package workflows

import (
	"context"
	"path/filepath"

	"github.com/PolarWolf314/tc-secrets/internal/secrets"
	"github.com/PolarWolf314/tc-secrets/internal/store"
)

// StatusUntracked marks a file without secret and field headers.
const StatusUntracked Action = "untracked"

// StatusError marks a file whose status could not be determined.
const StatusError Action = "error"

// FileStatusInfo holds what Sync would do for one file.
type FileStatusInfo struct {
	// Path is the file path relative to the status root.
	Path string

	SecretID string
	FieldID  string

	LocalVersion  int
	RemoteVersion int

	// Action is the decision, StatusUntracked or StatusError.
	Action Action

	// Err is set when Action is StatusError.
	Err error
}

// StatusSummary holds counts of files by action.
type StatusSummary struct {
	Pull      int
	Push      int
	Conflict  int
	UpToDate  int
	Untracked int
	Errors    int
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// Root is the directory patterns are resolved against.
	Root string

	// Patterns are paths or doublestar globs. Defaults to
	// secrets.DefaultPatterns.
	Patterns []string

	// BackupSuffix excludes reset backups from discovery.
	BackupSuffix string

	// Cipher decrypts remote fields.
	Cipher secrets.Cipher

	// Store holds the remote secret records.
	Store store.Store
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	// Files contains the status of each discovered file, sorted by path.
	Files []FileStatusInfo

	// Summary contains counts of files by action.
	Summary StatusSummary
}

// Status reports what Sync would do for every discovered secrets file
// without writing anything. Each remote secret is fetched at most once.
// Failures for a single file are reported in its entry.
//
// Returns ErrNoFilesFound if no file matches.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}

	paths, err := secrets.ResolveFiles(opts.Patterns, root, opts.BackupSuffix)
	if err != nil {
		return nil, err
	}

	records := make(map[string]*secrets.Record)
	result := &StatusResult{}

	for _, path := range paths {
		info := fileStatus(ctx, opts, records, path)
		if rel, err := filepath.Rel(root, path); err == nil {
			info.Path = rel
		}
		result.Files = append(result.Files, info)
	}

	result.Summary = calculateStatusSummary(result.Files)
	return result, nil
}

func fileStatus(ctx context.Context, opts StatusOptions, records map[string]*secrets.Record, path string) FileStatusInfo {
	info := FileStatusInfo{Path: path}

	local, err := secrets.LoadDocument(path)
	if err != nil {
		info.Action, info.Err = StatusError, err
		return info
	}

	info.SecretID = local.SecretIDOrEmpty()
	info.FieldID = local.FieldIDOrEmpty()
	info.LocalVersion = local.VersionOrZero()

	if local.SecretID == nil || local.FieldID == nil {
		info.Action = StatusUntracked
		return info
	}

	record, ok := records[info.SecretID]
	if !ok {
		record, err = secrets.LoadRecord(ctx, opts.Store, info.SecretID)
		if err != nil {
			info.Action, info.Err = StatusError, err
			return info
		}
		records[info.SecretID] = record
	}

	remote, err := remoteDocument(record, opts.Cipher, info.SecretID, info.FieldID)
	if err != nil {
		info.Action, info.Err = StatusError, err
		return info
	}

	info.RemoteVersion = remote.VersionOrZero()
	info.Action = Decide(info.LocalVersion, info.RemoteVersion, local.Payload() == remote.Payload())
	return info
}

// calculateStatusSummary counts files by action.
func calculateStatusSummary(files []FileStatusInfo) StatusSummary {
	var summary StatusSummary
	for _, f := range files {
		switch f.Action {
		case ActionPull:
			summary.Pull++
		case ActionPush:
			summary.Push++
		case ActionConflict:
			summary.Conflict++
		case ActionUpToDate:
			summary.UpToDate++
		case StatusUntracked:
			summary.Untracked++
		case StatusError:
			summary.Errors++
		}
	}
	return summary
}
