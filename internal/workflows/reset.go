package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/tc-secrets/internal/audit"
	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/secrets"
	"github.com/PolarWolf314/tc-secrets/internal/store"
	"github.com/PolarWolf314/tc-secrets/internal/utils"
)

// DefaultBackupSuffix is appended to the local path for reset backups.
const DefaultBackupSuffix = ".bak"

// ResetOptions configures the reset workflow.
type ResetOptions struct {
	// Path is the local secrets file. It may not exist yet.
	Path string

	// SecretID and FieldID select the remote field. When empty, the
	// references in the local file are used.
	SecretID string
	FieldID  string

	// Cipher decrypts the remote field.
	Cipher secrets.Cipher

	// Store holds the remote secret records.
	Store store.Store

	// Backup copies an existing local file before it is overwritten.
	Backup bool

	// BackupSuffix names the backup copy. Defaults to DefaultBackupSuffix.
	BackupSuffix string
}

// ResetResult contains the outcome of a reset operation.
type ResetResult struct {
	// Path is the local secrets file.
	Path string

	// SecretID and FieldID identify the remote field that was written.
	SecretID string
	FieldID  string

	// Version is the version of the written document.
	Version int

	// BackupPath is where the previous file was copied. Empty when no
	// backup was made.
	BackupPath string
}

// Reset overwrites the local file with the remote field regardless of
// versions. With both references given, a local file that does not parse is
// still replaced; it then counts as version 0 in the audit log.
//
// Returns ErrInvalidDocument if no secret or field reference is known.
func Reset(ctx context.Context, opts ResetOptions) (*ResetResult, error) {
	local, err := secrets.LoadDocument(opts.Path)
	if err != nil {
		if opts.SecretID == "" || opts.FieldID == "" || !errors.Is(err, kerrors.ErrInvalidDocument) {
			return nil, err
		}
		local = &secrets.Document{Path: opts.Path}
	}

	secretID := opts.SecretID
	if secretID == "" {
		secretID = local.SecretIDOrEmpty()
	}
	fieldID := opts.FieldID
	if fieldID == "" {
		fieldID = local.FieldIDOrEmpty()
	}
	if secretID == "" || fieldID == "" {
		return nil, fmt.Errorf("%w: %s has no secret and field reference, pass them explicitly", kerrors.ErrInvalidDocument, opts.Path)
	}

	_, remote, err := loadRemote(ctx, opts.Store, opts.Cipher, secretID, fieldID)
	if err != nil {
		return nil, err
	}
	remote.SetVersion(remote.VersionOrZero())
	remote.Path = opts.Path

	result := &ResetResult{
		Path:     opts.Path,
		SecretID: remote.SecretIDOrEmpty(),
		FieldID:  remote.FieldIDOrEmpty(),
		Version:  remote.VersionOrZero(),
	}

	if opts.Backup && utils.FileExists(opts.Path) {
		suffix := opts.BackupSuffix
		if suffix == "" {
			suffix = DefaultBackupSuffix
		}
		backupPath := opts.Path + suffix
		if err := utils.CopyFile(opts.Path, backupPath); err != nil {
			return nil, fmt.Errorf("%w: backing up %s: %v", kerrors.ErrIO, opts.Path, err)
		}
		result.BackupPath = backupPath
	}

	if err := remote.Write(); err != nil {
		if result.BackupPath != "" {
			_ = os.Remove(result.BackupPath)
		}
		return nil, err
	}

	entry := audit.LogWithUser("reset")
	entry.File = opts.Path
	entry.SecretID = result.SecretID
	entry.FieldID = result.FieldID
	entry.LocalVersion = local.VersionOrZero()
	entry.RemoteVersion = result.Version
	entry.BackupPath = result.BackupPath
	audit.Log(entry)

	return result, nil
}
