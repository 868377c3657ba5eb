package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/tc-secrets/internal/audit"
	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/secrets"
	"github.com/PolarWolf314/tc-secrets/internal/store"
)

// Action is the reconciliation step chosen for a secrets file.
type Action string

const (
	// ActionPull overwrites the local file with the remote field.
	ActionPull Action = "pull"
	// ActionPush overwrites the remote field with the local file.
	ActionPush Action = "push"
	// ActionConflict means both sides share a version but hold different
	// secrets. Nothing is written.
	ActionConflict Action = "conflict"
	// ActionUpToDate means both sides already match.
	ActionUpToDate Action = "up-to-date"
	// ActionDownload creates a missing local file from a selected field.
	ActionDownload Action = "download"
)

// Mutates reports whether performing the action writes anything.
func (a Action) Mutates() bool {
	return a == ActionPull || a == ActionPush || a == ActionDownload
}

// Decide picks the action for a local version lv and remote version rv.
// samePayload reports whether both documents hold the same secrets.
func Decide(lv, rv int, samePayload bool) Action {
	switch {
	case lv < rv:
		return ActionPull
	case lv > rv:
		return ActionPush
	case samePayload:
		return ActionUpToDate
	default:
		return ActionConflict
	}
}

// SyncOptions configures the sync workflow.
type SyncOptions struct {
	// Path is the local secrets file.
	Path string

	// Cipher encrypts and decrypts field content.
	Cipher secrets.Cipher

	// Store holds the remote secret records.
	Store store.Store

	// Selector picks the secret and field to download when Path does not
	// exist. Only used in that case.
	Selector Selector

	// DryRun decides the action without performing it.
	DryRun bool
}

// SyncResult contains the outcome of a sync operation.
type SyncResult struct {
	// Path is the local secrets file.
	Path string

	// Action is the reconciliation step that was chosen.
	Action Action

	// SecretID and FieldID identify the remote field.
	SecretID string
	FieldID  string

	// LocalVersion and RemoteVersion are the versions compared. Unversioned
	// documents count as 0.
	LocalVersion  int
	RemoteVersion int

	// DryRun indicates whether this was a dry-run.
	DryRun bool
}

// Sync reconciles the local secrets file with its remote field.
//
// When the file does not exist the secret and field are chosen through
// opts.Selector and downloaded. Otherwise exactly one of pull, push,
// conflict or up-to-date is performed, as picked by Decide.
//
// Returns ErrInvalidDocument if the file lacks its secret or field header.
// Returns ErrDecryptFailed if the remote field cannot be decrypted.
// Returns ErrSecretFormat if the remote record or field is malformed.
func Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	if _, err := os.Stat(opts.Path); errors.Is(err, fs.ErrNotExist) {
		return download(ctx, opts)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrIO, opts.Path, err)
	}

	local, err := secrets.LoadDocument(opts.Path)
	if err != nil {
		return nil, err
	}

	secretID, fieldID, err := requireRefs(local)
	if err != nil {
		return nil, err
	}

	record, remote, err := loadRemote(ctx, opts.Store, opts.Cipher, secretID, fieldID)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{
		Path:          opts.Path,
		SecretID:      secretID,
		FieldID:       fieldID,
		LocalVersion:  local.VersionOrZero(),
		RemoteVersion: remote.VersionOrZero(),
		DryRun:        opts.DryRun,
	}
	result.Action = Decide(result.LocalVersion, result.RemoteVersion, local.Payload() == remote.Payload())

	if opts.DryRun {
		return result, nil
	}

	switch result.Action {
	case ActionPull:
		remote.Path = local.Path
		remote.SetVersion(result.RemoteVersion)
		if err := remote.Write(); err != nil {
			return nil, err
		}

	case ActionPush:
		ciphertext, err := opts.Cipher.Encrypt(local.Content)
		if err != nil {
			return nil, err
		}
		record.SetField(fieldID, ciphertext)

		payload, err := record.Serialize()
		if err != nil {
			return nil, err
		}
		if err := opts.Store.Put(ctx, secretID, payload); err != nil {
			return nil, err
		}
	}

	if result.Action.Mutates() {
		logSync(result)
	}

	return result, nil
}

// download materializes a remote field chosen through opts.Selector into
// the missing file at opts.Path.
func download(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	if opts.Selector == nil {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, opts.Path)
	}

	names, err := opts.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	secretID, err := selectOne(opts.Selector,
		fmt.Sprintf("No local file found at %s. Select a secret to download", opts.Path), names)
	if err != nil {
		return nil, err
	}

	record, err := secrets.LoadRecord(ctx, opts.Store, secretID)
	if err != nil {
		return nil, err
	}

	fieldID, err := selectOne(opts.Selector,
		fmt.Sprintf("Select a field to load from secret %s", secretID), record.FieldNames())
	if err != nil {
		return nil, err
	}

	_, doc, err := loadRemote(ctx, opts.Store, opts.Cipher, secretID, fieldID)
	if err != nil {
		return nil, err
	}
	if doc.Version == nil {
		doc.SetVersion(1)
	}
	doc.Path = opts.Path

	result := &SyncResult{
		Path:          opts.Path,
		Action:        ActionDownload,
		SecretID:      doc.SecretIDOrEmpty(),
		FieldID:       doc.FieldIDOrEmpty(),
		RemoteVersion: doc.VersionOrZero(),
		DryRun:        opts.DryRun,
	}

	if opts.DryRun {
		return result, nil
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", kerrors.ErrIO, dir, err)
		}
	}

	if err := doc.Write(); err != nil {
		return nil, err
	}

	logSync(result)
	return result, nil
}

func logSync(result *SyncResult) {
	entry := audit.LogWithUser("sync")
	entry.File = result.Path
	entry.SecretID = result.SecretID
	entry.FieldID = result.FieldID
	entry.Action = string(result.Action)
	entry.LocalVersion = result.LocalVersion
	entry.RemoteVersion = result.RemoteVersion
	audit.Log(entry)
}
