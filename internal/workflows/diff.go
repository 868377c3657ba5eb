package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/secrets"
	"github.com/PolarWolf314/tc-secrets/internal/store"
)

// DiffOptions configures the diff workflow.
type DiffOptions struct {
	// Path is the local secrets file.
	Path string

	// Cipher decrypts the remote field.
	Cipher secrets.Cipher

	// Store holds the remote secret records.
	Store store.Store
}

// DiffResult holds both sides of a comparison.
type DiffResult struct {
	Path     string
	SecretID string
	FieldID  string

	LocalContent  string
	RemoteContent string

	LocalVersion  int
	RemoteVersion int

	// Action is what Sync would do with these two sides.
	Action Action
}

// Identical reports whether both sides hold the same secrets.
func (r *DiffResult) Identical() bool {
	return r.Action == ActionUpToDate
}

// Diff loads the local file and its remote field for display. Nothing is
// written.
//
// Returns ErrFileNotFound if the file does not exist.
func Diff(ctx context.Context, opts DiffOptions) (*DiffResult, error) {
	if _, err := os.Stat(opts.Path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, opts.Path)
	}

	local, err := secrets.LoadDocument(opts.Path)
	if err != nil {
		return nil, err
	}

	secretID, fieldID, err := requireRefs(local)
	if err != nil {
		return nil, err
	}

	_, remote, err := loadRemote(ctx, opts.Store, opts.Cipher, secretID, fieldID)
	if err != nil {
		return nil, err
	}

	result := &DiffResult{
		Path:          opts.Path,
		SecretID:      secretID,
		FieldID:       fieldID,
		LocalContent:  local.Content,
		RemoteContent: remote.Content,
		LocalVersion:  local.VersionOrZero(),
		RemoteVersion: remote.VersionOrZero(),
	}
	result.Action = Decide(result.LocalVersion, result.RemoteVersion, local.Payload() == remote.Payload())

	return result, nil
}
