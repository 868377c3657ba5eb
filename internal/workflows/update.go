package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/tc-secrets/internal/audit"
	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/secrets"
)

// UpdateOptions configures the update workflow.
type UpdateOptions struct {
	// Path is the local secrets file.
	Path string
}

// UpdateResult contains the outcome of an update operation.
type UpdateResult struct {
	// Path is the local secrets file.
	Path string

	// OldVersion is the version before the bump. Unversioned files count as 0.
	OldVersion int

	// NewVersion is the version written to the file.
	NewVersion int
}

// Update bumps the version header of the local file by one so the next Sync
// pushes it.
//
// Returns ErrFileNotFound if the file does not exist.
// Returns ErrInvalidDocument if the file has no secret ID header or its
// version cannot be raised.
func Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	if _, err := os.Stat(opts.Path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, opts.Path)
	}

	doc, err := secrets.LoadDocument(opts.Path)
	if err != nil {
		return nil, err
	}

	oldVersion := doc.VersionOrZero()
	if oldVersion >= secrets.MaxVersion {
		return nil, fmt.Errorf("%w: %s is at the highest version %d", kerrors.ErrInvalidDocument, opts.Path, oldVersion)
	}
	doc.SetVersion(oldVersion + 1)

	if err := doc.Write(); err != nil {
		return nil, err
	}

	entry := audit.LogWithUser("update")
	entry.File = opts.Path
	entry.SecretID = doc.SecretIDOrEmpty()
	entry.FieldID = doc.FieldIDOrEmpty()
	entry.LocalVersion = oldVersion
	audit.Log(entry)

	return &UpdateResult{
		Path:       opts.Path,
		OldVersion: oldVersion,
		NewVersion: oldVersion + 1,
	}, nil
}
