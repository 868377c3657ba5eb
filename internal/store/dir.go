package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
)

const dirExt = ".json"

// Dir is a Store keeping one file per secret in a local directory.
type Dir struct {
	root string
}

// NewDir returns a store rooted at root. The directory is created on the
// first Put.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) path(id string) string {
	return filepath.Join(d.root, url.PathEscape(id)+dirExt)
}

func (d *Dir) Fetch(_ context.Context, id string) (string, error) {
	data, err := os.ReadFile(d.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %w: %s", kerrors.ErrStoreOperation, kerrors.ErrSecretNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("%w: reading secret %s: %v", kerrors.ErrStoreOperation, id, err)
	}
	return string(data), nil
}

func (d *Dir) Put(_ context.Context, id, payload string) error {
	if err := os.MkdirAll(d.root, 0700); err != nil {
		return fmt.Errorf("%w: creating %s: %v", kerrors.ErrStoreOperation, d.root, err)
	}
	if err := os.WriteFile(d.path(id), []byte(payload), 0600); err != nil {
		return fmt.Errorf("%w: writing secret %s: %v", kerrors.ErrStoreOperation, id, err)
	}
	return nil
}

func (d *Dir) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", kerrors.ErrStoreOperation, d.root, err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, dirExt) {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(name, dirExt))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}

// Identity reports the local user; a directory store needs no credentials.
func (d *Dir) Identity(_ context.Context) (*Identity, error) {
	return &Identity{Account: "local", UserID: d.root, ARN: "file://" + filepath.ToSlash(d.root)}, nil
}
