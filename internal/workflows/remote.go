package workflows

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/secrets"
	"github.com/PolarWolf314/tc-secrets/internal/store"
)

// Selector picks one item out of a list. The CLI supplies an interactive
// implementation; workflows never read the terminal themselves.
type Selector interface {
	Select(label string, items []string) (int, error)
}

// requireRefs returns the secret and field references of doc, failing when
// either header is missing.
func requireRefs(doc *secrets.Document) (string, string, error) {
	if doc.SecretID == nil {
		return "", "", fmt.Errorf("%w: %s does not contain a secret ID", kerrors.ErrInvalidDocument, doc.Path)
	}
	if doc.FieldID == nil {
		return "", "", fmt.Errorf("%w: %s does not contain a field ID", kerrors.ErrInvalidDocument, doc.Path)
	}
	return *doc.SecretID, *doc.FieldID, nil
}

// loadRemote fetches the record secretID, decrypts its field fieldID and
// parses the plaintext as a document. References missing from the remote
// document default to the ones it was loaded with.
func loadRemote(ctx context.Context, st store.Store, cipher secrets.Cipher, secretID, fieldID string) (*secrets.Record, *secrets.Document, error) {
	record, err := secrets.LoadRecord(ctx, st, secretID)
	if err != nil {
		return nil, nil, err
	}

	remote, err := remoteDocument(record, cipher, secretID, fieldID)
	if err != nil {
		return nil, nil, err
	}

	return record, remote, nil
}

// remoteDocument decrypts the field fieldID of an already loaded record.
func remoteDocument(record *secrets.Record, cipher secrets.Cipher, secretID, fieldID string) (*secrets.Document, error) {
	ciphertext, err := record.Field(fieldID)
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", secretID, err)
	}

	plaintext, err := cipher.Decrypt(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("secret %s field %s: %w", secretID, fieldID, err)
	}

	remote, err := secrets.ParseDocument(plaintext)
	if err != nil {
		return nil, fmt.Errorf("remote secret %s field %s: %w", secretID, fieldID, err)
	}

	if remote.SecretID == nil {
		remote.SetSecretID(secretID)
	}
	if remote.FieldID == nil {
		remote.SetFieldID(fieldID)
	}

	return remote, nil
}

// selectOne asks selector for one of items.
func selectOne(selector Selector, label string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("%w: %s", kerrors.ErrNothingToSelect, label)
	}

	index, err := selector.Select(label, items)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("%w: selection %d out of range", kerrors.ErrSelectionCancelled, index)
	}

	return items[index], nil
}
