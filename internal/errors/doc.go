// Package errors provides typed error values for tc-secrets.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - File errors: ErrIO, ErrFileNotFound, ErrNoFilesFound
//   - Document errors: ErrInvalidDocument
//   - Crypto errors: ErrEncryptFailed, ErrDecryptFailed
//   - Store errors: ErrStoreAuth, ErrStoreOperation, ErrSecretNotFound, ErrSecretFormat
//
// Every error is terminal for the current command. Nothing is retried.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: field %q not found", errors.ErrSecretFormat, name)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrDecryptFailed) {
//	    // Suggest checking the password
//	}
package errors
