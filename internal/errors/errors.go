package errors

import "errors"

// File errors indicate issues with reading or writing local secrets files.
var (
	// ErrIO indicates a filesystem read or write failed.
	ErrIO = errors.New("filesystem operation failed")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")
)

// Document errors indicate a secrets file is malformed or missing required headers.
var (
	// ErrInvalidDocument indicates a header is malformed or a required header is missing.
	ErrInvalidDocument = errors.New("invalid secrets file")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrEncryptFailed indicates the field content could not be encrypted.
	ErrEncryptFailed = errors.New("failed to encrypt")

	// ErrDecryptFailed indicates the field content could not be decrypted.
	// Usually caused by a wrong password or corrupt ciphertext.
	ErrDecryptFailed = errors.New("failed to decrypt")
)

// Store errors indicate failures talking to the remote secret store.
var (
	// ErrStoreAuth indicates the store credentials are missing, expired or invalid.
	ErrStoreAuth = errors.New("secret store authentication failed")

	// ErrStoreOperation indicates a store request failed.
	ErrStoreOperation = errors.New("secret store operation failed")

	// ErrSecretNotFound indicates the requested secret does not exist in the store.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretFormat indicates the remote secret is not a JSON object of
	// string fields, or the requested field is missing.
	ErrSecretFormat = errors.New("invalid secret format")
)

// Input errors indicate invalid user input.
var (
	// ErrInvalidDateFormat indicates a date filter could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrSelectionCancelled indicates the user aborted an interactive selection.
	ErrSelectionCancelled = errors.New("selection cancelled")

	// ErrNothingToSelect indicates an interactive selection had no items.
	ErrNothingToSelect = errors.New("nothing to select")
)
