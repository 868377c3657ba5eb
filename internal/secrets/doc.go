// Package secrets models a secrets file and the remote record it syncs with.
//
// # Documents
//
// A Document is a .env style file whose metadata lives in header lines:
//
//	#do-not-edit--secrets-version 3
//	#do-not-edit--secrets-id team/backend
//	#do-not-edit--secrets-field-id dev
//	API_KEY=...
//
// Header lines may appear anywhere. When a header repeats, the last one
// wins on parse, and Write collapses the duplicates into the first.
// Content always keeps the header lines so that a document round-trips
// through Write unchanged apart from the header values.
//
// # Records
//
// A Record is the remote secret: a JSON object mapping field names to
// ciphertext. The plaintext of each field is itself a Document.
//
// # Encryption
//
// PassphraseCipher seals field content with NaCl secretbox under the
// SHA-256 digest of a password and encodes base64(nonce || box). Empty
// content is passed through unencrypted in both directions.
//
// # File Discovery
//
// ResolveFiles expands paths, directories and doublestar globs into the
// list of secrets files a command should act on.
package secrets
