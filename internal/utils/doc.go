// Package utils provides shared utility functions for tc-secrets.
//
// # Filesystem Utilities
//
//   - FileExists: checks a regular file exists
//   - CopyFile: copies a file, keeping its mode (reset backups)
//
// # System Utilities
//
//   - GetUsername
//
// # String Utilities
//
//   - FormatRef
//
// # I/O Utilities
//
//   - ReadStdin, ReadPasswordFromStdin
//
// # Terminal Utilities
//
//   - ReadPassphrase: hidden password prompt
//   - IsTerminal: checks if stdin is a terminal
package utils
