// Package audit provides audit trail logging for tc-secrets operations.
//
// Every operation that changes a local file or a remote secret (sync pull,
// sync push, download, reset, update) is recorded in a per-user audit log.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	<user config dir>/tc-secrets/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - User name and UUID
//   - Operation name
//   - File, secret, field, versions and sync action where relevant
//
// # Usage
//
//	entry := audit.LogWithUser("sync")
//	entry.Action = "push"
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. A failed write never fails the operation.
package audit
