// Package workflows provides high-level orchestration for tc-secrets commands.
//
// Workflows coordinate the secrets, store and audit packages to implement
// complete user-facing features. Each workflow handles a single command's
// business logic, independent of CLI concerns like flag parsing, spinners,
// and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Builds the store and cipher
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading and validating the local secrets file
//   - Fetching and decrypting the remote field
//   - Deciding and performing the reconciliation action
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Sync: Reconciles a local file with its remote field, or downloads it
//   - Update: Bumps the version of a local file
//   - Reset: Overwrites a local file with the remote field
//   - Diff: Loads both sides for display
//   - Status: Reports what Sync would do for every discovered file
//   - Log: Reads and filters the audit log
//   - Auth: Verifies the store credentials
//
// # Reconciliation
//
// Sync compares the version headers of the two sides. Decide is the pure
// decision table:
//
//	local < remote                 pull
//	local > remote                 push
//	equal, payloads differ         conflict
//	equal, payloads equal          up-to-date
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Sync(ctx, opts)
//	if errors.Is(err, kerrors.ErrDecryptFailed) {
//	    // Suggest checking the password
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter
// and pass it to every store call.
package workflows
