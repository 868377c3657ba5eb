// Package configs manages the user configuration for tc-secrets.
//
// Configuration is stored in TOML format at
// <user config dir>/tc-secrets/config.toml and holds:
//   - User identity (UUID, name) recorded in audit entries
//   - AWS profile and region used by the Secrets Manager store
//   - Optional AWS SSO start URL and region for `tc-secrets auth --sso`
//   - Store backend ("aws" or "dir") and the dir backend location
//   - Sync settings: reset backup suffix and default status patterns
//
// Absent keys fall back to defaults. Environment variables override the
// file: TC_SECRETS_BACKEND, TC_SECRETS_STORE_DIR, TC_SECRETS_PROFILE and
// TC_SECRETS_REGION.
//
// # Settings
//
// UserTCSecretsSettings is initialized at startup with the config directory
// and the current username. Tests replace it to point at a temp directory.
package configs
