package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/tc-secrets/internal/configs"
	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
)

func TestDiffCommand(t *testing.T) {
	t.Run("ShowsChangedLines", func(t *testing.T) {
		env := setupTestEnvironment(t)
		seedSecret(t, env, testPassword, "team/backend", map[string]string{
			"dev": document(2, "team/backend", "dev", "API_KEY=remote\nDEBUG=1\n"),
		})
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, document(2, "team/backend", "dev", "API_KEY=local\nDEBUG=1\n"))

		output, err := runCLI(t, "diff", "-f", path, "-p", testPassword)
		if err != nil {
			t.Fatalf("diff failed: %v\n%s", err, output)
		}

		if !strings.Contains(output, "Comparing local file") {
			t.Errorf("Expected comparison header, got: %s", output)
		}
		if !strings.Contains(output, "-API_KEY=remote") || !strings.Contains(output, "+API_KEY=local") {
			t.Errorf("Expected changed lines in diff, got: %s", output)
		}
	})

	t.Run("NoDifferences", func(t *testing.T) {
		env := setupTestEnvironment(t)
		content := document(2, "team/backend", "dev", "API_KEY=same\n")
		seedSecret(t, env, testPassword, "team/backend", map[string]string{"dev": content})
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, content)

		output, err := runCLI(t, "diff", "-f", path, "-p", testPassword)
		if err != nil {
			t.Fatalf("diff failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "No differences") {
			t.Errorf("Expected no differences, got: %s", output)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		env := setupTestEnvironment(t)

		_, err := runCLI(t, "diff", "-f", filepath.Join(env.WorkDir, ".env"))
		if !errors.Is(err, kerrors.ErrFileNotFound) {
			t.Fatalf("Expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("MissingSecret", func(t *testing.T) {
		env := setupTestEnvironment(t)
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, document(1, "team/ghost", "dev", "A=1\n"))

		output, err := runCLI(t, "diff", "-f", path)
		if !errors.Is(err, kerrors.ErrSecretNotFound) {
			t.Fatalf("Expected ErrSecretNotFound, got %v", err)
		}
		if !strings.Contains(output, "The remote secret does not exist") {
			t.Errorf("Expected not found message, got: %s", output)
		}
	})
}

func TestUpdateCommand(t *testing.T) {
	t.Run("BumpsVersion", func(t *testing.T) {
		env := setupTestEnvironment(t)
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, document(4, "team/backend", "dev", "API_KEY=local\n"))

		output, err := runCLI(t, "update", "-f", path)
		if err != nil {
			t.Fatalf("update failed: %v\n%s", err, output)
		}

		if !strings.Contains(output, "Updated the version of the secret file to") {
			t.Errorf("Expected update message, got: %s", output)
		}
		if !strings.Contains(readFile(t, path), "#do-not-edit--secrets-version 5") {
			t.Errorf("Expected version 5, got: %s", readFile(t, path))
		}
	})

	t.Run("ThenSyncPushes", func(t *testing.T) {
		env := setupTestEnvironment(t)
		content := document(1, "team/backend", "dev", "API_KEY=old\n")
		seedSecret(t, env, testPassword, "team/backend", map[string]string{"dev": content})
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, strings.Replace(content, "API_KEY=old", "API_KEY=new", 1))

		if output, err := runCLI(t, "update", "-f", path); err != nil {
			t.Fatalf("update failed: %v\n%s", err, output)
		}
		if output, err := runCLI(t, "sync", "-f", path, "-p", testPassword); err != nil {
			t.Fatalf("sync failed: %v\n%s", err, output)
		}

		remote := remoteField(t, env, testPassword, "team/backend", "dev")
		if !strings.Contains(remote, "API_KEY=new") || !strings.Contains(remote, "#do-not-edit--secrets-version 2") {
			t.Errorf("Expected pushed version 2, got: %s", remote)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		env := setupTestEnvironment(t)

		output, err := runCLI(t, "update", "-f", filepath.Join(env.WorkDir, ".env"))
		if !errors.Is(err, kerrors.ErrFileNotFound) {
			t.Fatalf("Expected ErrFileNotFound, got %v", err)
		}
		if !strings.Contains(output, "Secrets file not found") {
			t.Errorf("Expected not found message, got: %s", output)
		}
	})
}

func TestResetCommand(t *testing.T) {
	t.Run("RestoresRemoteWithBackup", func(t *testing.T) {
		env := setupTestEnvironment(t)
		seedSecret(t, env, testPassword, "team/backend", map[string]string{
			"dev": document(2, "team/backend", "dev", "API_KEY=remote\n"),
		})
		path := filepath.Join(env.WorkDir, ".env")
		local := document(9, "team/backend", "dev", "API_KEY=broken\n")
		writeFile(t, path, local)

		output, err := runCLI(t, "reset", "-f", path, "-p", testPassword)
		if err != nil {
			t.Fatalf("reset failed: %v\n%s", err, output)
		}

		if !strings.Contains(readFile(t, path), "API_KEY=remote") {
			t.Errorf("Expected remote body, got: %s", readFile(t, path))
		}
		if got := readFile(t, path+".bak"); got != local {
			t.Errorf("Expected backup of the old file, got: %s", got)
		}
		if !strings.Contains(output, "Previous file saved to") {
			t.Errorf("Expected backup message, got: %s", output)
		}
	})

	t.Run("ExplicitReferencesRestoreInvalidFile", func(t *testing.T) {
		env := setupTestEnvironment(t)
		seedSecret(t, env, testPassword, "team/backend", map[string]string{
			"dev": document(5, "team/backend", "dev", "API_KEY=remote\n"),
		})
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, "#do-not-edit--secrets-version not-a-number\nAPI_KEY=local\n")

		output, err := runCLI(t, "sync", "-f", path, "-p", testPassword)
		if !errors.Is(err, kerrors.ErrInvalidDocument) {
			t.Fatalf("Expected ErrInvalidDocument from sync, got %v", err)
		}
		if !strings.Contains(output, "--secret ID --field ID") {
			t.Errorf("Expected reset hint, got: %s", output)
		}

		output, err = runCLI(t, "reset", "-f", path, "-p", testPassword, "--secret", "team/backend", "--field", "dev")
		if err != nil {
			t.Fatalf("reset failed: %v\n%s", err, output)
		}
		content := readFile(t, path)
		if !strings.Contains(content, "API_KEY=remote") || !strings.Contains(content, "#do-not-edit--secrets-version 5") {
			t.Errorf("Expected remote v5 document, got: %s", content)
		}
	})

	t.Run("ExplicitReferencesWithoutBackup", func(t *testing.T) {
		env := setupTestEnvironment(t)
		seedSecret(t, env, testPassword, "team/backend", map[string]string{
			"prod": document(3, "team/backend", "prod", "API_KEY=prod\n"),
		})
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, "garbage\n")

		output, err := runCLI(t, "reset", "-f", path, "-p", testPassword,
			"--secret", "team/backend", "--field", "prod", "--no-backup")
		if err != nil {
			t.Fatalf("reset failed: %v\n%s", err, output)
		}

		if !strings.Contains(readFile(t, path), "API_KEY=prod") {
			t.Errorf("Expected prod body, got: %s", readFile(t, path))
		}
		if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
			t.Errorf("Expected no backup with --no-backup")
		}
	})

	t.Run("SecretRequiresField", func(t *testing.T) {
		setupTestEnvironment(t)

		if _, err := runCLI(t, "reset", "-f", ".env", "--secret", "team/backend"); err == nil {
			t.Fatal("Expected --secret without --field to fail")
		}
	})
}

func TestStatusCommand(t *testing.T) {
	t.Run("ReportsEachFile", func(t *testing.T) {
		env := setupTestEnvironment(t)
		seedSecret(t, env, testPassword, "team/backend", map[string]string{
			"dev":  document(2, "team/backend", "dev", "A=remote\n"),
			"prod": document(1, "team/backend", "prod", "A=prod\n"),
		})
		writeFile(t, filepath.Join(env.WorkDir, ".env"), document(1, "team/backend", "dev", "A=local\n"))
		writeFile(t, filepath.Join(env.WorkDir, ".env.prod"), document(1, "team/backend", "prod", "A=prod\n"))
		writeFile(t, filepath.Join(env.WorkDir, ".env.local"), "A=untracked\n")
		writeFile(t, filepath.Join(env.WorkDir, ".env.bak"), "ignored\n")

		output, err := runCLI(t, "status", "-p", testPassword, "--json")
		if err != nil {
			t.Fatalf("status failed: %v\n%s", err, output)
		}

		var result statusJSON
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("Expected JSON output, got %v: %s", err, output)
		}

		actions := map[string]string{}
		for _, f := range result.Files {
			actions[f.Path] = f.Action
		}
		expected := map[string]string{
			".env":       "pull",
			".env.prod":  "up-to-date",
			".env.local": "untracked",
		}
		for path, action := range expected {
			if actions[path] != action {
				t.Errorf("Expected %s to be %s, got %q", path, action, actions[path])
			}
		}
		if _, ok := actions[".env.bak"]; ok {
			t.Errorf("Backup file should be skipped")
		}
		if result.Summary.Pull != 1 || result.Summary.UpToDate != 1 || result.Summary.Untracked != 1 {
			t.Errorf("Unexpected summary: %+v", result.Summary)
		}
	})

	t.Run("Table", func(t *testing.T) {
		env := setupTestEnvironment(t)
		content := document(1, "team/backend", "dev", "A=1\n")
		seedSecret(t, env, testPassword, "team/backend", map[string]string{"dev": content})
		writeFile(t, filepath.Join(env.WorkDir, ".env"), content)

		output, err := runCLI(t, "status", "-p", testPassword)
		if err != nil {
			t.Fatalf("status failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "1 file(s) up to date") {
			t.Errorf("Expected summary line, got: %s", output)
		}
	})

	t.Run("NoFiles", func(t *testing.T) {
		setupTestEnvironment(t)

		output, err := runCLI(t, "status")
		if err != nil {
			t.Fatalf("status failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "No secrets files found.") {
			t.Errorf("Expected no files message, got: %s", output)
		}
	})
}

func TestLogCommand(t *testing.T) {
	t.Run("NoLog", func(t *testing.T) {
		setupTestEnvironment(t)

		output, err := runCLI(t, "log")
		if err != nil {
			t.Fatalf("log failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "No audit log found") {
			t.Errorf("Expected no log message, got: %s", output)
		}
	})

	t.Run("ListsMutations", func(t *testing.T) {
		env := setupTestEnvironment(t)
		seedSecret(t, env, testPassword, "team/backend", map[string]string{
			"dev": document(2, "team/backend", "dev", "A=remote\n"),
		})
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, document(1, "team/backend", "dev", "A=local\n"))

		if output, err := runCLI(t, "sync", "-f", path, "-p", testPassword); err != nil {
			t.Fatalf("sync failed: %v\n%s", err, output)
		}
		if output, err := runCLI(t, "update", "-f", path); err != nil {
			t.Fatalf("update failed: %v\n%s", err, output)
		}

		output, err := runCLI(t, "log", "--oneline")
		if err != nil {
			t.Fatalf("log failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "testuser sync pull") {
			t.Errorf("Expected sync entry, got: %s", output)
		}
		if !strings.Contains(output, "testuser update") {
			t.Errorf("Expected update entry, got: %s", output)
		}

		output, err = runCLI(t, "log", "--operation", "update", "--json")
		if err != nil {
			t.Fatalf("log --json failed: %v\n%s", err, output)
		}
		var entries []map[string]any
		if err := json.Unmarshal([]byte(output), &entries); err != nil {
			t.Fatalf("Expected JSON output, got %v: %s", err, output)
		}
		if len(entries) != 1 || entries[0]["op"] != "update" {
			t.Errorf("Expected one update entry, got %v", entries)
		}
	})

	t.Run("InvalidDate", func(t *testing.T) {
		env := setupTestEnvironment(t)
		path := filepath.Join(env.WorkDir, ".env")
		writeFile(t, path, document(1, "team/backend", "dev", "A=1\n"))
		if output, err := runCLI(t, "update", "-f", path); err != nil {
			t.Fatalf("update failed: %v\n%s", err, output)
		}

		output, err := runCLI(t, "log", "--since", "yesterday")
		if err != nil {
			t.Fatalf("Expected invalid date to be reported without failing, got %v", err)
		}
		if !strings.Contains(output, "✗") {
			t.Errorf("Expected error message, got: %s", output)
		}
	})
}

func TestAuthCommand(t *testing.T) {
	t.Run("DirBackend", func(t *testing.T) {
		setupTestEnvironment(t)

		output, err := runCLI(t, "auth")
		if err != nil {
			t.Fatalf("auth failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "Authenticated with the") {
			t.Errorf("Expected success message, got: %s", output)
		}
	})

	t.Run("HelpDescribesSSOProfile", func(t *testing.T) {
		setupTestEnvironment(t)

		output, err := runCLI(t, "auth", "--help")
		if err != nil {
			t.Fatalf("auth --help failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "sso_start_url") {
			t.Errorf("Expected the SSO profile keys in the help, got: %s", output)
		}
	})

	t.Run("AWSConfigureFailure", func(t *testing.T) {
		setupTestEnvironment(t)
		t.Setenv(configs.EnvBackend, "aws")

		original := runAWSConfigure
		t.Cleanup(func() { runAWSConfigure = original })
		var profile string
		runAWSConfigure = func(p string) error {
			profile = p
			return errors.New("aws: command not found")
		}

		output, err := runCLI(t, "auth")
		if err == nil {
			t.Fatalf("Expected auth to fail, got: %s", output)
		}
		if profile != configs.DefaultProfile {
			t.Errorf("Expected profile %s, got %s", configs.DefaultProfile, profile)
		}
		if !strings.Contains(output, "Failed to configure AWS profile") {
			t.Errorf("Expected configure failure, got: %s", output)
		}
	})

	t.Run("SSORequiresStartURL", func(t *testing.T) {
		setupTestEnvironment(t)
		t.Setenv(configs.EnvBackend, "aws")

		original := runSSOLogin
		t.Cleanup(func() { runSSOLogin = original })
		called := false
		runSSOLogin = func(*AWSSSOConfig) error {
			called = true
			return nil
		}

		output, err := runCLI(t, "auth", "--sso")
		if err == nil {
			t.Fatalf("Expected auth to fail, got: %s", output)
		}
		if called {
			t.Error("SSO login should not start without a start URL")
		}
		if !strings.Contains(output, "AWS SSO start URL not configured") {
			t.Errorf("Expected missing start URL message, got: %s", output)
		}
	})
}

func TestConfigCommands(t *testing.T) {
	t.Run("InitNonInteractive", func(t *testing.T) {
		env := setupTestEnvironment(t)
		storeDir := filepath.Join(env.WorkDir, "store")

		output, err := runCLI(t, "config", "init", "--backend", "dir", "--dir", storeDir, "--name", "Alice", "--yes")
		if err != nil {
			t.Fatalf("config init failed: %v\n%s", err, output)
		}

		cfg, err := configs.LoadUserConfig()
		if err != nil {
			t.Fatalf("Failed to load saved config: %v", err)
		}
		if cfg.User.Name != "Alice" || cfg.User.UUID == "" {
			t.Errorf("Unexpected user section: %+v", cfg.User)
		}
		if cfg.Store.Backend != "dir" {
			t.Errorf("Expected dir backend, got %s", cfg.Store.Backend)
		}
	})

	t.Run("InitRejectsUnknownBackend", func(t *testing.T) {
		setupTestEnvironment(t)

		if _, err := runCLI(t, "config", "init", "--backend", "vault", "--yes"); err == nil {
			t.Fatal("Expected unknown backend to fail")
		}
	})

	t.Run("ShowJSON", func(t *testing.T) {
		setupTestEnvironment(t)

		output, err := runCLI(t, "config", "show", "--json")
		if err != nil {
			t.Fatalf("config show failed: %v\n%s", err, output)
		}

		var shown configs.UserConfig
		if err := json.Unmarshal([]byte(output), &shown); err != nil {
			t.Fatalf("Expected JSON output, got %v: %s", err, output)
		}
		if shown.Store.Backend != "dir" {
			t.Errorf("Expected environment override to apply, got %s", shown.Store.Backend)
		}
		if shown.Sync.BackupSuffix != configs.DefaultBackupSuffix {
			t.Errorf("Expected default backup suffix, got %s", shown.Sync.BackupSuffix)
		}
	})
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"decrypt", kerrors.ErrDecryptFailed, "Failed to decrypt"},
		{"auth", kerrors.ErrStoreAuth, "tc-secrets auth"},
		{"not found", kerrors.ErrSecretNotFound, "does not exist"},
		{"format", kerrors.ErrSecretFormat, "malformed"},
		{"document", kerrors.ErrInvalidDocument, "invalid"},
		{"other", errors.New("boom"), "boom"},
	}

	t.Setenv("NO_COLOR", "1")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := formatError(tt.err)
			if !strings.Contains(msg, tt.expected) {
				t.Errorf("Expected %q in %q", tt.expected, msg)
			}
		})
	}
}
