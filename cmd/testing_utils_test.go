package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/PolarWolf314/tc-secrets/internal/configs"
	"github.com/PolarWolf314/tc-secrets/internal/secrets"
	"github.com/PolarWolf314/tc-secrets/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testPassword = "hunter2"

// testEnv describes the temporary world a command test runs in.
type testEnv struct {
	// WorkDir is the working directory of the command.
	WorkDir string
	// StoreDir is the directory of the dir backend.
	StoreDir string
	// Store reads and writes StoreDir.
	Store *store.Dir
}

// setupTestEnvironment chdirs into a temp directory and points the user
// settings and the dir backend at temp directories.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	tempDir := t.TempDir()
	workDir := filepath.Join(tempDir, "work")
	userDir := filepath.Join(tempDir, "user")
	storeDir := filepath.Join(tempDir, "store")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("Failed to create work directory: %v", err)
	}

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	originalSettings := configs.UserTCSecretsSettings
	configs.UserTCSecretsSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(userDir, "config"),
		Username:        "testuser",
	}

	t.Setenv("NO_COLOR", "1")
	t.Setenv(configs.EnvBackend, store.BackendDir)
	t.Setenv(configs.EnvStoreDir, storeDir)
	t.Setenv(configs.EnvProfile, "")
	t.Setenv(configs.EnvRegion, "")
	t.Setenv(EnvPassword, "")

	ResetGlobalState()
	resetCobraFlagState(RootCmd)
	originalSelector := selector

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserTCSecretsSettings = originalSettings
		selector = originalSelector
		ResetGlobalState()
		resetCobraFlagState(RootCmd)
	})

	return &testEnv{WorkDir: workDir, StoreDir: storeDir, Store: store.NewDir(storeDir)}
}

// resetCobraFlagState clears the Changed mark of every flag so required
// flag checks see a fresh command.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
		// Cobra keeps the help flag's value between executions; a leftover
		// --help would make the next run print help instead of executing.
		if flag.Name == "help" {
			_ = flag.Value.Set("false")
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}

// runCLI executes the root command with args and captures its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	ResetGlobalState()
	resetCobraFlagState(RootCmd)
	RootCmd.SetArgs(args)

	return captureOutput(func() error {
		return RootCmd.Execute()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// document renders a secrets file with the given headers and body.
func document(version int, secretID, fieldID, body string) string {
	return secrets.VersionHeader + " " + strconv.Itoa(version) + "\n" +
		secrets.SecretIDHeader + " " + secretID + "\n" +
		secrets.FieldIDHeader + " " + fieldID + "\n" +
		body
}

// seedSecret stores a secret whose fields hold the given documents,
// encrypted with password.
func seedSecret(t *testing.T, env *testEnv, password, secretID string, fields map[string]string) {
	t.Helper()

	cipher := secrets.NewPassphraseCipher(password)
	record := secrets.NewRecord()
	for name, content := range fields {
		ciphertext, err := cipher.Encrypt(content)
		if err != nil {
			t.Fatalf("Failed to encrypt field %s: %v", name, err)
		}
		record.SetField(name, ciphertext)
	}

	payload, err := record.Serialize()
	if err != nil {
		t.Fatalf("Failed to serialize record: %v", err)
	}
	if err := env.Store.Put(context.Background(), secretID, payload); err != nil {
		t.Fatalf("Failed to seed secret %s: %v", secretID, err)
	}
}

// remoteField decrypts a field of a stored secret.
func remoteField(t *testing.T, env *testEnv, password, secretID, fieldID string) string {
	t.Helper()

	record, err := secrets.LoadRecord(context.Background(), env.Store, secretID)
	if err != nil {
		t.Fatalf("Failed to load secret %s: %v", secretID, err)
	}
	ciphertext, err := record.Field(fieldID)
	if err != nil {
		t.Fatalf("Failed to read field %s: %v", fieldID, err)
	}
	plaintext, err := secrets.NewPassphraseCipher(password).Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Failed to decrypt field %s: %v", fieldID, err)
	}
	return plaintext
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// fakeSelector answers selections with fixed indexes.
type fakeSelector struct {
	choices []int
	labels  []string
	err     error
}

func (f *fakeSelector) Select(label string, items []string) (int, error) {
	f.labels = append(f.labels, label)
	if f.err != nil {
		return -1, f.err
	}
	choice := f.choices[0]
	f.choices = f.choices[1:]
	return choice, nil
}
