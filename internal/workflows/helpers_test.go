package workflows

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/tc-secrets/internal/configs"
	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/secrets"
)

// useTempConfigDir keeps audit entries written by workflows inside a temp
// directory.
func useTempConfigDir(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	originalSettings := configs.UserTCSecretsSettings
	configs.UserTCSecretsSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempDir, "config"),
		Username:        "testuser",
	}
	t.Cleanup(func() {
		configs.UserTCSecretsSettings = originalSettings
	})

	return tempDir
}

// fakeCipher tags plaintext instead of encrypting it.
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return "enc:" + plaintext, nil
}

func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	plaintext, ok := strings.CutPrefix(ciphertext, "enc:")
	if !ok || plaintext == "" {
		return "", fmt.Errorf("%w: not a fake ciphertext", kerrors.ErrDecryptFailed)
	}
	return plaintext, nil
}

// fakeSelector answers prompts from a fixed list of indexes.
type fakeSelector struct {
	choices []int
	labels  []string
	items   [][]string
	err     error
}

func (s *fakeSelector) Select(label string, items []string) (int, error) {
	s.labels = append(s.labels, label)
	s.items = append(s.items, items)
	if s.err != nil {
		return -1, s.err
	}
	if len(s.choices) == 0 {
		return 0, nil
	}
	choice := s.choices[0]
	s.choices = s.choices[1:]
	return choice, nil
}

// recordPayload builds a serialized record whose fields hold the encrypted
// documents.
func recordPayload(t *testing.T, cipher secrets.Cipher, fields map[string]string) string {
	t.Helper()

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
	return payload
}

// document renders a secrets file with the given headers and body.
func document(version int, secretID, fieldID, body string) string {
	return fmt.Sprintf("%s %d\n%s %s\n%s %s\n%s",
		secrets.VersionHeader, version,
		secrets.SecretIDHeader, secretID,
		secrets.FieldIDHeader, fieldID,
		body)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
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
