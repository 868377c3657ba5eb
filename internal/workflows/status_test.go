package workflows

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/store"
)

func TestStatus_ReportsDecisionPerFile(t *testing.T) {
	useTempConfigDir(t)
	root := t.TempDir()

	mem := store.NewMemory(map[string]string{
		"app": recordPayload(t, fakeCipher{}, map[string]string{
			"dev":     document(2, "app", "dev", "A=1\n"),
			"staging": document(1, "app", "staging", "S=1\n"),
			"prod":    document(4, "app", "prod", "P=1\n"),
			"qa":      document(3, "app", "qa", "Q=1\n"),
		}),
	})

	writeFile(t, filepath.Join(root, ".env"), document(2, "app", "dev", "A=1\n"))
	writeFile(t, filepath.Join(root, "staging", ".env.staging"), document(3, "app", "staging", "S=2\n"))
	writeFile(t, filepath.Join(root, "prod", ".env.prod"), document(1, "app", "prod", "P=0\n"))
	writeFile(t, filepath.Join(root, "qa", ".env.qa"), document(3, "app", "qa", "Q=2\n"))
	writeFile(t, filepath.Join(root, "plain", ".env"), "PLAIN=1\n")
	writeFile(t, filepath.Join(root, "broken", ".env"), document(1, "app", "missing", "X=1\n"))
	writeFile(t, filepath.Join(root, ".env.bak"), "ignored backup\n")

	result, err := Status(context.Background(), StatusOptions{
		Root:         root,
		BackupSuffix: ".bak",
		Cipher:       fakeCipher{},
		Store:        mem,
	})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	want := map[string]Action{
		".env":                 ActionUpToDate,
		"staging/.env.staging": ActionPush,
		"prod/.env.prod":       ActionPull,
		"qa/.env.qa":           ActionConflict,
		"plain/.env":           StatusUntracked,
		"broken/.env":          StatusError,
	}

	if len(result.Files) != len(want) {
		t.Fatalf("Expected %d files, got %d: %+v", len(want), len(result.Files), result.Files)
	}

	for _, f := range result.Files {
		expected, ok := want[filepath.ToSlash(f.Path)]
		if !ok {
			t.Errorf("Unexpected file %s", f.Path)
			continue
		}
		if f.Action != expected {
			t.Errorf("%s: expected %s, got %s (%v)", f.Path, expected, f.Action, f.Err)
		}
		if f.Action == StatusError && !errors.Is(f.Err, kerrors.ErrSecretFormat) {
			t.Errorf("%s: expected ErrSecretFormat, got %v", f.Path, f.Err)
		}
	}

	summary := result.Summary
	if summary.UpToDate != 1 || summary.Push != 1 || summary.Pull != 1 || summary.Conflict != 1 || summary.Untracked != 1 || summary.Errors != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}

	// Every tracked file references the same secret, fetched once.
	if mem.Fetches != 1 {
		t.Errorf("Expected 1 fetch, got %d", mem.Fetches)
	}
	if mem.Puts != 0 {
		t.Errorf("Status must not write, got %d puts", mem.Puts)
	}
}

func TestStatus_NoFiles(t *testing.T) {
	useTempConfigDir(t)

	_, err := Status(context.Background(), StatusOptions{Root: t.TempDir(), Cipher: fakeCipher{}, Store: store.NewMemory(nil)})
	if !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Errorf("Expected ErrNoFilesFound, got %v", err)
	}
}

func TestStatus_ExplicitPattern(t *testing.T) {
	useTempConfigDir(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "a", ".env"), "A=1\n")
	writeFile(t, filepath.Join(root, "b", ".env"), "B=1\n")

	result, err := Status(context.Background(), StatusOptions{
		Root:     root,
		Patterns: []string{"a/*"},
		Cipher:   fakeCipher{},
		Store:    store.NewMemory(nil),
	})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(result.Files) != 1 || filepath.ToSlash(result.Files[0].Path) != "a/.env" {
		t.Errorf("Expected only a/.env, got %+v", result.Files)
	}
}
