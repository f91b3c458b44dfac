package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	t.Run("creates file on first open", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.db")

		db, err := NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected database file on disk: %v", err)
		}
	})

	t.Run("in memory", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		db.Close()
	})

	t.Run("missing parent directory", func(t *testing.T) {
		if _, err := NewDatabase(filepath.Join(t.TempDir(), "missing", "history.db")); err == nil {
			t.Error("expected error for missing parent directory")
		}
	})
}
