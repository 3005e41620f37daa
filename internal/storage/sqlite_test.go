package storage

import (
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return store
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, newTestSQLiteStore(t))
}

func TestSQLiteStore_InitializeIsIdempotent(t *testing.T) {
	store := newTestSQLiteStore(t)
	if err := store.Initialize(); err != nil {
		t.Errorf("second Initialize: %v", err)
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"blog.db", "blog.db?_foreign_keys=on&_busy_timeout=5000"},
		{"file:blog.db?cache=shared", "file:blog.db?cache=shared&_foreign_keys=on&_busy_timeout=5000"},
		{"blog.db?_fk=1&_timeout=100", "blog.db?_fk=1&_timeout=100"},
	}

	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
