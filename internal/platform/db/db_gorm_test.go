package db

import (
	"path/filepath"
	"testing"
)

func TestBuildPostgresDSN(t *testing.T) {
	t.Parallel()

	dsn := BuildPostgresDSN("localhost", "5432", "testuser", "testpass", "testdb")

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

func TestResolveSQLitePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "default when unset",
			input:    "",
			expected: filepath.Join("database", "stock_data.db"),
		},
		{
			name:     "explicit path preserved",
			input:    "/var/data/quotes.db",
			expected: "/var/data/quotes.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolveSQLitePath(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
