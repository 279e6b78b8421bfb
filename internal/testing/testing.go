// Package testing holds test doubles and helpers shared by the ncmx test suites.
package testing

import (
	"database/sql"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/ncmx/internal/shared"
)

// ErrWrite is returned by [FWriter] and by a [LimitedWriter] past its budget.
var ErrWrite = errors.New("write failed")

// FWriter fails every write.
type FWriter struct{}

func (*FWriter) Write([]byte) (int, error) { return 0, ErrWrite }

// LimitedWriter forwards the first maxWrites writes to target and fails the rest.
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

// NewLimitedWriter returns a writer that has already performed written of its maxWrites writes.
func NewLimitedWriter(maxWrites, written int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.maxWrites {
		return 0, ErrWrite
	}
	l.written++
	return l.target.Write(p)
}

// MemoryDB opens a migrated in-memory database that is closed when the test ends.
//
// The pool is pinned to one connection; every new sqlite connection to ":memory:" sees
// its own empty database.
func MemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	switch {
	case err != nil:
		t.Errorf("file %s: %v", path, err)
	case info.IsDir():
		t.Errorf("expected a file, %s is a directory", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	switch {
	case err != nil:
		t.Errorf("directory %s: %v", path, err)
	case !info.IsDir():
		t.Errorf("expected a directory, %s is a file", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
