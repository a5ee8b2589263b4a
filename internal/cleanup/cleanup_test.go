package cleanup

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"filereducer/internal/storage"

	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestStore(t *testing.T) (*storage.FileStore, Dirs) {
	t.Helper()
	root := t.TempDir()
	dirs := Dirs{
		Upload:    filepath.Join(root, "uploads"),
		Processed: filepath.Join(root, "processed"),
		Chunk:     filepath.Join(root, "chunks"),
	}
	s := storage.NewFileStore(dirs.Upload, dirs.Processed, dirs.Chunk, nil)
	require.NoError(t, s.EnsureDirs())
	return s, dirs
}

// writeAged creates a file whose modification time is age in the past.
func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	setAge(t, path, age)
}

func setAge(t *testing.T, path string, age time.Duration) {
	t.Helper()
	mt := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mt, mt))
}
