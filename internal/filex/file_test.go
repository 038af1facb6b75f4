package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesAndIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "dvi")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, first)

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
	}

	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLocalPath(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "brake.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("jpeg"), 0o600))

	tests := []struct {
		name      string
		ref       string
		wantPath  string
		wantLocal bool
	}{
		{name: "empty", ref: ""},
		{name: "file scheme", ref: "file:///tmp/pad.jpg", wantPath: "/tmp/pad.jpg", wantLocal: true},
		{name: "existing bare path", ref: existing, wantPath: existing, wantLocal: true},
		{name: "missing bare path", ref: filepath.Join(t.TempDir(), "gone.jpg")},
		{name: "storage key", ref: "photos/2025/1/2/abc"},
		{name: "remote url", ref: "https://cdn.example/pad.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := LocalPath(tt.ref)
			require.Equal(t, tt.wantLocal, ok)
			require.Equal(t, tt.wantPath, path)
		})
	}
}
