package dbmigrate

import (
	"path/filepath"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFS returns in memory filesystem holding migration files,
// files is the map where keys are file names and values are their contents
func newTestFS(t *testing.T, dir string, files map[string]string) vfs.FileSystem {
	t.Helper()
	fs := memoryfs.New()
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	for fname, contents := range files {
		require.NoError(t, vfs.WriteFile(fs, filepath.Join(dir, fname), []byte(contents), 0o644))
	}
	return fs
}

func Test_DirExists(t *testing.T) {
	fs := newTestFS(t, "/test/dir", nil)
	require.NoError(t, vfs.WriteFile(fs, "/test/file", nil, 0o644))

	assert.False(t, DirExists(fs, "/test/not_existed"))
	assert.False(t, DirExists(fs, "/test/file"))

	assert.True(t, DirExists(fs, "/test/dir"))
	assert.True(t, DirExists(fs, "/test"))
}

func Test_FileExists(t *testing.T) {
	fs := newTestFS(t, "/test/dir", nil)
	require.NoError(t, vfs.WriteFile(fs, "/test/file", nil, 0o644))

	assert.False(t, FileExists(fs, "/test/not_existed"))
	assert.False(t, FileExists(fs, "/test/dir"))

	assert.True(t, FileExists(fs, "/test/file"))
}

func Test_DirectionFromString(t *testing.T) {
	for _, s := range []string{"UP", "Up", "up"} {
		d, err := DirectionFromString(s)
		require.NoError(t, err)
		assert.Equal(t, DirectionUp, d)
	}

	for _, s := range []string{"DOWN", "DoWn", "down"} {
		d, err := DirectionFromString(s)
		require.NoError(t, err)
		assert.Equal(t, DirectionDown, d)
	}

	for _, s := range []string{"down!", "1up", "rnd", " ", ""} {
		_, err := DirectionFromString(s)
		assert.Error(t, err)
	}
}

func Test_Direction_String(t *testing.T) {
	assert.Equal(t, "up", DirectionUp.String())
	assert.Equal(t, "down", DirectionDown.String())
	assert.Empty(t, directionError.String())
}

func Test_EngineExists(t *testing.T) {
	for _, p := range []string{"sqlite", "postgres", "pgx", "mysql"} {
		assert.True(t, EngineExists(p))
	}

	for _, p := range []string{"", " ", "\n", "nodb"} {
		assert.False(t, EngineExists(p))
	}
}

func Test_Engines(t *testing.T) {
	assert.Equal(t, []string{"mysql", "pgx", "postgres", "sqlite"}, Engines())
}
