package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the behaviour every backend must share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.GetItem(ctx, KeyTasks)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should not contain tasks")

	require.NoError(t, kv.SetItem(ctx, KeyTasks, `[{"id":"1"}]`))
	v, ok, err := kv.GetItem(ctx, KeyTasks)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, kv.SetItem(ctx, KeyTasks, `[]`))
	v, _, err = kv.GetItem(ctx, KeyTasks)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v, "SetItem should overwrite")

	require.NoError(t, kv.SetItem(ctx, KeyTheme, `dark`))
	require.NoError(t, kv.RemoveItem(ctx, KeyTasks))
	_, ok, err = kv.GetItem(ctx, KeyTasks)
	require.NoError(t, err)
	assert.False(t, ok, "removed key should be absent")

	v, ok, err = kv.GetItem(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok, "other keys survive removal")
	assert.Equal(t, "dark", v)

	assert.NoError(t, kv.RemoveItem(ctx, "never-set"), "removing absent key is not an error")

	err = kv.SetItem(ctx, "../escape", "x")
	assert.ErrorIs(t, err, ErrInvalidKey)

	require.NoError(t, kv.Close())
	_, _, err = kv.GetItem(ctx, KeyTheme)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestMemory_FailWrites(t *testing.T) {
	m := NewMemory()
	boom := errors.New("disk full")
	m.FailWrites = boom

	err := m.SetItem(context.Background(), KeyTasks, "[]")
	assert.ErrorIs(t, err, boom)
}

func TestFile(t *testing.T) {
	f, err := OpenFile(t.TempDir())
	require.NoError(t, err)
	exerciseKV(t, f)
}

func TestFile_CreatesDirectoryAndWritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	f, err := OpenFile(dir)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.SetItem(context.Background(), KeyTasks, "[]"))

	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestKeyForPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/data/tasks.json", "tasks", true},
		{"/data/theme.json", "theme", true},
		{"/data/.tasks-123.tmp", "", false},
		{"/data/tasks.txt", "", false},
		{"/data/.json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := KeyForPath(tt.path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("KeyForPath(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	valid := []string{"tasks", "theme", "a.b", "x_y-z"}
	invalid := []string{"", ".", "..", "a/b", `a\b`, "a b"}

	for _, k := range valid {
		assert.NoError(t, ValidateKey(k), "key %q", k)
	}
	for _, k := range invalid {
		assert.ErrorIs(t, ValidateKey(k), ErrInvalidKey, "key %q", k)
	}
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	t.Run("default is file", func(t *testing.T) {
		kv, err := Open(ctx, Options{Path: t.TempDir()})
		require.NoError(t, err)
		defer kv.Close()
		_, ok := kv.(*File)
		assert.True(t, ok, "got %T", kv)
	})

	t.Run("sqlite", func(t *testing.T) {
		kv, err := Open(ctx, Options{Backend: BackendSQLite, Path: filepath.Join(t.TempDir(), "t.db")})
		require.NoError(t, err)
		defer kv.Close()
		db, ok := kv.(*SQL)
		require.True(t, ok, "got %T", kv)
		assert.Equal(t, BackendSQLite, db.Dialect())
	})

	t.Run("memory", func(t *testing.T) {
		kv, err := Open(ctx, Options{Backend: BackendMemory})
		require.NoError(t, err)
		_, ok := kv.(*Memory)
		assert.True(t, ok, "got %T", kv)
	})

	t.Run("mysql requires dsn", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: BackendMySQL})
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: "redis"})
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})
}

func TestDefaultDataDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	assert.Equal(t, filepath.Join("/tmp/xdg-data", "taskflow"), DefaultDataDir())
	assert.Equal(t, filepath.Join("/tmp/xdg-data", "taskflow", "taskflow.db"), DefaultSQLitePath())
}
