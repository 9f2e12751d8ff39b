package preferences

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastBackupPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)

	_, ok, err := s.LastBackup()
	require.NoError(t, err)
	assert.False(t, ok)

	when := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.SetLastBackup(when))
	require.NoError(t, s.Close())

	s, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.LastBackup()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, when.Equal(got))
}

func TestGetMissingKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("theme", "dark"))
	v, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}
