package admin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobly-api/jobly/internal/config"
)

func TestInitialize(t *testing.T) {
	dir := t.TempDir()
	mf := NewManagerFactory(dir)

	status, err := mf.Status()
	require.NoError(t, err)
	assert.Equal(t, "not_initialized", status)

	require.NoError(t, mf.Initialize())

	info, err := os.Stat(filepath.Join(dir, ".jobly", "journal"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	gitignore, err := os.ReadFile(filepath.Join(dir, ".jobly", ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "journal/")

	status, err = mf.Status()
	require.NoError(t, err)
	assert.Contains(t, status, "initialized")
	assert.Contains(t, status, "Config: missing")
}

func TestCreateJournalLogger(t *testing.T) {
	dir := t.TempDir()
	mf := NewManagerFactory(dir)

	logger, err := mf.CreateJournalLogger(nil)
	require.NoError(t, err)
	require.NoError(t, logger.Log("create", "ok", nil, nil))

	entries, err := os.ReadDir(mf.Paths().Journal)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	cfg := config.Defaults()
	cfg.Journal.Dir = filepath.Join(dir, "elsewhere")
	_, err = mf.CreateJournalLogger(cfg)
	require.NoError(t, err)
	_, err = os.Stat(cfg.Journal.Dir)
	assert.NoError(t, err)
}
