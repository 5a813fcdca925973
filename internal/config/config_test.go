package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveThenOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultFileName)
	require.NoError(t, Save(&Settings{DataFile: "data/diamonds.csv"}, path))

	src, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path())

	got, err := src.ReadConfigSetting(KeyDataFile)
	require.NoError(t, err)
	assert.Equal(t, "data/diamonds.csv", got)

	s, err := src.Settings()
	require.NoError(t, err)
	assert.Equal(t, "data/diamonds.csv", s.DataFile)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	_, err = Open("  ")
	require.Error(t, err)
}

func TestReadConfigSetting_MissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("other: value\n"), 0o644))

	src, err := Open(path)
	require.NoError(t, err)

	_, err = src.ReadConfigSetting(KeyDataFile)
	assert.True(t, errors.Is(err, ErrMissingKey), "got %v", err)

	_, err = src.Settings()
	assert.True(t, errors.Is(err, ErrMissingKey), "got %v", err)
	assert.Contains(t, err.Error(), KeyDataFile)
}

func TestReadConfigSetting_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("data_file: from-file.csv\n"), 0o644))
	t.Setenv("DPP_DATA_FILE", "from-env.csv")

	src, err := Open(path)
	require.NoError(t, err)
	got, err := src.ReadConfigSetting(KeyDataFile)
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", got)
}

func TestStatic(t *testing.T) {
	p := Static{KeyDataFile: " a.csv ", "blank": ""}

	got, err := p.ReadConfigSetting(KeyDataFile)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", got)

	for _, key := range []string{"blank", "absent"} {
		_, err := p.ReadConfigSetting(key)
		assert.ErrorIs(t, err, ErrMissingKey, key)
	}
}

func TestReadConfigSetting_EnvOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("other: value\n"), 0o644))
	t.Setenv("DPP_DATA_FILE", "only-env.csv")

	src, err := Open(path)
	require.NoError(t, err)
	got, err := src.ReadConfigSetting(KeyDataFile)
	require.NoError(t, err)
	assert.Equal(t, "only-env.csv", got)
}

func TestReadConfigSetting_BlankDataFileFailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("data_file: \"   \"\n"), 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	_, err = src.ReadConfigSetting(KeyDataFile)
	require.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "invalid config (data_file)")

	_, err = Static{KeyDataFile: "  "}.ReadConfigSetting(KeyDataFile)
	require.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "invalid config (data_file)")
}

func TestSave_RejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.ErrorIs(t, Save(&Settings{}, path), ErrMissingKey)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing should be written")
}
