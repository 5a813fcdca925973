package dpputility

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/dpputility/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = strings.Join([]string{
	"x1,x2,x3,carat,depth,table,price,x,y,z",
	"Premium,F,VS2,0.4,62,58,900,0,4.1,2.5",
	"Ideal,E,VVS1,0.5,61.2,56,1500,5.1,5.2,3.1",
}, "\n")

// writeProject lays out <root>/config.yaml and <root>/data/diamonds.csv.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "diamonds.csv"), []byte(fixture), 0o644))
	require.NoError(t, SaveConfig(filepath.Join(root, config.DefaultFileName), "data/diamonds.csv"))
	return root
}

func TestGetDataFrame_WithAnchor(t *testing.T) {
	root := writeProject(t)

	tbl, err := GetDataFrame(false, WithAnchor(root))
	require.NoError(t, err)
	assert.Equal(t, 13, tbl.NumCols())
	assert.Equal(t, 1, tbl.NumRows())

	tbl, err = GetDataFrame(true, WithAnchor(root))
	require.NoError(t, err)
	assert.Equal(t, 11, tbl.NumCols())
	cols := tbl.Columns()
	assert.Equal(t, "price", cols[len(cols)-1])
}

func TestGetDataFrame_DiscoversAnchor(t *testing.T) {
	root := writeProject(t)
	sub := filepath.Join(root, "notebooks", "eda")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	tbl, err := GetDataFrame(false)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())
}

func TestGetDataFrame_ConfigFileAndProvider(t *testing.T) {
	root := writeProject(t)
	cfgFile := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(&config.Settings{DataFile: filepath.Join(root, "data", "diamonds.csv")}, cfgFile))

	tbl, err := GetDataFrame(false, WithAnchor(t.TempDir()), WithConfigFile(cfgFile))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())

	tbl, err = GetDataFrame(false, WithAnchor(root), WithProvider(config.Static{config.KeyDataFile: "data/diamonds.csv"}))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())
}

func TestGetDataFrame_Errors(t *testing.T) {
	_, err := GetDataFrame(false, WithAnchor(t.TempDir()))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr, "missing config file")

	_, err = GetDataFrame(false, WithAnchor(t.TempDir()), WithProvider(config.Static{config.KeyDataFile: "nope.csv"}))
	var fileErr *FileAccessError
	require.ErrorAs(t, err, &fileErr)

	root := writeProject(t)
	bad := "x1,x2,x3,carat,depth,table,price,x,y,z\nGood,E,XX,0.5,61,57,1000,2,3,5\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "diamonds.csv"), []byte(bad), 0o644))
	_, err = GetDataFrame(false, WithAnchor(root), WithStrictEncoding())
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
}

func TestSaveConfig_RejectsEmptyDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	err := SaveConfig(path, " ")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, config.ErrMissingKey)
}

func TestSummarize(t *testing.T) {
	root := writeProject(t)
	tbl, err := GetDataFrame(true, WithAnchor(root))
	require.NoError(t, err)

	opt := DefaultSummaryOptions()
	opt.Name = "diamonds.csv"
	rep := Summarize(tbl, opt)
	require.Len(t, rep.Cols, 11)
	assert.Equal(t, 1, rep.Rows)
	assert.Equal(t, "price", rep.Cols[len(rep.Cols)-1].Name)
	assert.Equal(t, 1500.0, rep.Cols[len(rep.Cols)-1].Max)

	md := rep.Markdown()
	assert.Contains(t, md, "File: diamonds.csv")
	assert.Contains(t, md, "- cut_encoded: ordinal (non-null 1, missing 0.0%)")
	assert.Contains(t, md, "dropped 1 rows with non-positive width/height/length")
}
