package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rana718/txgen/internal/batch"
	"github.com/Rana718/txgen/internal/database/sqlite"
	"github.com/Rana718/txgen/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "txgen version "+Version)
}

func TestGenerateEndToEnd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated")

	out, err := execute(t, "generate", "--n_files", "3", "--base_rows", "10", "--row_delta", "0", "--seed", "42", "--out_dir", dir)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		name := batch.FileName(i, 10, "csv")
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "(10 rows")
	assert.Contains(t, out, "Generated 3 anonymized file(s) in "+dir)

	first, err := os.ReadFile(filepath.Join(dir, batch.FileName(2, 10, "csv")))
	require.NoError(t, err)

	_, err = execute(t, "generate", "--n-files", "3", "--base-rows", "10", "--row-delta", "0", "--seed", "42", "--out-dir", dir)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, batch.FileName(2, 10, "csv")))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateRequiresFileCount(t *testing.T) {
	_, err := execute(t, "generate", "--out_dir", t.TempDir())
	assert.ErrorIs(t, err, batch.ErrInvalidOptions)
}

func TestGenerateRejectsNegativeDelta(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	_, err := execute(t, "generate", "--n_files", "1", "--row_delta", "-1", "--out_dir", dir)
	assert.ErrorIs(t, err, batch.ErrInvalidOptions)
	assert.NoDirExists(t, dir)
}

func TestGenerateRejectsOversizedCounts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")

	_, err := execute(t, "generate", "--n_files", "1", "--row_delta", "9223372036854775807", "--out_dir", dir)
	assert.ErrorIs(t, err, batch.ErrInvalidOptions)

	_, err = execute(t, "generate", "--n_files", "1", "--base_rows", "9223372036854775807", "--row_delta", "1", "--out_dir", dir)
	assert.ErrorIs(t, err, batch.ErrInvalidOptions)

	assert.NoDirExists(t, dir)
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "generate", "--n_files", "1", "--format", "xml", "--out_dir", t.TempDir())
	assert.ErrorContains(t, err, "unsupported format")
}

func TestGenerateFromConfigFile(t *testing.T) {
	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "out")
	cfgPath := filepath.Join(tmp, "txgen.config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("n_files: 2\nbase_rows: 4\nrow_delta: 0\nseed: 1\nformat: json\nout_dir: "+outDir+"\n"), 0644))

	_, err := execute(t, "--config", cfgPath, "generate", "--base_rows", "6")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, batch.FileName(1, 6, "json")))
	assert.FileExists(t, filepath.Join(outDir, batch.FileName(2, 6, "json")))
}

func TestGenerateMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "generate", "--n_files", "1")
	assert.ErrorContains(t, err, "failed to read config")
}

func TestGenerateWritesManifest(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "generate", "--n_files", "2", "--base_rows", "5", "--row_delta", "2", "--seed", "7", "--out_dir", dir, "--manifest")
	require.NoError(t, err)
	assert.Contains(t, out, "Manifest written")

	m, err := manifest.Read(filepath.Join(dir, manifest.FileName))
	require.NoError(t, err)
	require.Len(t, m.Files, 2)
	assert.Contains(t, out, fmt.Sprintf("(%d rows total)", m.TotalRows()))
	require.NotNil(t, m.Options.Seed)
	assert.EqualValues(t, 7, *m.Options.Seed)
	for _, f := range m.Files {
		assert.FileExists(t, f.Location)
		assert.GreaterOrEqual(t, f.Rows, 3)
		assert.LessOrEqual(t, f.Rows, 7)
	}
}

func TestPushSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "push.db")
	t.Setenv("TXGEN_TEST_PUSH_URL", "sqlite://"+dbPath)

	out, err := execute(t, "push", "--provider", "sqlite", "--url_env", "TXGEN_TEST_PUSH_URL", "--n_files", "2", "--base_rows", "3", "--row_delta", "0", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite:transactions_anonymized_1_3rows")
	assert.Contains(t, out, "sqlite database")

	_, err = execute(t, "push", "--provider", "sqlite", "--url_env", "TXGEN_TEST_PUSH_URL", "--n_files", "1", "--base_rows", "3", "--row_delta", "0", "--seed", "1")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "push", "--provider", "sqlite", "--url_env", "TXGEN_TEST_PUSH_URL", "--n_files", "1", "--base_rows", "3", "--row_delta", "0", "--seed", "1", "--replace")
	require.NoError(t, err)

	adapter := sqlite.New()
	require.NoError(t, adapter.Connect(t.Context(), "sqlite://"+dbPath))
	defer adapter.Close()
	exists, err := adapter.CheckTableExists(t.Context(), "transactions_anonymized_2_3rows")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPushRequiresURL(t *testing.T) {
	_, err := execute(t, "push", "--provider", "sqlite", "--url_env", "TXGEN_TEST_UNSET_URL", "--n_files", "1")
	assert.ErrorContains(t, err, "TXGEN_TEST_UNSET_URL")
}

func TestInitWritesConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "txgen.config.yaml")
	assert.FileExists(t, "txgen.config.yaml")

	_, err = execute(t, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", "--force")
	require.NoError(t, err)

	// The written file is picked up by generate.
	_, err = execute(t, "generate", "--base_rows", "2", "--row_delta", "0", "--seed", "3", "--out_dir", "out")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("out", batch.FileName(1, 2, "csv")))
}
