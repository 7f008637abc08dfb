package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakito/hone-schema-gen/internal/curated"
	"github.com/bakito/hone-schema-gen/internal/hone"
	"github.com/bakito/hone-schema-gen/internal/openapi"
)

func TestGenerate(t *testing.T) {
	catalog, err := openapi.Load(filepath.Join("..", "..", "testdata", "definitions.json"))
	require.NoError(t, err)
	cfg, err := curated.Load(filepath.Join("..", "..", "testdata", "curated.yaml"))
	require.NoError(t, err)

	res := Generate(catalog, cfg, "1.30", "out")
	require.Len(t, res.Files, 4)
	assert.Equal(t, 15, res.Total)

	var names []string
	for _, f := range res.Files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		filepath.Join("out", "_types.hone"),
		filepath.Join("out", "_meta.hone"),
		filepath.Join("out", "core.hone"),
		filepath.Join("out", "apps.hone"),
	}, names)
	assert.Equal(t, hone.TypesFileContent(), res.Files[0].Content)
	assert.Contains(t, res.Files[3].SuccessArgs, 2)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "v1.30")
	files := []OutFile{
		{Name: filepath.Join(dir, "a.hone"), Content: "a\n", SuccessMsg: "a"},
		{Name: filepath.Join(dir, "b.hone"), Content: "b\n", SuccessMsg: "b"},
	}
	require.NoError(t, WriteFiles(files))

	// overwrite existing files
	files[0].Content = "aa\n"
	require.NoError(t, WriteFiles(files))

	data, err := os.ReadFile(files[0].Name)
	require.NoError(t, err)
	assert.Equal(t, "aa\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files must be left behind")
}

func TestWriteFilesError(t *testing.T) {
	dir := t.TempDir()
	// a directory with the name of the output file makes the rename fail
	target := filepath.Join(dir, "core.hone")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0o644))

	err := WriteFiles([]OutFile{{Name: target, Content: "x"}})
	require.ErrorContains(t, err, "error writing output file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed")
}
