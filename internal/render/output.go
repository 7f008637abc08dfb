package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bakito/hone-schema-gen/internal/curated"
	"github.com/bakito/hone-schema-gen/internal/hone"
	"github.com/bakito/hone-schema-gen/internal/openapi"
)

// Result holds the rendered files of a generation run.
type Result struct {
	Files []OutFile
	// Total is the number of rendered schema blocks over all buckets.
	Total int
}

// OutFile is a rendered file ready to be written.
type OutFile struct {
	Name        string
	Content     string
	SuccessMsg  string
	SuccessArgs []any
}

// Generate renders the shared aliases file and one file per curated bucket into targetDir.
// Nothing is written, see WriteFiles.
func Generate(catalog openapi.Catalog, cfg *curated.Config, version, targetDir string) *Result {
	idx := openapi.NewSuffixIndex(catalog)

	// first pass: all schema names must be known before any reference is resolved
	symbols := hone.NewSymbolTable(idx, cfg.Buckets)

	// second pass
	gen := hone.NewGenerator(catalog, idx, symbols, version)

	typesFile := filepath.Join(targetDir, hone.TypesFile+hone.Extension)
	res := &Result{
		Files: []OutFile{{
			Name:        typesFile,
			Content:     hone.TypesFileContent(),
			SuccessMsg:  "Successfully generated shared type aliases",
			SuccessArgs: []any{"file", typesFile},
		}},
	}

	for _, b := range cfg.Buckets {
		f := gen.GenerateFile(b)
		outputFile := filepath.Join(targetDir, f.Name+hone.Extension)
		res.Files = append(res.Files, OutFile{
			Name:       outputFile,
			Content:    f.Content,
			SuccessMsg: "Successfully generated hone schemas",
			SuccessArgs: []any{
				"bucket", f.Name,
				"schemas", len(f.Schemas),
				"imports", f.Imports,
				"missing", len(f.Missing),
				"file", outputFile,
			},
		})
		res.Total += len(f.Schemas)
	}
	return res
}

// WriteFiles writes all files. Each file is written to a temporary file first and
// renamed into place, so a failed write never leaves a truncated file behind.
func WriteFiles(files []OutFile) error {
	for _, f := range files {
		dir := filepath.Dir(f.Name)

		// Create the directory if it doesn't exist
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}

		if err := writeFile(f.Name, []byte(f.Content)); err != nil {
			return fmt.Errorf("error writing output file %s: %w", f.Name, err)
		}

		slog.With(f.SuccessArgs...).Info(f.SuccessMsg)
	}
	return nil
}

func writeFile(name string, content []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
