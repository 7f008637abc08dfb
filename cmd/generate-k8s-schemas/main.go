package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bakito/hone-schema-gen/internal/curated"
	"github.com/bakito/hone-schema-gen/internal/openapi"
	"github.com/bakito/hone-schema-gen/internal/render"
)

type options struct {
	version     string
	output      string
	definitions string
	baseURL     string
	timeout     time.Duration
	curated     string
	crds        []string
	crdVersion  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:          "generate-k8s-schemas",
		Short:        "Generate the hone schema library from the kubernetes JSON schema definitions",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, o)
		},
	}

	cmd.Flags().StringVar(&o.version, "version", "1.30", "The kubernetes version")
	cmd.Flags().StringVar(&o.output, "output", filepath.Join("lib", "k8s"), "The output directory")
	cmd.Flags().StringVar(&o.definitions, "definitions", "", "Path to a local _definitions.json (skips the download)")
	cmd.Flags().StringVar(&o.baseURL, "base-url", openapi.DefaultBaseURL, "The base url to download the definitions from")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 2*time.Minute, "The download timeout")
	cmd.Flags().StringVar(&o.curated, "curated", "", "Path to a curated bucket config replacing the built-in one")
	cmd.Flags().StringSliceVar(&o.crds, "crd", nil, "CRD file to merge into the definitions")
	cmd.Flags().StringVar(&o.crdVersion, "crd-version", "",
		"The version to select from the CRDs; If not defined, the storage version is used")

	return cmd
}

func run(cmd *cobra.Command, o *options) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))

	if strings.TrimSpace(o.version) == "" {
		return errors.New("flag version must not be empty")
	}

	cfg, err := loadConfig(o.curated)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cmd.Context(), o)
	if err != nil {
		return fmt.Errorf("failed to load definitions: %w", err)
	}
	slog.Info("Loaded definitions", "count", len(catalog))

	for _, crd := range o.crds {
		data, err := os.ReadFile(crd)
		if err != nil {
			return fmt.Errorf("error reading crd file: %w", err)
		}
		key, err := catalog.AddCRD(data, o.crdVersion)
		if err != nil {
			return fmt.Errorf("failed to add CRD %s: %w", crd, err)
		}
		slog.Info("Added CRD definition", "file", crd, "definition", key)
	}

	outDir := filepath.Join(o.output, "v"+o.version)
	res := render.Generate(catalog, cfg, o.version, outDir)
	if err := render.WriteFiles(res.Files); err != nil {
		return err
	}

	slog.Info("Done", "schemas", res.Total, "dir", outDir)
	return nil
}

func loadConfig(path string) (*curated.Config, error) {
	if path == "" {
		return curated.Default()
	}
	return curated.Load(path)
}

func loadCatalog(ctx context.Context, o *options) (openapi.Catalog, error) {
	if o.definitions != "" {
		slog.Info("Loading definitions", "file", o.definitions)
		return openapi.Load(o.definitions)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	url := openapi.DefinitionsURL(o.baseURL, o.version)
	slog.Info("Downloading definitions", "url", url)
	return openapi.Fetch(ctx, nil, url)
}
