package curated

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/apimachinery/pkg/util/yaml"

	"github.com/bakito/hone-schema-gen/internal/hone"
	"github.com/bakito/hone-schema-gen/internal/openapi"
)

//go:embed curated.yaml
var defaultConfig []byte

// Config is the hand-authored selection of definitions, grouped by output file.
type Config struct {
	Buckets []hone.Bucket `json:"buckets"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	return Parse(defaultConfig)
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading curated config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML or JSON configuration.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error decoding curated config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid curated config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every suffix and every schema name is claimed by a single bucket.
func (c *Config) Validate() error {
	var errs field.ErrorList
	root := field.NewPath("buckets")
	if len(c.Buckets) == 0 {
		return field.ErrorList{field.Required(root, "at least one bucket must be defined")}.ToAggregate()
	}

	bucketNames := make(map[string]bool)
	suffixes := make(map[string]bool)
	schemaNames := make(map[string]string)

	for i, b := range c.Buckets {
		bp := root.Index(i)
		switch {
		case b.Name == "":
			errs = append(errs, field.Required(bp.Child("name"), ""))
		case b.Name == hone.TypesFile:
			errs = append(errs, field.Invalid(bp.Child("name"), b.Name, "reserved for the shared type aliases"))
		case strings.ContainsAny(b.Name, `/\`) || b.Name == "." || b.Name == "..":
			errs = append(errs, field.Invalid(bp.Child("name"), b.Name, "must be a plain file name"))
		case bucketNames[b.Name]:
			errs = append(errs, field.Duplicate(bp.Child("name"), b.Name))
		}
		bucketNames[b.Name] = true

		if len(b.Suffixes) == 0 {
			errs = append(errs, field.Required(bp.Child("suffixes"), "at least one suffix must be defined"))
		}
		for j, suffix := range b.Suffixes {
			sp := bp.Child("suffixes").Index(j)
			if suffix == "" {
				errs = append(errs, field.Required(sp, ""))
				continue
			}
			if suffixes[suffix] {
				errs = append(errs, field.Duplicate(sp, suffix))
				continue
			}
			suffixes[suffix] = true

			name := openapi.SchemaName(suffix)
			if hone.SharedAliases.Has(name) {
				errs = append(errs, field.Invalid(sp, suffix, fmt.Sprintf("schema name %q shadows a shared type alias", name)))
				continue
			}
			if owner, ok := schemaNames[name]; ok {
				errs = append(errs, field.Invalid(sp, suffix,
					fmt.Sprintf("schema name %q is already claimed by bucket %q", name, owner)))
				continue
			}
			schemaNames[name] = b.Name
		}
	}
	return errs.ToAggregate()
}
