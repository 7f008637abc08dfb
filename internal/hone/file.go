package hone

import (
	"fmt"
	"log/slog"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/kube-openapi/pkg/validation/spec"

	"github.com/bakito/hone-schema-gen/internal/openapi"
)

const myName = "generate-k8s-schemas"

// SymbolTable holds the schema names collected in the first pass, before any file is rendered.
// References across buckets can only be resolved once every bucket is known.
type SymbolTable struct {
	// Included holds every curated schema name and the shared aliases.
	Included sets.Set[string]
	// BucketSchemas holds the schema names rendered by each bucket.
	BucketSchemas map[string]sets.Set[string]

	buckets []string
}

func NewSymbolTable(idx openapi.SuffixIndex, buckets []Bucket) *SymbolTable {
	t := &SymbolTable{
		Included:      SharedAliases.Clone(),
		BucketSchemas: make(map[string]sets.Set[string], len(buckets)),
	}
	for _, b := range buckets {
		names := sets.New[string]()
		for _, suffix := range b.Suffixes {
			if key, ok := idx[suffix]; ok {
				name := openapi.SchemaName(key)
				t.Included.Insert(name)
				names.Insert(name)
			}
		}
		if _, ok := t.BucketSchemas[b.Name]; !ok {
			t.buckets = append(t.buckets, b.Name)
		}
		t.BucketSchemas[b.Name] = names
	}
	return t
}

// Owner returns the first bucket in declaration order, other than exclude, that renders the schema name.
func (t *SymbolTable) Owner(name, exclude string) (string, bool) {
	for _, b := range t.buckets {
		if b != exclude && t.BucketSchemas[b].Has(name) {
			return b, true
		}
	}
	return "", false
}

// Generator assembles the files of the second pass.
type Generator struct {
	catalog openapi.Catalog
	index   openapi.SuffixIndex
	symbols *SymbolTable
	mapper  *Mapper
	version string
}

func NewGenerator(catalog openapi.Catalog, idx openapi.SuffixIndex, symbols *SymbolTable, version string) *Generator {
	return &Generator{
		catalog: catalog,
		index:   idx,
		symbols: symbols,
		mapper:  NewMapper(symbols.Included),
		version: version,
	}
}

type definition struct {
	name string
	def  *spec.Schema
}

// GenerateFile generates the hone file of a bucket.
func (g *Generator) GenerateFile(b Bucket) *File {
	f := &File{Name: b.Name}

	var defs []definition
	local := sets.New[string]()
	for _, suffix := range b.Suffixes {
		key, def, ok := g.catalog.Definition(g.index, suffix)
		if !ok {
			slog.Warn("Definition not found", "bucket", b.Name, "suffix", suffix)
			f.Missing = append(f.Missing, suffix)
			continue
		}
		name := openapi.SchemaName(key)
		local.Insert(name)
		defs = append(defs, definition{name: name, def: def})
	}

	imports := sets.New[string]()
	for _, d := range defs {
		for dep := range g.mapper.Dependencies(d.def) {
			if local.Has(dep) || dep == IntOrString {
				continue
			}
			if owner, ok := g.symbols.Owner(dep, b.Name); ok {
				imports.Insert(owner)
			}
		}
	}

	var blocks []string
	for _, d := range defs {
		s, ok := g.mapper.RenderSchema(d.name, d.def)
		if !ok {
			continue
		}
		if s.Refs.HasAny(SharedAliases.UnsortedList()...) {
			imports.Insert(TypesFile)
		}
		blocks = append(blocks, s.Text)
		f.Schemas = append(f.Schemas, s.Name)
	}

	lines := []string{
		fmt.Sprintf("# Kubernetes %s schemas (auto-generated)", b.Name),
		"#",
		fmt.Sprintf("# Generated from kubernetes-json-schema v%s.", g.version),
		"# Do not edit manually -- regenerate with " + myName,
		"",
	}

	f.Imports = sets.List(imports)
	for _, imp := range f.Imports {
		lines = append(lines, fmt.Sprintf(`import "./%s%s" as %s`, imp, Extension, strings.TrimLeft(imp, "_")))
	}
	if len(f.Imports) > 0 {
		lines = append(lines, "")
	}

	for i, block := range blocks {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, block)
	}

	lines = append(lines, "")
	f.Content = strings.Join(lines, "\n")
	return f
}
