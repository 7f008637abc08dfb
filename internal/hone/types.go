package hone

import (
	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	// ObjectType is the catch-all type used when no more specific mapping applies.
	ObjectType = "object"
	// IntOrString is the shared alias of the kubernetes int-or-string convention.
	IntOrString = "IntOrString"
	// TypesFile is the file holding the shared aliases.
	TypesFile = "_types"
	// Extension of generated files.
	Extension = ".hone"
)

// SharedAliases are defined in the types file and always count as included.
var SharedAliases = sets.New(IntOrString, "Quantity", "K8sName", "K8sDnsLabel")

// reserved words of the hone language, they must be quoted as field names
var reservedWords = sets.New(
	"let", "when", "else", "for", "import", "from", "true", "false", "null",
	"assert", "type", "schema", "variant", "expect", "secret", "policy",
	"deny", "warn", "use", "in", "as", "fn",
)

// Bucket is a named, ordered group of definition suffixes rendered into one file.
type Bucket struct {
	Name     string   `json:"name"`
	Suffixes []string `json:"suffixes"`
}

// Schema is one rendered schema block.
type Schema struct {
	Name string
	Text string
	// Refs holds every schema or alias name the block references.
	Refs sets.Set[string]
}

// File is the rendered content of one bucket.
type File struct {
	Name    string
	Content string
	// Schemas lists the rendered schema blocks in output order.
	Schemas []string
	Imports []string
	// Missing lists the suffixes not found in the catalog.
	Missing []string
}

// FieldName quotes reserved words.
func FieldName(name string) string {
	if reservedWords.Has(name) {
		return `"` + name + `"`
	}
	return name
}

// TypesFileContent returns the fixed content of the shared aliases file.
func TypesFileContent() string {
	return `# Kubernetes shared type aliases
#
# Common constrained types used across K8s resource schemas.
# Import these in your .hone files alongside the resource schemas.

type IntOrString = string
type Quantity = string
type K8sName = string(1, 253)
type K8sDnsLabel = string(1, 63)
`
}
