package hone

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"
)

func TestRenderSchemaProbe(t *testing.T) {
	def := schemaOf(t, `{"properties": {"timeoutSeconds": {"type": "integer"}}, "required": []}`)

	s, ok := testMapper().RenderSchema("Probe", def)
	require.True(t, ok)
	assert.Equal(t, "schema Probe {\n  timeoutSeconds?: int\n  ...\n}", s.Text)
	assert.Equal(t, "Probe", s.Name)
	assert.Empty(t, s.Refs)
}

func TestRenderSchemaWithoutProperties(t *testing.T) {
	m := testMapper()

	_, ok := m.RenderSchema("Time", schemaOf(t, `{"type": "string", "format": "date-time"}`))
	assert.False(t, ok)

	_, ok = m.RenderSchema("Empty", schemaOf(t, `{"properties": {}}`))
	assert.False(t, ok)

	_, ok = m.RenderSchema("Nil", nil)
	assert.False(t, ok)
}

func TestRenderSchemaRequired(t *testing.T) {
	def := schemaOf(t, `{
	  "properties": {
	    "b": {"type": "string"},
	    "a": {"type": "boolean"},
	    "c": {"type": "number"}
	  },
	  "required": ["b", "unknown"]
	}`)

	s, ok := testMapper().RenderSchema("Sample", def)
	require.True(t, ok)
	assert.Equal(t, strings.Join([]string{
		"schema Sample {",
		"  a?: bool",
		"  b: string",
		"  c?: float",
		"  ...",
		"}",
	}, "\n"), s.Text)
}

func TestRenderSchemaReservedWords(t *testing.T) {
	props := []string{`"name": {"type": "string"}`, `"types": {"type": "string"}`}
	for w := range reservedWords {
		props = append(props, fmt.Sprintf(`%q: {"type": "string"}`, w))
	}
	def := schemaOf(t, fmt.Sprintf(`{"properties": {%s}, "required": ["type"]}`, strings.Join(props, ",")))

	s, ok := testMapper().RenderSchema("Reserved", def)
	require.True(t, ok)

	lines := strings.Split(s.Text, "\n")
	assert.Len(t, lines, reservedWords.Len()+5)
	for w := range reservedWords {
		if w == "type" {
			assert.Contains(t, lines, `  "type": string`)
			continue
		}
		assert.Contains(t, lines, fmt.Sprintf(`  "%s"?: string`, w))
	}
	assert.Contains(t, lines, "  name?: string")
	assert.Contains(t, lines, "  types?: string")
	assert.Equal(t, "types", FieldName("types"))
	assert.Equal(t, `"fn"`, FieldName("fn"))
}

func TestRenderSchemaRefs(t *testing.T) {
	def := schemaOf(t, `{
	  "properties": {
	    "env":       {"type": "array", "items": {"$ref": "#/definitions/io.k8s.api.core.v1.EnvVar"}},
	    "other":     {"$ref": "#/definitions/io.k8s.api.core.v1.PodSpec"},
	    "probe":     {"allOf": [{"$ref": "#/definitions/io.k8s.api.core.v1.Probe"}]},
	    "size":      {"$ref": "#/definitions/io.k8s.apimachinery.pkg.api.resource.Quantity"},
	    "port":      {"anyOf": [{"type": "integer"}, {"type": "string"}]},
	    "name":      {"type": "string"},
	    "count":     {"oneOf": [{"type": "integer"}]},
	    "ratio":     {"anyOf": [{"type": "number"}, {"type": "null"}]},
	    "enabled":   {"oneOf": [{"type": "boolean"}]},
	    "tags":      {"oneOf": [{"type": "array"}]}
	  }
	}`)

	s, ok := testMapper().RenderSchema("Sample", def)
	require.True(t, ok)
	assert.Equal(t, sets.New("EnvVar", "Probe", "Quantity", "IntOrString"), s.Refs)
	assert.Contains(t, s.Text, "  port?: IntOrString\n")
	assert.Contains(t, s.Text, "  count?: int\n")
	assert.Contains(t, s.Text, "  ratio?: float\n")
	assert.Contains(t, s.Text, "  enabled?: bool\n")
	assert.Contains(t, s.Text, "  tags?: array\n")
	assert.Contains(t, s.Text, "  other?: object\n")
}

func TestRenderSchemaDeterministic(t *testing.T) {
	a := schemaOf(t, `{"properties": {"x": {"type": "string"}, "a": {"type": "integer"}, "m": {"type": "boolean"}}}`)
	b := schemaOf(t, `{"properties": {"m": {"type": "boolean"}, "x": {"type": "string"}, "a": {"type": "integer"}}}`)

	m := testMapper()
	sa, _ := m.RenderSchema("S", a)
	for range 10 {
		sb, _ := m.RenderSchema("S", b)
		assert.Equal(t, sa.Text, sb.Text)
	}
}
