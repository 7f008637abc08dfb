package hone

import (
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/kube-openapi/pkg/validation/spec"

	"github.com/bakito/hone-schema-gen/internal/openapi"
)

var (
	primitives = map[string]string{
		"string":  "string",
		"integer": "int",
		"number":  "float",
		"boolean": "bool",
		"object":  ObjectType,
		"array":   "array",
	}
	intOrStringTypes = sets.New("string", "integer")
	builtinTypes     = sets.New("string", "int", "float", "bool", ObjectType, "array")
)

// Mapper converts JSON Schema nodes to hone type expressions.
// Only names of the included set are emitted as schema types, every other reference becomes an object.
type Mapper struct {
	included sets.Set[string]
}

func NewMapper(included sets.Set[string]) *Mapper {
	return &Mapper{included: included}
}

// MapType converts a JSON Schema property to a hone type. It never fails; shapes
// that can not be mapped become an object.
func (m *Mapper) MapType(s *spec.Schema) string {
	return m.mapType(s, nil)
}

// mapType records every emitted schema or alias name in refs, if not nil.
func (m *Mapper) mapType(s *spec.Schema, refs sets.Set[string]) string {
	if s == nil {
		return ObjectType
	}

	if ref := s.Ref.String(); ref != "" {
		return record(refs, m.ResolveRef(ref))
	}

	// only the first allOf element is considered
	if len(s.AllOf) > 0 {
		return m.mapType(&s.AllOf[0], refs)
	}

	if alts := alternatives(s); len(alts) > 0 {
		return record(refs, unionType(alts))
	}

	t, _ := extractType(s.Type)
	switch t {
	case "string", "integer", "number", "boolean":
		return primitives[t]
	case "array":
		return "array # " + m.mapType(itemSchema(s), refs)
	default:
		return ObjectType
	}
}

// ResolveRef resolves #/definitions/<key> to the schema name if it is included.
func (m *Mapper) ResolveRef(ref string) string {
	if name, ok := m.includedRef(ref); ok {
		return name
	}
	return ObjectType
}

// Dependencies returns the included schemas referenced by the properties of def,
// directly or as array items. Refs nested in composition branches are not followed.
func (m *Mapper) Dependencies(def *spec.Schema) sets.Set[string] {
	deps := sets.New[string]()
	for _, prop := range def.Properties {
		if name, ok := m.includedRef(prop.Ref.String()); ok {
			deps.Insert(name)
		}
		if prop.Items != nil && prop.Items.Schema != nil {
			if name, ok := m.includedRef(prop.Items.Schema.Ref.String()); ok {
				deps.Insert(name)
			}
		}
	}
	return deps
}

func (m *Mapper) includedRef(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	name := openapi.SchemaName(openapi.RefKey(ref))
	return name, m.included.Has(name)
}

func record(refs sets.Set[string], name string) string {
	if refs != nil && !builtinTypes.Has(name) {
		refs.Insert(name)
	}
	return name
}

// oneOf takes precedence over anyOf.
func alternatives(s *spec.Schema) []spec.Schema {
	if len(s.OneOf) > 0 {
		return s.OneOf
	}
	return s.AnyOf
}

// unionType collapses the primitive types of union alternatives.
func unionType(alts []spec.Schema) string {
	var nonNull []string
	for i := range alts {
		if t, ok := extractType(alts[i].Type); ok && t != "null" {
			nonNull = append(nonNull, t)
		}
	}
	if sets.New(nonNull...).Equal(intOrStringTypes) {
		return IntOrString
	}
	if len(nonNull) == 1 {
		if p, ok := primitives[nonNull[0]]; ok {
			return p
		}
	}
	return ObjectType
}

// extractType returns the type of the string form or of a nullable array with a single other member.
func extractType(t spec.StringOrArray) (string, bool) {
	if len(t) == 1 {
		return t[0], true
	}
	var nonNull []string
	for _, v := range t {
		if v != "null" {
			nonNull = append(nonNull, v)
		}
	}
	if len(nonNull) == 1 {
		return nonNull[0], true
	}
	return "", false
}

func itemSchema(s *spec.Schema) *spec.Schema {
	switch {
	case s.Items == nil:
		return nil
	case s.Items.Schema != nil:
		return s.Items.Schema
	case len(s.Items.Schemas) > 0:
		return &s.Items.Schemas[0]
	default:
		return nil
	}
}
