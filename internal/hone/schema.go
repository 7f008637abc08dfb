package hone

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/kube-openapi/pkg/validation/spec"
)

// RenderSchema generates a single hone schema block. Definitions without properties
// are not rendered.
func (m *Mapper) RenderSchema(name string, def *spec.Schema) (*Schema, bool) {
	if def == nil || len(def.Properties) == 0 {
		return nil, false
	}

	required := sets.New(def.Required...)
	refs := sets.New[string]()

	lines := []string{fmt.Sprintf("schema %s {", name)}
	for _, propName := range slices.Sorted(maps.Keys(def.Properties)) {
		prop := def.Properties[propName]
		opt := "?"
		if required.Has(propName) {
			opt = ""
		}
		lines = append(lines, fmt.Sprintf("  %s%s: %s", FieldName(propName), opt, m.mapType(&prop, refs)))
	}
	// structural typing, upstream objects may carry unlisted fields
	lines = append(lines, "  ...", "}")

	return &Schema{
		Name: name,
		Text: strings.Join(lines, "\n"),
		Refs: refs,
	}, true
}
