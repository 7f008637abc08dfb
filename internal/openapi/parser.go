package openapi

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	apiv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/json"
	"k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/kube-openapi/pkg/validation/spec"
)

// RefPrefix is the fragment prefix of every local $ref in a definitions document.
const RefPrefix = "#/definitions/"

// ErrMissingDefinitions is returned when a document has no top-level definitions.
var ErrMissingDefinitions = errors.New("document has no top-level definitions")

// KnownPrefixes are stripped from catalog keys to build the suffix index.
var KnownPrefixes = []string{"io.k8s.api.", "io.k8s.apimachinery."}

// Parse decodes a JSON or YAML definitions document.
func Parse(r io.Reader) (Catalog, error) {
	var doc document
	if err := yaml.NewYAMLOrJSONDecoder(r, 4096).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding definitions document: %w", err)
	}
	if doc.Definitions == nil {
		return nil, ErrMissingDefinitions
	}
	return doc.Definitions, nil
}

// Load reads a local definitions document.
func Load(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening definitions file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// SchemaName converts io.k8s.api.apps.v1.Deployment -> Deployment.
func SchemaName(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[i+1:]
	}
	return key
}

// RefKey converts #/definitions/io.k8s.api.apps.v1.Deployment -> io.k8s.api.apps.v1.Deployment.
func RefKey(ref string) string {
	return strings.TrimPrefix(ref, RefPrefix)
}

// NewSuffixIndex builds the suffix -> key map. Keys are visited in sorted order
// and the first key claiming a suffix wins.
func NewSuffixIndex(c Catalog) SuffixIndex {
	idx := make(SuffixIndex, len(c))
	for _, key := range slices.Sorted(maps.Keys(c)) {
		suffix := key
		for _, prefix := range KnownPrefixes {
			if s, ok := strings.CutPrefix(key, prefix); ok {
				suffix = s
				break
			}
		}
		if _, ok := idx[suffix]; !ok {
			idx[suffix] = key
		}
	}
	return idx
}

// Definition looks up the schema of a curated suffix.
func (c Catalog) Definition(idx SuffixIndex, suffix string) (key string, def *spec.Schema, ok bool) {
	key, ok = idx[suffix]
	if !ok {
		return "", nil, false
	}
	s, ok := c[key]
	if !ok {
		return "", nil, false
	}
	return key, &s, true
}

// AddCRD merges the schema of a CustomResourceDefinition into the catalog under
// <group>.<version>.<Kind>. If desiredVersion is empty the storage version is used.
func (c Catalog) AddCRD(crdData []byte, desiredVersion string) (string, error) {
	var crd apiv1.CustomResourceDefinition
	if err := yaml.Unmarshal(crdData, &crd); err != nil {
		return "", err
	}
	if crd.Spec.Names.Kind == "" || crd.Spec.Group == "" {
		return "", errors.New("manifest is not a CustomResourceDefinition")
	}

	props, version, err := extractSchema(crd, desiredVersion)
	if err != nil {
		return "", err
	}

	key := crd.Spec.Group + "." + version + "." + crd.Spec.Names.Kind
	if _, ok := c[key]; ok {
		return "", fmt.Errorf("definition %q already exists", key)
	}

	// JSONSchemaProps and spec.Schema share the JSON-Schema wire format
	b, err := json.Marshal(props)
	if err != nil {
		return "", err
	}
	var s spec.Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return "", fmt.Errorf("error converting schema of %q: %w", key, err)
	}
	c[key] = s
	return key, nil
}

// Extract schema from CRD.
func extractSchema(
	crd apiv1.CustomResourceDefinition,
	desiredVersion string,
) (schema *apiv1.JSONSchemaProps, version string, err error) {
	for _, v := range crd.Spec.Versions {
		if (desiredVersion == "" && v.Storage) || desiredVersion == v.Name {
			if v.Schema == nil || v.Schema.OpenAPIV3Schema == nil {
				return nil, "", fmt.Errorf("version %q of CRD %q has no schema", v.Name, crd.Name)
			}
			return v.Schema.OpenAPIV3Schema, v.Name, nil
		}
	}

	return nil, "", fmt.Errorf("could not find desired version %q in CRD", desiredVersion)
}
