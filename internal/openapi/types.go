package openapi

import (
	"k8s.io/kube-openapi/pkg/validation/spec"
)

// Catalog maps a fully-qualified definition key (io.k8s.api.apps.v1.Deployment) to its schema.
type Catalog map[string]spec.Schema

// SuffixIndex maps a short suffix (apps.v1.Deployment) to its fully-qualified catalog key.
type SuffixIndex map[string]string

type document struct {
	Definitions Catalog `json:"definitions"`
}
