//go:build generate
// +build generate

// update the golden files of the e2e tests
//go:generate go test ./cmd/generate-k8s-schemas -run TestGenerateK8sSchemasE2E -update

package gen
