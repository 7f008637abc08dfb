package openapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// DefaultBaseURL hosts the per-version _definitions.json documents.
const DefaultBaseURL = "https://raw.githubusercontent.com/yannh/kubernetes-json-schema/master"

// DefinitionsURL returns the document URL of a kubernetes version like 1.30.
func DefinitionsURL(baseURL, version string) string {
	return fmt.Sprintf("%s/v%s.0/_definitions.json", strings.TrimSuffix(baseURL, "/"), version)
}

// Fetch downloads and parses a definitions document.
func Fetch(ctx context.Context, client *http.Client, url string) (Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading %s: unexpected status %s", url, resp.Status)
	}
	return Parse(resp.Body)
}
