// Package source provides catalog source adapters: the HTTP JSON export,
// local JSON files, and XLSX price lists.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ludmilasolutions/productos/internal/catalog"
	"github.com/ludmilasolutions/productos/internal/models"
)

// Source fetches the raw catalog record sequence. Raw returns the exact
// bytes fetched so callers can persist them as a fallback snapshot.
type Source interface {
	// Fetch returns the raw records plus the undecoded payload bytes.
	Fetch(ctx context.Context) ([]models.CatalogItem, []byte, error)
}

// Decode parses a JSON catalog payload. A payload that is not a JSON
// sequence fails the whole load with a *catalog.LoadError.
func Decode(payload []byte) ([]models.CatalogItem, error) {
	var raw []models.CatalogItem
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &catalog.LoadError{Stage: "decode", Err: err}
	}
	return raw, nil
}

// HTTPSource fetches the catalog JSON from a URL.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTP source. timeout bounds the whole fetch.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and decodes the catalog. Network errors and non-2xx
// statuses surface as *catalog.LoadError.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.CatalogItem, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, nil, &catalog.LoadError{Stage: "fetch", Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, &catalog.LoadError{Stage: "fetch", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &catalog.LoadError{
			Stage: "fetch",
			Err:   fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.url),
		}
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &catalog.LoadError{Stage: "fetch", Err: err}
	}
	raw, err := Decode(payload)
	if err != nil {
		return nil, nil, err
	}
	return raw, payload, nil
}

// FileSource reads the catalog from a local file. JSON by default; paths
// ending in .xlsx are delegated to the XLSX reader.
type FileSource struct {
	path string
}

// NewFileSource creates a file source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(ctx context.Context) ([]models.CatalogItem, []byte, error) {
	if strings.EqualFold(filepath.Ext(s.path), ".xlsx") {
		raw, err := ReadXLSX(s.path)
		if err != nil {
			return nil, nil, err
		}
		// Re-encode so the snapshot fallback stores one uniform format.
		payload, err := json.Marshal(raw)
		if err != nil {
			return nil, nil, &catalog.LoadError{Stage: "decode", Err: err}
		}
		return raw, payload, nil
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, &catalog.LoadError{Stage: "fetch", Err: err}
	}
	raw, err := Decode(payload)
	if err != nil {
		return nil, nil, err
	}
	return raw, payload, nil
}
