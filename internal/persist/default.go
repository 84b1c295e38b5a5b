package persist

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

//go:embed seed/default.yaml
var defaultSeed []byte

// DefaultDocument parses the packaged starter layout. It is the end of the
// load fallback chain: the page never renders empty.
func DefaultDocument() (layout.Document, error) {
	return decodeSeed(defaultSeed)
}

// decodeSeed reads a YAML seed by way of JSON, so the seed files use the
// same field names as the persisted documents.
func decodeSeed(data []byte) (layout.Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return layout.Document{}, fmt.Errorf("parse seed yaml: %w", err)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return layout.Document{}, fmt.Errorf("re-encode seed: %w", err)
	}
	doc, err := layout.Decode(encoded)
	if err != nil {
		return layout.Document{}, fmt.Errorf("decode seed document: %w", err)
	}
	return doc, nil
}
