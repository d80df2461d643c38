package graft

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is the shared validator instance.
var validate = validator.New()

// Manifest describes a module on disk. Fields are validated with
// go-playground/validator struct tags when loaded.
type Manifest struct {
	Name     string         `yaml:"name" json:"name" validate:"required"`
	Version  string         `yaml:"version" json:"version"`
	Entry    string         `yaml:"entry" json:"entry"`
	Requires []string       `yaml:"requires" json:"requires" validate:"dive,required"`
	Config   map[string]any `yaml:"config" json:"config"`
}

// ContentResource is implemented by resources that expose raw contents,
// such as FileTree resources. ManifestLoader requires it.
type ContentResource interface {
	Resource
	Bytes() ([]byte, error)
}

// ManifestLoader decodes a resource's contents into a Manifest and
// validates it. YAML and JSON are both accepted; the format is detected
// from content. Load returns a *Manifest.
type ManifestLoader struct{}

// NewManifestLoader creates a ManifestLoader.
func NewManifestLoader() *ManifestLoader {
	return &ManifestLoader{}
}

// Load reads, decodes, and validates the resource's manifest.
func (l *ManifestLoader) Load(r Resource) (any, error) {
	src, ok := r.(ContentResource)
	if !ok {
		return nil, fmt.Errorf("resource %s does not expose contents", r.Path())
	}

	data, err := src.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	var m Manifest
	if err := unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}
	if err := validate.Struct(m); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &m, nil
}

// unmarshal parses bytes, detecting the format from content.
func unmarshal(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)

	// Detect JSON by leading character
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.Unmarshal(data, v)
	}

	// Default to YAML (which also handles plain JSON)
	return yaml.Unmarshal(data, v)
}
