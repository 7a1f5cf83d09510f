package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the content compiled into the binary.
func Default() (*Content, error) {
	return Parse(defaultYAML)
}

// MustDefault is Default for callers that cannot recover from a broken build.
func MustDefault() *Content {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded content: %v", err))
	}
	return c
}

// Parse decodes and validates a YAML content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	return &c, nil
}

// LoadFile reads a YAML content document from disk.
func LoadFile(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	return Parse(data)
}
