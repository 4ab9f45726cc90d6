package manifest

import (
	"fmt"
	"io/fs"

	"go.yaml.in/yaml/v3"
)

// Parse decodes template manifest YAML.
func Parse(data []byte) (*TemplateManifest, error) {
	var m TemplateManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing template manifest: %w", err)
	}
	return &m, nil
}

// Load reads and parses FileName from the root of fsys.
func Load(fsys fs.FS) (*TemplateManifest, error) {
	data, err := fs.ReadFile(fsys, FileName)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	return Parse(data)
}
