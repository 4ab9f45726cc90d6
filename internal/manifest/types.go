package manifest

import (
	"fmt"
	"strings"
)

// FileName is the name of the metadata file at the root of a template.
const FileName = "template.yaml"

// DefaultDependencyManifest is used when a template does not name one.
const DefaultDependencyManifest = "requirements.txt"

// TemplateManifest describes a project template.
type TemplateManifest struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Runtime     string   `yaml:"runtime" json:"runtime"`
	Handler     string   `yaml:"handler" json:"handler"`
	Manifest    string   `yaml:"manifest,omitempty" json:"manifest,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// DependencyManifest returns the dependency manifest file name for projects
// created from this template.
func (m *TemplateManifest) DependencyManifest() string {
	if m.Manifest == "" {
		return DefaultDependencyManifest
	}
	return m.Manifest
}

// CheckDependencyManifest rejects manifest names that are not a plain file
// name in the project root.
func CheckDependencyManifest(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("dependency manifest %q must be a file name in the project root", name)
	}
	return nil
}
