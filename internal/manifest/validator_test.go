package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

const testdataDir = "testdata"

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(testdataDir, name))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestValidate_ValidManifests(t *testing.T) {
	for _, file := range []string{"valid-template.yaml", "valid-custom-manifest.yaml"} {
		t.Run(file, func(t *testing.T) {
			result, err := Validate(readTestdata(t, file))
			if err != nil {
				t.Fatalf("Validate(%s) error: %v", file, err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got %d issues:", len(result.Issues))
				for _, issue := range result.Issues {
					t.Errorf("  %s (keyword=%s)", issue, issue.Keyword)
				}
			}
		})
	}
}

func TestValidate_InvalidManifests(t *testing.T) {
	tests := []struct {
		file string
		desc string
	}{
		{"invalid-missing-handler.yaml", "missing required handler"},
		{"invalid-bad-runtime.yaml", "non-python runtime"},
		{"invalid-bad-name-pattern.yaml", "name violates pattern"},
		{"invalid-manifest-path.yaml", "manifest outside project root"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := Validate(readTestdata(t, tt.file))
			if err != nil {
				t.Fatalf("Validate(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Errorf("expected invalid for %s (%s)", tt.file, tt.desc)
			}
			if len(result.Issues) == 0 {
				t.Errorf("expected at least one issue for %s", tt.file)
			}
		})
	}
}

func TestValidate_InvalidYAML(t *testing.T) {
	if _, err := Validate(readTestdata(t, "invalid-not-yaml.yaml")); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_SchemaCompiles(t *testing.T) {
	schema, err := getSchema()
	if err != nil {
		t.Fatalf("getSchema() error: %v", err)
	}
	if schema == nil {
		t.Fatal("getSchema() returned nil schema")
	}
}

func TestValidateFS(t *testing.T) {
	fsys := fstest.MapFS{
		FileName: &fstest.MapFile{Data: readTestdata(t, "valid-template.yaml")},
	}
	result, err := ValidateFS(fsys)
	if err != nil {
		t.Fatalf("ValidateFS error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got %v", result.Issues)
	}

	if _, err := ValidateFS(fstest.MapFS{}); err == nil {
		t.Error("expected error when template.yaml is missing")
	}
}
