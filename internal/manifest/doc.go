// Package manifest parses and validates template.yaml, the metadata file that
// describes a project template: its name, the Lambda runtime it targets, the
// handler entry point and the dependency manifest file name. Validation runs
// against an embedded JSON Schema.
package manifest
