package scaffold

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templateFS embed.FS

// DefaultTemplateName is the built-in template used when none is given.
const DefaultTemplateName = "python"

// BuiltinTemplate returns the embedded template with the given name.
func BuiltinTemplate(name string) (fs.FS, error) {
	sub, err := fs.Sub(templateFS, "templates/"+name)
	if err != nil {
		return nil, err
	}
	if _, err := fs.Stat(sub, "."); err != nil {
		return nil, err
	}
	return sub, nil
}

// DefaultTemplate returns the embedded Python template.
func DefaultTemplate() fs.FS {
	sub, err := BuiltinTemplate(DefaultTemplateName)
	if err != nil {
		panic("scaffold: embedded default template missing: " + err.Error())
	}
	return sub
}
