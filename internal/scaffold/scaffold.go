package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/lamlight-dev/lamlight/internal/manifest"
	"github.com/spf13/afero"
)

// ScaffoldingError is the fixed message carried by every PackagingError.
const ScaffoldingError = "unable to create the project scaffold"

// PackagingError reports a failed template copy.
type PackagingError struct {
	Dir string
	Err error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("%s at %s: %v", ScaffoldingError, e.Dir, e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }

// Data holds the variables available to .tmpl files.
type Data struct {
	Name     string // project name, e.g. "orders-api"
	Runtime  string // e.g. "python3.12"
	Handler  string // e.g. "lambda_function.lambda_handler"
	Manifest string // dependency manifest file name
	Year     int
}

// NewData creates Data for a project with template defaults applied.
func NewData(name string) *Data {
	return &Data{
		Name:     name,
		Runtime:  "python3.12",
		Handler:  "lambda_function.lambda_handler",
		Manifest: manifest.DefaultDependencyManifest,
		Year:     time.Now().Year(),
	}
}

// Result holds the outcome of a scaffold copy.
type Result struct {
	OutputDir string
	Files     []string
	Manifest  string
	Warnings  []string
}

// CopyOption configures CopyTemplate.
type CopyOption func(*copyOptions)

type copyOptions struct {
	merge bool
}

// WithMerge lets CopyTemplate write into a non-empty directory. Template
// files replace existing files of the same name; other files are kept.
func WithMerge() CopyOption {
	return func(o *copyOptions) { o.merge = true }
}

// CopyTemplate copies the template tree src into destDir on dst. The
// template's template.yaml, when present, is validated and supplies
// runtime, handler and exclude patterns; it is not copied. A non-empty
// destDir is refused unless WithMerge is given. Any failure is returned as
// a *PackagingError.
func CopyTemplate(src fs.FS, dst afero.Fs, destDir string, data *Data, opts ...CopyOption) (*Result, error) {
	var o copyOptions
	for _, opt := range opts {
		opt(&o)
	}
	if data == nil {
		data = NewData(filepath.Base(destDir))
	}
	result := &Result{OutputDir: destDir}

	var exclude []string
	if _, err := fs.Stat(src, manifest.FileName); err == nil {
		tm, warnings := readTemplateManifest(src)
		result.Warnings = append(result.Warnings, warnings...)
		if tm != nil {
			exclude = tm.Exclude
			if tm.Runtime != "" {
				data.Runtime = tm.Runtime
			}
			if tm.Handler != "" {
				data.Handler = tm.Handler
			}
			data.Manifest = tm.DependencyManifest()
		}
	}
	if err := manifest.CheckDependencyManifest(data.Manifest); err != nil {
		return nil, &PackagingError{Dir: destDir, Err: err}
	}
	result.Manifest = data.Manifest

	if err := dst.MkdirAll(destDir, 0755); err != nil {
		return nil, &PackagingError{Dir: destDir, Err: fmt.Errorf("creating output directory: %w", err)}
	}
	if entries, err := afero.ReadDir(dst, destDir); err == nil && len(entries) > 0 && !o.merge {
		return nil, &PackagingError{Dir: destDir, Err: fmt.Errorf("output directory is not empty")}
	}

	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if p == manifest.FileName || excluded(exclude, d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		out := filepath.Join(destDir, filepath.FromSlash(p))
		if d.IsDir() {
			return dst.MkdirAll(out, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		name, err := copyEntry(src, dst, p, out, data)
		if err != nil {
			return err
		}
		result.Files = append(result.Files, name)
		return nil
	})
	if err != nil {
		return nil, &PackagingError{Dir: destDir, Err: err}
	}
	if len(result.Files) == 0 {
		return nil, &PackagingError{Dir: destDir, Err: fmt.Errorf("template contains no files")}
	}

	created, err := ensureManifest(dst, filepath.Join(destDir, data.Manifest))
	if err != nil {
		return nil, &PackagingError{Dir: destDir, Err: err}
	}
	if created {
		result.Files = append(result.Files, data.Manifest)
	}

	return result, nil
}

// copyEntry writes one template file to out, rendering .tmpl files. It
// returns the slash-separated output name relative to the project root.
func copyEntry(src fs.FS, dst afero.Fs, p, out string, data *Data) (string, error) {
	raw, err := fs.ReadFile(src, p)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", p, err)
	}

	name := p
	if strings.HasSuffix(p, ".tmpl") {
		name = strings.TrimSuffix(p, ".tmpl")
		out = strings.TrimSuffix(out, ".tmpl")

		tmpl, err := template.New(path.Base(p)).Parse(string(raw))
		if err != nil {
			return "", fmt.Errorf("parsing template %s: %w", p, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("executing template %s: %w", p, err)
		}
		raw = buf.Bytes()
	}

	if err := dst.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", out, err)
	}
	if err := afero.WriteFile(dst, out, raw, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return name, nil
}

// ensureManifest creates an empty dependency manifest unless one exists.
func ensureManifest(dst afero.Fs, manifestPath string) (bool, error) {
	exists, err := afero.Exists(dst, manifestPath)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", manifestPath, err)
	}
	if exists {
		return false, nil
	}
	if err := afero.WriteFile(dst, manifestPath, nil, 0644); err != nil {
		return false, fmt.Errorf("creating %s: %w", manifestPath, err)
	}
	return true, nil
}

func readTemplateManifest(src fs.FS) (*manifest.TemplateManifest, []string) {
	var warnings []string

	valResult, err := manifest.ValidateFS(src)
	if err != nil {
		return nil, []string{fmt.Sprintf("Could not validate %s: %v", manifest.FileName, err)}
	}
	for _, issue := range valResult.Issues {
		warnings = append(warnings, issue.String())
	}

	tm, err := manifest.Load(src)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("Could not read %s: %v", manifest.FileName, err))
	}
	return tm, warnings
}

func excluded(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
