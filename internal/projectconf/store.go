package projectconf

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// DefaultFileName is the project file name used when none is configured.
const DefaultFileName = ".lamlight.conf"

// Store loads and saves a project configuration at a fixed path under the
// project root.
type Store struct {
	fs       afero.Fs
	root     string
	fileName string
}

// Option configures a Store.
type Option func(*Store)

// WithFileName overrides the project file name.
func WithFileName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.fileName = name
		}
	}
}

// NewStore creates a Store for the project rooted at root.
func NewStore(fsys afero.Fs, root string, opts ...Option) *Store {
	s := &Store{
		fs:       fsys,
		root:     root,
		fileName: DefaultFileName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FileName returns the project file name.
func (s *Store) FileName() string {
	return s.fileName
}

// Path returns the full path of the project file.
func (s *Store) Path() string {
	return filepath.Join(s.root, s.fileName)
}

// Load reads the project file. A missing file yields an empty Config.
func (s *Store) Load() (*Config, error) {
	path := s.Path()
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading project config %s: %w", path, err)
	}

	if err := checkStrict(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return &Config{file: f}, nil
}

// strictOptions keep repeated sections and keys apart so checkStrict can
// see them; loadOptions would merge them silently.
var strictOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	AllowShadows:               true,
	AllowDuplicateShadowValues: true,
	AllowNonUniqueSections:     true,
}

// checkStrict rejects keys outside any section, repeated sections and
// repeated keys within a section.
func checkStrict(data []byte) error {
	f, err := ini.LoadSources(strictOptions, data)
	if err != nil {
		return err
	}
	if keys := f.Section(ini.DefaultSection).Keys(); len(keys) > 0 {
		return fmt.Errorf("key %q is outside of any section", keys[0].Name())
	}

	seen := make(map[string]bool)
	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection {
			continue
		}
		if seen[name] {
			return fmt.Errorf("section %q is repeated", name)
		}
		seen[name] = true

		for _, key := range sec.Keys() {
			if len(key.ValueWithShadows()) > 1 {
				return fmt.Errorf("key %q is repeated in section %q", key.Name(), name)
			}
		}
	}
	return nil
}

// Save overwrites the project file with the full contents of cfg.
func (s *Store) Save(cfg *Config) error {
	var buf bytes.Buffer
	if _, err := cfg.file.WriteTo(&buf); err != nil {
		return fmt.Errorf("encoding project config: %w", err)
	}

	path := s.Path()
	if err := afero.WriteFile(s.fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing project config %s: %w", path, err)
	}
	return nil
}

// Update loads the configuration, applies fn and saves the result.
func (s *Store) Update(fn func(*Config) error) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return s.Save(cfg)
}
