package projectconf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Section names.
const (
	SectionFunction = "LAMBDA_FUNCTION"
	SectionProject  = "PROJECT_DETAILS"
	SectionTool     = "LAMLIGHT"
)

// Keys are stored lower-cased.
const (
	KeyFunctionName         = "functionname"
	KeyLastRequirementMTime = "last_requirement_mtime"
	KeyVersion              = "version"
	KeyManifest             = "manifest"
)

// ErrConfigParse is returned when the project file exists but is not valid
// INI, or when a typed value cannot be decoded.
var ErrConfigParse = errors.New("malformed project configuration")

var loadOptions = ini.LoadOptions{
	InsensitiveKeys: true,
}

// Config is the in-memory form of the project configuration file.
type Config struct {
	file *ini.File
}

// New returns an empty configuration with no sections.
func New() *Config {
	return &Config{file: ini.Empty(loadOptions)}
}

// Sections returns the names of all sections in file order.
func (c *Config) Sections() []string {
	var names []string
	for _, name := range c.file.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		names = append(names, name)
	}
	return names
}

// HasSection reports whether the named section exists.
func (c *Config) HasSection(name string) bool {
	if name == ini.DefaultSection {
		return false
	}
	return c.file.HasSection(name)
}

// Get returns the raw string value of section.key.
func (c *Config) Get(section, key string) (string, bool) {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return "", false
	}
	key = strings.ToLower(key)
	if !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

// Set stores value under section.key, creating the section if needed.
func (c *Config) Set(section, key, value string) {
	c.file.Section(section).Key(strings.ToLower(key)).SetValue(value)
}

// SetFunctionName binds the project to a remote function.
func (c *Config) SetFunctionName(name string) {
	c.Set(SectionFunction, KeyFunctionName, name)
}

// FunctionName returns the bound function name, or "" when unbound.
func (c *Config) FunctionName() string {
	v, _ := c.Get(SectionFunction, KeyFunctionName)
	return v
}

// SetLastRequirementModifiedTime records the manifest modification time in
// seconds since the Unix epoch.
func (c *Config) SetLastRequirementModifiedTime(ts int64) {
	c.Set(SectionProject, KeyLastRequirementMTime, strconv.FormatInt(ts, 10))
}

// LastRequirementModifiedTime decodes the recorded manifest modification time.
func (c *Config) LastRequirementModifiedTime() (int64, error) {
	raw, ok := c.Get(SectionProject, KeyLastRequirementMTime)
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s is not set", ErrConfigParse, SectionProject, KeyLastRequirementMTime)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s.%s = %q is not an integer", ErrConfigParse, SectionProject, KeyLastRequirementMTime, raw)
	}
	return ts, nil
}

// SetToolVersion records the version of the tool that created the project.
func (c *Config) SetToolVersion(v string) {
	c.Set(SectionTool, KeyVersion, v)
}

// ToolVersion returns the recorded tool version, or "" if none.
func (c *Config) ToolVersion() string {
	v, _ := c.Get(SectionTool, KeyVersion)
	return v
}

// SetManifestName records the dependency manifest chosen when the project
// was created.
func (c *Config) SetManifestName(name string) {
	c.Set(SectionTool, KeyManifest, name)
}

// ManifestName returns the recorded dependency manifest name, or "" if none.
func (c *Config) ManifestName() string {
	v, _ := c.Get(SectionTool, KeyManifest)
	return v
}
