package projectconf

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/proj")

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Sections())
	assert.False(t, cfg.HasSection(SectionProject))
	assert.Equal(t, "", cfg.FunctionName())
}

func TestSaveCreatesSections(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := NewStore(mem, "/proj")

	cfg := New()
	cfg.SetFunctionName("my-function")
	cfg.SetLastRequirementModifiedTime(1700000000)
	require.NoError(t, store.Save(cfg))

	data, err := afero.ReadFile(mem, "/proj/.lamlight.conf")
	require.NoError(t, err)
	assert.Contains(t, string(data), "[LAMBDA_FUNCTION]")
	assert.Contains(t, string(data), "functionname = my-function")
	assert.Contains(t, string(data), "[PROJECT_DETAILS]")
	assert.Contains(t, string(data), "last_requirement_mtime = 1700000000")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{SectionFunction, SectionProject}, loaded.Sections())
	assert.Equal(t, "my-function", loaded.FunctionName())

	ts, err := loaded.LastRequirementModifiedTime()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts)
}

func TestSaveOverwritesInFull(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := NewStore(mem, "/proj")

	first := New()
	first.SetFunctionName("old")
	first.SetLastRequirementModifiedTime(1)
	require.NoError(t, store.Save(first))

	second := New()
	second.SetFunctionName("new")
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.FunctionName())
	assert.False(t, loaded.HasSection(SectionProject), "save must not merge with prior content")
}

func TestSaveLoadRoundTripIsByteIdentical(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := NewStore(mem, "/proj")
	original := "[LAMBDA_FUNCTION]\nfunctionname = my-function\n\n[PROJECT_DETAILS]\nlast_requirement_mtime = 1700000000\n\n"
	require.NoError(t, afero.WriteFile(mem, store.Path(), []byte(original), 0644))

	cfg, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Save(cfg))
	first, err := afero.ReadFile(mem, store.Path())
	require.NoError(t, err)

	cfg, err = store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Save(cfg))
	second, err := afero.ReadFile(mem, store.Path())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := NewStore(mem, "/proj")
	require.NoError(t, afero.WriteFile(mem, store.Path(), []byte("[LAMBDA_FUNCTION]\nFunctionName = upper\n"), 0644))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "upper", cfg.FunctionName())

	v, ok := cfg.Get(SectionFunction, "FUNCTIONNAME")
	assert.True(t, ok)
	assert.Equal(t, "upper", v)
}

func TestLoadMalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unclosed section", "[LAMBDA_FUNCTION\nfunctionname = x\n"},
		{"missing delimiter", "[LAMBDA_FUNCTION]\nthis line has no delimiter\n"},
		{"no section header", "functionname = x\n"},
		{"repeated section", "[PROJECT_DETAILS]\nlast_requirement_mtime = 1\n\n[PROJECT_DETAILS]\nlast_requirement_mtime = 2\n"},
		{"repeated key", "[PROJECT_DETAILS]\nlast_requirement_mtime = 1\nlast_requirement_mtime = 2\n"},
		{"repeated key differing in case", "[LAMBDA_FUNCTION]\nfunctionname = a\nFunctionName = a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := afero.NewMemMapFs()
			store := NewStore(mem, "/proj")
			require.NoError(t, afero.WriteFile(mem, store.Path(), []byte(tt.content), 0644))

			_, err := store.Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigParse))
			assert.Contains(t, err.Error(), store.Path())
		})
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	store := NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/proj")

	cfg := New()
	cfg.SetFunctionName("f")
	err := store.Save(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing project config")
}

func TestSaveMissingParentDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")
	store := NewStore(afero.NewOsFs(), root)

	err := store.Save(New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLastRequirementModifiedTimeNotInteger(t *testing.T) {
	cfg := New()
	cfg.Set(SectionProject, KeyLastRequirementMTime, "yesterday")

	_, err := cfg.LastRequirementModifiedTime()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigParse))
}

func TestUpdate(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := NewStore(mem, "/proj", WithFileName("custom.conf"))

	require.NoError(t, store.Update(func(cfg *Config) error {
		cfg.SetToolVersion("1.2.0")
		return nil
	}))

	exists, err := afero.Exists(mem, "/proj/custom.conf")
	require.NoError(t, err)
	assert.True(t, exists)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", cfg.ToolVersion())
	assert.False(t, cfg.HasSection(SectionProject))
}

func TestUpdateCallbackErrorSkipsSave(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := NewStore(mem, "/proj")
	boom := errors.New("boom")

	err := store.Update(func(cfg *Config) error {
		cfg.SetFunctionName("never")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, _ := afero.Exists(mem, store.Path())
	assert.False(t, exists)
}
