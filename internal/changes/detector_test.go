package changes

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/lamlight-dev/lamlight/internal/projectconf"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = "/proj/requirements.txt"

func writeManifest(t *testing.T, mem afero.Fs, mtime int64) {
	t.Helper()
	require.NoError(t, afero.WriteFile(mem, manifest, []byte("requests==2.31.0\n"), 0644))
	touch(t, mem, mtime)
}

func touch(t *testing.T, mem afero.Fs, mtime int64) {
	t.Helper()
	ts := time.Unix(mtime, 0)
	require.NoError(t, mem.Chtimes(manifest, ts, ts))
}

func TestMissingProjectDetailsIsChanged(t *testing.T) {
	mem := afero.NewMemMapFs()
	d := NewDetector(mem)

	t.Run("manifest present", func(t *testing.T) {
		writeManifest(t, mem, 1000)
		cfg := projectconf.New()
		cfg.SetFunctionName("bound-but-never-built")

		changed, err := d.HasRequirementChanged(cfg, manifest)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("manifest absent", func(t *testing.T) {
		changed, err := d.HasRequirementChanged(projectconf.New(), "/nowhere/requirements.txt")
		require.NoError(t, err)
		assert.True(t, changed)
	})
}

func TestFreshProjectScenario(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := projectconf.NewStore(mem, "/proj")

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Sections())

	changed, err := NewDetector(mem).HasRequirementChanged(cfg, "requirements.txt")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTimestampComparison(t *testing.T) {
	tests := []struct {
		name     string
		recorded int64
		current  int64
		want     bool
	}{
		{"equal", 1000, 1000, false},
		{"newer manifest", 1000, 1001, true},
		{"older manifest", 1000, 999, true},
		{"far in the past", 1700000000, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := afero.NewMemMapFs()
			writeManifest(t, mem, tt.current)

			cfg := projectconf.New()
			cfg.SetLastRequirementModifiedTime(tt.recorded)

			changed, err := NewDetector(mem).HasRequirementChanged(cfg, manifest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, changed)
		})
	}
}

func TestTouchScenario(t *testing.T) {
	mem := afero.NewMemMapFs()
	store := projectconf.NewStore(mem, "/proj")
	require.NoError(t, afero.WriteFile(mem, store.Path(), []byte("[PROJECT_DETAILS]\nlast_requirement_mtime = 1000\n"), 0644))
	writeManifest(t, mem, 1000)

	cfg, err := store.Load()
	require.NoError(t, err)
	d := NewDetector(mem)

	changed, err := d.HasRequirementChanged(cfg, manifest)
	require.NoError(t, err)
	assert.False(t, changed)

	touch(t, mem, 1001)
	changed, err = d.HasRequirementChanged(cfg, manifest)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestRecordThenCheck(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeManifest(t, mem, 1234)
	d := NewDetector(mem)
	store := projectconf.NewStore(mem, "/proj")

	cfg := projectconf.New()
	require.NoError(t, d.RecordRequirement(cfg, manifest))
	require.NoError(t, store.Save(cfg))

	reloaded, err := store.Load()
	require.NoError(t, err)
	ts, err := reloaded.LastRequirementModifiedTime()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), ts)

	changed, err := d.HasRequirementChanged(reloaded, manifest)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSetThenCheckSameTimestamp(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeManifest(t, mem, 42)

	cfg := projectconf.New()
	cfg.SetLastRequirementModifiedTime(42)

	changed, err := NewDetector(mem).HasRequirementChanged(cfg, manifest)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMissingManifestPropagates(t *testing.T) {
	cfg := projectconf.New()
	cfg.SetLastRequirementModifiedTime(1000)

	_, err := NewDetector(afero.NewMemMapFs()).HasRequirementChanged(cfg, manifest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), manifest)
}

func TestCorruptRecordedValue(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeManifest(t, mem, 1000)

	cfg := projectconf.New()
	cfg.Set(projectconf.SectionProject, projectconf.KeyLastRequirementMTime, "not-a-number")

	_, err := NewDetector(mem).HasRequirementChanged(cfg, manifest)
	assert.ErrorIs(t, err, projectconf.ErrConfigParse)
}
