package changes

import (
	"fmt"

	"github.com/lamlight-dev/lamlight/internal/projectconf"
	"github.com/spf13/afero"
)

// Detector compares recorded manifest state against the filesystem.
type Detector struct {
	fs afero.Fs
}

// NewDetector returns a Detector reading manifests from fsys.
func NewDetector(fsys afero.Fs) *Detector {
	return &Detector{fs: fsys}
}

// ModifiedTime returns the manifest modification time in seconds since the
// Unix epoch. A missing manifest yields an error matching fs.ErrNotExist.
func (d *Detector) ModifiedTime(manifestPath string) (int64, error) {
	info, err := d.fs.Stat(manifestPath)
	if err != nil {
		return 0, fmt.Errorf("stat manifest %s: %w", manifestPath, err)
	}
	return info.ModTime().Unix(), nil
}

// HasRequirementChanged reports whether the manifest differs from the state
// recorded in cfg. Without a PROJECT_DETAILS section it returns true and does
// not look at the manifest.
func (d *Detector) HasRequirementChanged(cfg *projectconf.Config, manifestPath string) (bool, error) {
	if !cfg.HasSection(projectconf.SectionProject) {
		return true, nil
	}

	recorded, err := cfg.LastRequirementModifiedTime()
	if err != nil {
		return false, err
	}

	current, err := d.ModifiedTime(manifestPath)
	if err != nil {
		return false, err
	}

	return current != recorded, nil
}

// RecordRequirement stores the manifest's current modification time in cfg.
// The caller is responsible for saving cfg.
func (d *Detector) RecordRequirement(cfg *projectconf.Config, manifestPath string) error {
	current, err := d.ModifiedTime(manifestPath)
	if err != nil {
		return err
	}
	cfg.SetLastRequirementModifiedTime(current)
	return nil
}
