// Package prune strips test suites out of installed dependency trees before
// they are packaged, keeping the deployment archive small.
package prune

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Marker is the substring that selects a directory for removal.
const Marker = "tests"

// Failure records a directory that could not be removed.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a pruning walk. Failures holds directories whose
// removal failed; Skipped holds paths the walk could not read.
type Report struct {
	Removed  []string
	Failures []Failure
	Skipped  []Failure
}

// ExitCode returns 0 when every removal succeeded, 1 otherwise. Skipped
// paths do not count.
func (r Report) ExitCode() int {
	if len(r.Failures) > 0 {
		return 1
	}
	return 0
}

// Pruner removes test directories from a tree.
type Pruner struct {
	fs     afero.Fs
	logger *zap.Logger
}

// New creates a Pruner. A nil logger disables logging.
func New(fsys afero.Fs, logger *zap.Logger) *Pruner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pruner{fs: fsys, logger: logger}
}

// RemoveTestDirectories walks root and deletes every subdirectory whose name
// contains Marker. The root itself is never removed. Errors are collected in
// the report rather than returned. Unreadable paths, the root included, are
// skipped.
func (p *Pruner) RemoveTestDirectories(root string) Report {
	var report Report

	walkErr := afero.Walk(p.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			p.logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			report.Skipped = append(report.Skipped, Failure{Path: path, Err: err})
			return nil
		}
		if path == root || !info.IsDir() || !strings.Contains(info.Name(), Marker) {
			return nil
		}

		if err := p.fs.RemoveAll(path); err != nil {
			p.logger.Warn("could not remove test directory", zap.String("path", path), zap.Error(err))
			report.Failures = append(report.Failures, Failure{Path: path, Err: err})
		} else {
			p.logger.Debug("removed test directory", zap.String("path", path))
			report.Removed = append(report.Removed, path)
		}
		return filepath.SkipDir
	})
	if walkErr != nil {
		p.logger.Warn("could not walk tree", zap.String("root", root), zap.Error(walkErr))
		report.Skipped = append(report.Skipped, Failure{Path: root, Err: walkErr})
	}

	return report
}
