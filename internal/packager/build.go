package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lamlight-dev/lamlight/internal/archive"
	"github.com/lamlight-dev/lamlight/internal/changes"
	"github.com/lamlight-dev/lamlight/internal/pipeline"
	"github.com/lamlight-dev/lamlight/internal/projectconf"
	"github.com/lamlight-dev/lamlight/internal/prune"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Step names.
const (
	StepInstall = "install"
	StepPrune   = "prune"
	StepPackage = "package"
	StepRecord  = "record"
)

// ArchiveName is the deployment archive written inside the build directory.
const ArchiveName = "lambda.zip"

// Options locate the pieces of a project.
type Options struct {
	Root         string // project root (absolute)
	ManifestName string // e.g. requirements.txt
	BuildDir     string // relative to Root, e.g. build
	ConfigFile   string // e.g. .lamlight.conf
}

// Builder packages a single project.
type Builder struct {
	fs        afero.Fs
	opts      Options
	store     *projectconf.Store
	detector  *changes.Detector
	installer DependencyInstaller
	pruner    *prune.Pruner
	runner    *pipeline.Runner
	logger    *zap.Logger
}

// Report describes a finished build.
type Report struct {
	ManifestChanged bool // manifest differs from the last recorded build
	Installed       bool // install and prune steps were planned
	Executed        []string
	ArchivePath     string
	Files           int
	Pruned          []string
}

// NewBuilder wires a Builder. A nil logger disables logging.
func NewBuilder(fsys afero.Fs, opts Options, installer DependencyInstaller, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ManifestName == "" {
		opts.ManifestName = "requirements.txt"
	}
	if opts.BuildDir == "" {
		opts.BuildDir = "build"
	}
	return &Builder{
		fs:        fsys,
		opts:      opts,
		store:     projectconf.NewStore(fsys, opts.Root, projectconf.WithFileName(opts.ConfigFile)),
		detector:  changes.NewDetector(fsys),
		installer: installer,
		pruner:    prune.New(fsys, logger),
		runner:    pipeline.New(pipeline.WithLogger(logger)),
		logger:    logger,
	}
}

// ManifestPath returns the dependency manifest path.
func (b *Builder) ManifestPath() string {
	return filepath.Join(b.opts.Root, b.opts.ManifestName)
}

// DepsDir returns the directory dependencies are installed into.
func (b *Builder) DepsDir() string {
	return filepath.Join(b.buildDir(), "deps")
}

// ArchivePath returns the path of the deployment archive.
func (b *Builder) ArchivePath() string {
	return filepath.Join(b.buildDir(), ArchiveName)
}

func (b *Builder) buildDir() string {
	return filepath.Join(b.opts.Root, b.opts.BuildDir)
}

// NeedsInstall reports whether dependencies must be reinstalled: the
// manifest changed since the last recorded build, or the installed
// dependencies are gone.
func (b *Builder) NeedsInstall() (bool, error) {
	changed, err := b.manifestChanged()
	if err != nil {
		return false, err
	}
	return changed || b.depsMissing(), nil
}

func (b *Builder) manifestChanged() (bool, error) {
	cfg, err := b.store.Load()
	if err != nil {
		return false, err
	}
	return b.detector.HasRequirementChanged(cfg, b.ManifestPath())
}

func (b *Builder) depsMissing() bool {
	if ok, _ := afero.DirExists(b.fs, b.DepsDir()); !ok {
		b.logger.Info("installed dependencies missing", zap.String("dir", b.DepsDir()))
		return true
	}
	return false
}

// Build runs the packaging pipeline. With force set, dependencies are
// reinstalled regardless of the recorded manifest state.
func (b *Builder) Build(ctx context.Context, force bool) (*Report, error) {
	changed, err := b.manifestChanged()
	if err != nil {
		return nil, err
	}
	install := force || changed || b.depsMissing()

	report := &Report{ManifestChanged: changed, Installed: install, ArchivePath: b.ArchivePath()}
	res, err := b.runner.RunSequential(ctx, b.Plan(install, report))
	report.Executed = res.Executed
	if err != nil {
		return report, err
	}
	return report, nil
}

// Plan returns the build steps. Install and prune only run when install is
// set. Step outcomes are recorded into report.
func (b *Builder) Plan(install bool, report *Report) []pipeline.Step {
	var steps []pipeline.Step
	if install {
		steps = append(steps,
			pipeline.Step{Name: StepInstall, Run: b.installStep},
			pipeline.Step{Name: StepPrune, Run: func(context.Context) error {
				return b.pruneStep(report)
			}},
		)
	}
	return append(steps,
		pipeline.Step{Name: StepPackage, Run: func(context.Context) error {
			return b.packageStep(report)
		}},
		pipeline.Step{Name: StepRecord, Run: func(context.Context) error {
			return b.recordStep()
		}},
	)
}

func (b *Builder) installStep(ctx context.Context) error {
	if b.installer == nil {
		return fmt.Errorf("no dependency installer configured")
	}
	manifestPath := b.ManifestPath()
	if _, err := b.fs.Stat(manifestPath); err != nil {
		return fmt.Errorf("stat manifest %s: %w", manifestPath, err)
	}

	deps := b.DepsDir()
	if err := b.fs.RemoveAll(deps); err != nil {
		return fmt.Errorf("clearing %s: %w", deps, err)
	}
	if err := b.fs.MkdirAll(deps, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", deps, err)
	}
	return b.installer.Install(ctx, manifestPath, deps)
}

func (b *Builder) pruneStep(report *Report) error {
	result := b.pruner.RemoveTestDirectories(b.DepsDir())
	if report != nil {
		report.Pruned = result.Removed
	}
	if code := result.ExitCode(); code != 0 {
		return fmt.Errorf("could not remove %d test directories from %s", len(result.Failures), b.DepsDir())
	}
	return nil
}

func (b *Builder) packageStep(report *Report) error {
	dirs := []string{b.opts.Root}
	if ok, _ := afero.DirExists(b.fs, b.DepsDir()); ok {
		dirs = append(dirs, b.DepsDir())
	}

	n, err := archive.Pack(b.fs, b.ArchivePath(), dirs, b.skip)
	if err != nil {
		return err
	}
	if report != nil {
		report.Files = n
	}
	b.logger.Info("packaged project", zap.String("archive", b.ArchivePath()), zap.Int("files", n))
	return nil
}

func (b *Builder) recordStep() error {
	return b.store.Update(func(cfg *projectconf.Config) error {
		return b.detector.RecordRequirement(cfg, b.ManifestPath())
	})
}

// skip leaves build output, project metadata, VCS data and bytecode out of
// the deployment archive.
func (b *Builder) skip(path string, info os.FileInfo) bool {
	if path == b.buildDir() {
		return true
	}
	name := info.Name()
	switch {
	case name == b.store.FileName():
		return path == b.store.Path()
	case name == ".git", name == "__pycache__", name == ".gitignore":
		return true
	case strings.HasSuffix(name, ".pyc"):
		return true
	}
	return false
}
