package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lamlight-dev/lamlight/internal/branding"
	"github.com/lamlight-dev/lamlight/internal/config"
	"github.com/lamlight-dev/lamlight/internal/logging"
	"github.com/lamlight-dev/lamlight/internal/manifest"
	"github.com/lamlight-dev/lamlight/internal/projectconf"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Resolved once per invocation in PersistentPreRunE.
var (
	settingsViper *viper.Viper
	settings      config.Settings
	logger        = zap.NewNop()
	osFs          = afero.NewOsFs()
)

var (
	logLevelFlag string
	projectFlag  string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds serverless function projects, pulls code packages,
and builds deployment archives, reinstalling dependencies only when requirements.txt changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		settingsViper = config.New()
		if logLevelFlag != "" {
			settingsViper.Set(config.KeyLogLevel, logLevelFlag)
		}

		s, err := config.Load(settingsViper)
		if err != nil {
			return err
		}
		settings = s

		l, err := logging.New(settings.LogLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "C", ".", "Project root directory")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// projectRoot returns the absolute project directory selected with -C.
func projectRoot() (string, error) {
	root, err := filepath.Abs(projectFlag)
	if err != nil {
		return "", fmt.Errorf("resolving project directory %s: %w", projectFlag, err)
	}
	return root, nil
}

func projectStore(root string) *projectconf.Store {
	return projectconf.NewStore(osFs, root, projectconf.WithFileName(settings.ConfigFile))
}

// projectManifest returns the dependency manifest name recorded in cfg,
// falling back to the configured default.
func projectManifest(cfg *projectconf.Config) (string, error) {
	name := cfg.ManifestName()
	if name == "" {
		return settings.ManifestName, nil
	}
	if err := manifest.CheckDependencyManifest(name); err != nil {
		return "", fmt.Errorf("%w: %s.%s: %v", projectconf.ErrConfigParse, projectconf.SectionTool, projectconf.KeyManifest, err)
	}
	return name, nil
}
