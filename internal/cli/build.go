package cli

import (
	"fmt"

	"github.com/lamlight-dev/lamlight/internal/packager"
	"github.com/spf13/cobra"
)

var buildForce bool

func init() {
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "Reinstall dependencies even if the manifest is unchanged")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Package the project into a deployment archive",
	Long: `Install dependencies (only when the dependency manifest changed since the last
build), strip their test suites, and zip the project with its dependencies into
build/lambda.zip. Steps run in order and the build stops at the first failure.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}

		cfg, err := projectStore(root).Load()
		if err != nil {
			return err
		}
		manifestName, err := projectManifest(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		installer := packager.NewPipInstaller(settings.PipCommand, cmd.ErrOrStderr(), logger)
		builder := packager.NewBuilder(osFs, packager.Options{
			Root:         root,
			ManifestName: manifestName,
			BuildDir:     settings.BuildDir,
			ConfigFile:   settings.ConfigFile,
		}, installer, logger)

		report, err := builder.Build(cmd.Context(), buildForce)
		if err != nil {
			return err
		}

		switch {
		case report.Installed && !report.ManifestChanged:
			fmt.Fprintf(out, "%s unchanged, reinstalled dependencies (removed %d test directories)\n", manifestName, len(report.Pruned))
		case report.Installed:
			fmt.Fprintf(out, "Installed dependencies from %s (removed %d test directories)\n", manifestName, len(report.Pruned))
		default:
			fmt.Fprintf(out, "%s unchanged, reusing installed dependencies\n", manifestName)
		}
		fmt.Fprintf(out, "Packaged %d files into %s\n", report.Files, report.ArchivePath)
		return nil
	},
}
