package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/lamlight-dev/lamlight/internal/branding"
	"github.com/lamlight-dev/lamlight/internal/projectconf"
	"github.com/lamlight-dev/lamlight/internal/scaffold"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var (
	createOutputDir string
	createTemplate  string
	createForce     bool
)

func init() {
	createCmd.Flags().StringVar(&createOutputDir, "output-dir", "", "Output directory (default: ./<name>)")
	createCmd.Flags().StringVar(&createTemplate, "template", "", "Template directory (default: built-in python template)")
	createCmd.Flags().BoolVar(&createForce, "force", false, "Merge into an existing non-empty directory, replacing template files")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Scaffold a new function project",
	Long: `Create a new function project from a template directory. Files ending in
.tmpl are rendered, and an empty requirements.txt is added if the template has none.

Examples:
  lamlight create orders-api
  lamlight create billing --template ~/templates/python-poetry`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}

		src, err := resolveTemplate()
		if err != nil {
			return err
		}

		outDir, err := filepath.Abs(resolveOutputDir(name))
		if err != nil {
			return fmt.Errorf("resolving output directory: %w", err)
		}

		var opts []scaffold.CopyOption
		if createForce {
			opts = append(opts, scaffold.WithMerge())
		}
		result, err := scaffold.CopyTemplate(src, osFs, outDir, scaffold.NewData(name), opts...)
		if err != nil {
			return err
		}
		logger.Debug("scaffolded project", zap.String("dir", outDir), zap.Int("files", len(result.Files)))

		if err := projectStore(outDir).Update(func(cfg *projectconf.Config) error {
			cfg.SetManifestName(result.Manifest)
			if buildVersion != "" {
				cfg.SetToolVersion(buildVersion)
			}
			return nil
		}); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printResult(out, result)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintf(out, "  1. Add dependencies to %s\n", result.Manifest)
		fmt.Fprintf(out, "  2. Run '%s bind <function-name>' to link a deployed function\n", branding.CLIName())
		fmt.Fprintf(out, "  3. Run '%s build' to produce the deployment archive\n", branding.CLIName())
		return nil
	},
}

func resolveTemplate() (fs.FS, error) {
	dir := createTemplate
	if dir == "" {
		dir = settings.TemplateDir
	}
	if dir == "" {
		return scaffold.DefaultTemplate(), nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must match pattern [a-z0-9][a-z0-9-]*", name)
	}
	return nil
}

func resolveOutputDir(name string) string {
	if createOutputDir != "" {
		return createOutputDir
	}
	return filepath.Join(".", name)
}

func printResult(w io.Writer, result *scaffold.Result) {
	fmt.Fprintf(w, "Created project at %s/\n", result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
}
