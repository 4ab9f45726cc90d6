package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/lamlight-dev/lamlight/internal/branding"
	"github.com/lamlight-dev/lamlight/internal/changes"
	"github.com/lamlight-dev/lamlight/internal/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the project binding and dependency state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}

		store := projectStore(root)
		cfg, err := store.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Project:   %s\n", root)

		fn := cfg.FunctionName()
		if fn == "" {
			fn = fmt.Sprintf("(unbound, run '%s bind <function-name>')", branding.CLIName())
		}
		fmt.Fprintf(out, "Function:  %s\n", fn)

		manifestName, err := projectManifest(cfg)
		if err != nil {
			return err
		}
		manifestPath := filepath.Join(root, manifestName)
		changed, err := changes.NewDetector(osFs).HasRequirementChanged(cfg, manifestPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(out, "Manifest:  %s is missing\n", manifestName)
		case err != nil:
			return err
		case changed:
			fmt.Fprintf(out, "Manifest:  %s changed since last build\n", manifestName)
		default:
			fmt.Fprintf(out, "Manifest:  %s unchanged since last build\n", manifestName)
		}

		if pv := cfg.ToolVersion(); pv != "" && version.ProjectNewer(buildVersion, pv) {
			fmt.Fprintf(out, "Warning:   project was created by %s %s, newer than this binary (%s)\n",
				branding.CLIName(), pv, buildVersion)
		}
		return nil
	},
}
