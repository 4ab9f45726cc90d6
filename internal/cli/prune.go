package cli

import (
	"fmt"

	"github.com/lamlight-dev/lamlight/internal/prune"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune <dir>",
	Short: "Remove test directories from an installed dependency tree",
	Long: `Recursively delete every directory under <dir> whose name contains "tests".
Failures are reported per directory; the command exits non-zero if any removal failed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report := prune.New(osFs, logger).RemoveTestDirectories(args[0])

		out := cmd.OutOrStdout()
		for _, dir := range report.Removed {
			fmt.Fprintf(out, "removed %s\n", dir)
		}
		for _, f := range report.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", f.Path, f.Err)
		}
		for _, f := range report.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed  %s: %v\n", f.Path, f.Err)
		}

		if code := report.ExitCode(); code != 0 {
			return fmt.Errorf("pruning %s: %d directories could not be removed", args[0], len(report.Failures))
		}
		return nil
	},
}
