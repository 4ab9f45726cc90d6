package cli

import (
	"fmt"
	"regexp"

	"github.com/lamlight-dev/lamlight/internal/projectconf"
	"github.com/spf13/cobra"
)

// Accepts plain names, partial ARNs and full ARNs.
var functionPattern = regexp.MustCompile(`^[A-Za-z0-9_:.$-]{1,170}$`)

func init() {
	rootCmd.AddCommand(bindCmd)
}

var bindCmd = &cobra.Command{
	Use:   "bind <function-name>",
	Short: "Link the project to a deployed function",
	Long:  `Record the remote function this project deploys to in the project configuration file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !functionPattern.MatchString(name) {
			return fmt.Errorf("invalid function name %q", name)
		}

		root, err := projectRoot()
		if err != nil {
			return err
		}

		store := projectStore(root)
		if err := store.Update(func(cfg *projectconf.Config) error {
			cfg.SetFunctionName(name)
			return nil
		}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Bound %s to function %s\n", root, name)
		return nil
	},
}
