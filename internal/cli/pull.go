package cli

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/lamlight-dev/lamlight/internal/archive"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pullDest string
	pullKeep bool
)

func init() {
	pullCmd.Flags().StringVar(&pullDest, "dest", "", "Extraction directory (default: current directory)")
	pullCmd.Flags().BoolVar(&pullKeep, "keep", false, "Keep the downloaded archive")
	rootCmd.AddCommand(pullCmd)
}

var pullCmd = &cobra.Command{
	Use:   "pull <url>",
	Short: "Download a code package and extract it",
	Long: `Download a zipped code package (for example a presigned function code URL)
into a fresh temporary directory and extract every entry, overwriting existing files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher := archive.NewFetcher(
			archive.WithFs(osFs),
			archive.WithHTTPClient(&http.Client{Timeout: settings.HTTPTimeout}),
			archive.WithTempRoot(settings.TempRoot),
			archive.WithFileName(settings.ArchiveName),
			archive.WithUserAgent(settings.UserAgent+"/"+buildVersion),
			archive.WithProgress(cmd.ErrOrStderr()),
		)

		zipPath, err := fetcher.Download(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !pullKeep {
			defer func() {
				if err := osFs.RemoveAll(filepath.Dir(zipPath)); err != nil {
					logger.Warn("could not remove download directory", zap.String("dir", filepath.Dir(zipPath)), zap.Error(err))
				}
			}()
		}

		files, err := archive.Extract(osFs, zipPath, pullDest)
		if err != nil {
			return err
		}

		dest := pullDest
		if dest == "" {
			dest = "."
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d files into %s\n", len(files), dest)
		if pullKeep {
			fmt.Fprintf(cmd.OutOrStdout(), "Archive kept at %s\n", zipPath)
		}
		return nil
	},
}
