package cli

import (
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the index from the corpus directory",
	Long: `Scan the corpus directory and rebuild the vector index from scratch.
Documents removed from the directory disappear from the index; this is
the command to run after deleting files by hand.

Examples:
  docchat reindex`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	fmt.Printf("Scanning %s...\n", svc.uploadsDir)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	progressCallback := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Loading[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	result, err := svc.ingest.ProcessAll(progressCallback)
	if err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	fmt.Printf("\nReindexing complete:\n")
	fmt.Printf("  Files loaded:   %d\n", result.FilesLoaded)
	fmt.Printf("  Files skipped:  %d\n", result.FilesSkipped)
	fmt.Printf("  Chunks indexed: %d\n", result.ChunksIndexed)

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	return nil
}
