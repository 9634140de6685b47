package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"docchat/config"
	"docchat/internal/domain"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <file>",
	Short: "Remove a document from the corpus and the index",
	Long: `Delete a document from the corpus directory and rebuild the index
from the remaining documents. If the corpus becomes empty the index
artifact is removed entirely.

Examples:
  docchat delete report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	name := filepath.Base(args[0])
	path := filepath.Join(svc.uploadsDir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("document not found in corpus: %s", name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	fmt.Printf("Deleted %s, rebuilding index...\n", name)

	result, err := svc.ingest.ProcessAll(nil)
	if errors.Is(err, domain.ErrEmptyDocument) {
		// Last document gone; drop the index artifact too.
		indexPath := config.IndexFilePath(svc.indexDir)
		if rmErr := os.Remove(indexPath); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("failed to remove index artifact: %w", rmErr)
		}
		fmt.Println("Corpus is empty; index removed.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Printf("\nRebuild complete:\n")
	fmt.Printf("  Files loaded:   %d\n", result.FilesLoaded)
	fmt.Printf("  Chunks indexed: %d\n", result.ChunksIndexed)
	return nil
}
