package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"docchat/internal/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and corpus status",
	Long: `Report the state of the corpus directory, the vector index and the
generation credential.

Examples:
  docchat status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	files, err := svc.scanner.Scan(svc.uploadsDir)
	if err != nil {
		return fmt.Errorf("failed to scan corpus directory: %w", err)
	}

	fmt.Printf("Corpus: %s\n", svc.uploadsDir)
	if len(files) == 0 {
		fmt.Println("  (no documents)")
	}
	for _, f := range files {
		fmt.Printf("  %-40s %8d bytes  %-8s  %s\n", f.Name, f.Size, f.Format, f.ModTime.Format("2006-01-02 15:04"))
	}

	fmt.Printf("\nIndex:\n")
	stats, err := svc.engine.Stats()
	switch {
	case errors.Is(err, domain.ErrIndexUnavailable):
		fmt.Println("  not built yet")
	case err != nil:
		return err
	default:
		fmt.Printf("  Chunks:    %d\n", stats.TotalChunks)
		fmt.Printf("  Dimension: %d\n", stats.Dimension)
		fmt.Printf("  Version:   %d\n", stats.Version)
	}

	fmt.Printf("\nHealth: ")
	if healthErr := svc.engine.HealthCheck(); healthErr != nil {
		fmt.Printf("degraded (%v)\n", healthErr)
	} else {
		fmt.Println("ok")
	}
	return nil
}
