package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"docchat/config"
	"docchat/internal/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Ingest a document into the index",
	Long: `Copy a document into the corpus directory and index it.
Existing indexed documents are preserved; the new document is merged in.

Supported formats: .pdf, .txt, .docx, .md

Examples:
  docchat upload report.pdf
  docchat upload notes/meeting.md`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	srcPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", srcPath)
	}

	if domain.FormatFromPath(srcPath) == domain.FormatUnknown {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(srcPath))
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	destPath := filepath.Join(svc.uploadsDir, filepath.Base(srcPath))
	if destPath != srcPath {
		if err := copyFile(srcPath, destPath); err != nil {
			return fmt.Errorf("failed to copy into corpus: %w", err)
		}
	}

	fmt.Printf("Indexing %s...\n", filepath.Base(srcPath))
	if err := svc.ingest.ProcessSingle(destPath); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	stats, err := svc.engine.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("\nUpload complete:\n")
	fmt.Printf("  Document:     %s\n", filepath.Base(srcPath))
	fmt.Printf("  Total chunks: %d\n", stats.TotalChunks)
	fmt.Printf("  Index stored at: %s\n", config.IndexFilePath(svc.indexDir))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
