package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"docchat/internal/domain"
)

var queryQuestion string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask a one-off question about the indexed documents",
	Long: `Retrieve the most relevant passages for a question and generate an
answer grounded on them. Sources are listed below the answer.

Examples:
  docchat query -q "what were the Q3 results?"
  docchat query what were the Q3 results`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryQuestion, "question", "q", "", "question to answer")
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := queryQuestion
	if question == "" {
		question = strings.Join(args, " ")
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	answer, err := svc.engine.Query(question)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	printSources(answer.Sources)
	return nil
}

func printSources(sources []domain.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Printf("\nSources:\n")
	for i, src := range sources {
		location := filepath.Base(src.File)
		if src.Page > 0 {
			location = fmt.Sprintf("%s, page %d", location, src.Page)
		}
		fmt.Printf("  [%d] %s\n      %s\n", i+1, location, src.Preview)
	}
}
