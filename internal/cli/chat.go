package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"docchat/internal/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question session",
	Long: `Ask questions interactively. Each exchange is kept in a session
transcript for the lifetime of the process. Type "exit" or press
Ctrl-D to leave.

Examples:
  docchat chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	if err := svc.engine.HealthCheck(); err != nil {
		if errors.Is(err, domain.ErrIndexUnavailable) {
			return fmt.Errorf("no documents indexed yet; run 'docchat upload' first")
		}
		return err
	}

	fmt.Printf("Chatting over %d indexed chunks. Type \"exit\" to leave.\n\n", svc.engine.DocumentCount())

	var sessionID string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		sess, answer, err := svc.chat.Ask(sessionID, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		sessionID = sess.ID

		fmt.Printf("\n%s\n", answer.Text)
		printSources(answer.Sources)
		fmt.Println()
	}
}
