package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the catalog",
	Long: `Indexes the catalog and starts an interactive question loop.

Each question retrieves the most similar catalog passages, prints a preview
of that context and then the model's answer. Type "sair", "exit" or "quit",
or press Ctrl-D, to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	session, settings, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer session.close()

	repl := NewREPL(session.Ask, settings.Retrieval.K, settings.Retrieval.PreviewChars)
	repl.SetEcho(!isTerminal(cmd.InOrStdin()))
	return repl.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
