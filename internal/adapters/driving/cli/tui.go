package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch a full-screen chat over the catalog.

Each answer is shown below the catalog passages that were sent to the model.

Controls:
  Enter    - Send question
  Ctrl+O   - Show or hide the context passages
  PgUp/Dn  - Scroll the conversation
  Esc      - Quit (or type "sair")`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	session, settings, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer session.close()

	app, err := tui.NewApp(&tui.Ports{Ask: session.Ask}, tui.Options{
		K:            settings.Retrieval.K,
		PreviewChars: settings.Retrieval.PreviewChars,
		Title:        "catalogo: " + filepath.Base(settings.Document.Path),
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
