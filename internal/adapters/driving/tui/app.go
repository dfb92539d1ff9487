package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/views/chat"
)

const defaultTitle = "catalogo"

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	opts  Options
	ctx   context.Context

	styles   *styles.Styles
	chatView *chat.View

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if opts.Title == "" {
		opts.Title = defaultTitle
	}

	s := styles.DefaultStyles()
	chatView := chat.NewView(s, nil, ports.Ask, chat.Options{
		K:            opts.K,
		PreviewChars: opts.PreviewChars,
		Title:        opts.Title,
	})

	return &App{
		ports:    ports,
		opts:     opts,
		ctx:      context.Background(),
		styles:   s,
		chatView: chatView,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(a.opts.Title),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.chatView.View()
}

// Run starts the TUI application and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Chat returns the chat view.
func (a *App) Chat() *chat.View {
	return a.chatView
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
}
