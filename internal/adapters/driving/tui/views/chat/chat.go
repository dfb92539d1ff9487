// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
)

// Transcript prefixes, shared with the line-oriented chat.
const (
	AnswerPrefix  = "Bot: "
	ErrorPrefix   = "Erro: "
	ContextHeader = "🔍 Contexto enviado ao modelo:"
	ContextFooter = "---"
)

// Kind identifies a transcript entry.
type Kind int

const (
	KindQuestion Kind = iota
	KindContext
	KindAnswer
	KindError
)

// Entry is one line group in the transcript.
type Entry struct {
	Kind Kind
	Text string
}

// Options tune retrieval for the view.
type Options struct {
	// K is the number of chunks retrieved per question. Zero uses the
	// service default.
	K int

	// PreviewChars limits the context preview shown for each turn.
	PreviewChars int

	// Title is rendered above the transcript.
	Title string
}

// View is the chat screen: a scrolling transcript above a question input.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	viewport  viewport.Model
	spinner   spinner.Model
	statusbar *status.Bar

	ask  driving.AskService
	ctx  context.Context
	opts Options

	entries     []Entry
	showContext bool
	busy        bool
	turns       int
	err         error

	width  int
	height int
	ready  bool
}

// NewView creates a chat view over ask.
func NewView(s *styles.Styles, km *keymap.KeyMap, ask driving.AskService, opts Options) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if opts.Title == "" {
		opts.Title = "Catálogo"
	}

	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewQuestionInput(s),
		viewport:    viewport.New(80, 16),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		statusbar:   status.NewBar(s, km),
		ask:         ask,
		ctx:         context.Background(),
		opts:        opts,
		showContext: true,
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for retrieval and generation.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.TurnCompleted:
		v.handleTurnCompleted(msg)
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Quit):
		return v, quit
	case keymap.Matches(key, v.keymap.ToggleContext):
		v.showContext = !v.showContext
		v.refresh()
		return v, nil
	case keymap.Matches(key, v.keymap.ScrollUp):
		v.viewport.HalfPageUp()
		return v, nil
	case keymap.Matches(key, v.keymap.ScrollDown):
		v.viewport.HalfPageDown()
		return v, nil
	case keymap.Matches(key, v.keymap.Send):
		return v.submit()
	}

	if v.busy {
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed question. Turns never overlap: enter is ignored
// while an answer is pending.
func (v *View) submit() (*View, tea.Cmd) {
	if v.busy {
		return v, nil
	}
	question := strings.TrimSpace(v.input.Value())
	v.input.Reset()
	if question == "" {
		return v, nil
	}
	if domain.IsExitKeyword(question) {
		return v, quit
	}

	v.entries = append(v.entries, Entry{Kind: KindQuestion, Text: question})
	v.busy = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")
	v.refresh()

	return v, tea.Batch(v.spinner.Tick, v.askCmd(question))
}

func (v *View) askCmd(question string) tea.Cmd {
	ask, ctx, opts := v.ask, v.ctx, v.opts
	return func() tea.Msg {
		if ask == nil {
			return messages.TurnCompleted{Question: question, Err: ErrNoAskService}
		}
		result, err := ask.Retrieve(ctx, question, opts.K)
		if err != nil {
			return messages.TurnCompleted{Question: question, Err: err}
		}
		answer, err := ask.Answer(ctx, question, result)
		return messages.TurnCompleted{
			Question:  question,
			Result:    result,
			Retrieved: true,
			Answer:    answer,
			Err:       err,
		}
	}
}

func (v *View) handleTurnCompleted(msg messages.TurnCompleted) {
	v.busy = false
	v.turns++
	v.statusbar.SetTurns(v.turns)

	if msg.Retrieved {
		v.entries = append(v.entries, Entry{Kind: KindContext, Text: msg.Result.Preview(v.opts.PreviewChars)})
	}
	if msg.Err != nil {
		v.err = msg.Err
		v.entries = append(v.entries, Entry{Kind: KindError, Text: msg.Err.Error()})
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.entries = append(v.entries, Entry{Kind: KindAnswer, Text: msg.Answer.Text})
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
	v.refresh()
}

func quit() tea.Msg {
	return messages.Quit{}
}

// refresh re-renders the transcript and keeps the latest turn in view.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(v.width-2, 10))
	blocks := make([]string, 0, len(v.entries))

	for _, e := range v.entries {
		switch e.Kind {
		case KindQuestion:
			blocks = append(blocks, wrap.Render(v.styles.User.Render(input.Label)+e.Text))
		case KindContext:
			if !v.showContext {
				continue
			}
			body := ContextHeader + "\n" + e.Text + "\n" + ContextFooter
			blocks = append(blocks, v.styles.Context.Width(max(v.width-4, 10)).Render(body))
		case KindAnswer:
			blocks = append(blocks, wrap.Render(v.styles.Bot.Render(AnswerPrefix)+e.Text))
		case KindError:
			blocks = append(blocks, wrap.Render(v.styles.Error.Render(ErrorPrefix+e.Text)))
		}
	}
	return strings.Join(blocks, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 6)
	sections = append(sections, v.styles.Title.Render(v.opts.Title), v.viewport.View())

	if v.busy {
		sections = append(sections, v.styles.Muted.Render(v.spinner.View()+" pensando..."))
	} else {
		sections = append(sections, "")
	}

	sections = append(sections, v.input.View(), v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Title, spinner line, bordered input and status bar.
	v.viewport.Width = width
	v.viewport.Height = max(height-7, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Entries returns the transcript.
func (v *View) Entries() []Entry {
	return v.entries
}

// Busy reports whether an answer is pending.
func (v *View) Busy() bool {
	return v.busy
}

// Turns returns how many questions completed.
func (v *View) Turns() int {
	return v.turns
}

// ShowContext reports whether context previews are displayed.
func (v *View) ShowContext() bool {
	return v.showContext
}

// Err returns the error of the last turn, if any.
func (v *View) Err() error {
	return v.err
}

// Input returns the question typed so far.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput replaces the question typed so far.
func (v *View) SetInput(s string) {
	v.input.SetValue(s)
}
