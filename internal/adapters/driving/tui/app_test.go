package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{Ask: &MockAskService{AnswerText: "É um gel de babosa."}}, Options{K: 5, PreviewChars: 100})
	require.NoError(t, err)
	return app
}

func TestNewApp_Success(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Chat())
	assert.Equal(t, defaultTitle, app.opts.Title)
	assert.False(t, app.Ready())
}

func TestNewApp_MissingAsk(t *testing.T) {
	app, err := NewApp(&Ports{}, Options{})

	assert.ErrorIs(t, err, ErrMissingAskService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	assert.NotNil(t, newTestApp(t).Init())
}

func TestApp_ViewBeforeReady(t *testing.T) {
	assert.Equal(t, "Initialising...", newTestApp(t).View())
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 90, Height: 30})

	assert.Nil(t, cmd)
	assert.Equal(t, app, model)
	assert.True(t, app.Ready())
	assert.Equal(t, 90, app.Chat().Width())
	assert.Contains(t, app.View(), defaultTitle)
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ForwardsTurnToChat(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)

	app.Update(messages.TurnCompleted{Question: "o que é?", Answer: domain.Answer{Text: "É um gel."}})

	entries := app.Chat().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, chat.Entry{Kind: chat.KindAnswer, Text: "É um gel."}, entries[0])
}

func TestApp_ExitKeywordQuits(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)
	app.Chat().SetInput("sair")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.Quit{}, msg)

	_, cmd = app.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
