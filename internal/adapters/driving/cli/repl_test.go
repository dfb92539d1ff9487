package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

func catalogResult(contents ...string) domain.QueryResult {
	result := domain.QueryResult{}
	for i, c := range contents {
		result.Chunks = append(result.Chunks, domain.ScoredChunk{
			Chunk: domain.Chunk{ID: string(rune('a' + i)), Content: c},
			Score: 1 - float64(i)/10,
		})
	}
	return result
}

func runREPL(t *testing.T, ask *mockAskService, input string, previewChars int) string {
	t.Helper()
	out := new(bytes.Buffer)
	repl := NewREPL(ask, 10, previewChars)
	require.NoError(t, repl.Run(context.Background(), strings.NewReader(input), out))
	return out.String()
}

func TestREPL_ExitKeywordMakesNoRetrieval(t *testing.T) {
	for _, kw := range []string{"sair", "EXIT", " quit "} {
		t.Run(kw, func(t *testing.T) {
			ask := &mockAskService{answerText: "nunca"}

			out := runREPL(t, ask, kw+"\nQual o preço?\n", 1000)

			assert.Equal(t, 0, ask.retrieveCalls())
			assert.Empty(t, ask.answered)
			assert.Equal(t, PromptPrefix, out)
		})
	}
}

func TestREPL_AnswersQuestion(t *testing.T) {
	ask := &mockAskService{
		result:     catalogResult("Forever Aloe Vera Gel® bebida", "Forever Bee Honey® mel"),
		answerText: "O gel é uma bebida.",
	}

	out := runREPL(t, ask, "O que é o Aloe Vera Gel?\nsair\n", 1000)

	assert.Equal(t, []string{"O que é o Aloe Vera Gel?"}, ask.retrieved)
	assert.Equal(t, 10, ask.lastK)
	assert.Equal(t,
		"Você: "+
			"🔍 Contexto enviado ao modelo:\n"+
			"Forever Aloe Vera Gel® bebida\nForever Bee Honey® mel\n"+
			"---\n"+
			"Bot: O gel é uma bebida.\n"+
			"Você: ",
		out)
}

func TestREPL_PreviewIsTruncated(t *testing.T) {
	long := strings.Repeat("á", 1500)
	ask := &mockAskService{result: catalogResult(long), answerText: "ok"}

	out := runREPL(t, ask, "pergunta\n", 1000)

	assert.Contains(t, out, "\n"+strings.Repeat("á", 1000)+"\n---\n")
	assert.NotContains(t, out, strings.Repeat("á", 1001))
}

func TestREPL_EmptyContextStillAnswers(t *testing.T) {
	ask := &mockAskService{answerText: "Não encontrei no catálogo."}

	out := runREPL(t, ask, "pergunta\n", 1000)

	assert.Contains(t, out, "🔍 Contexto enviado ao modelo:\n\n---\n")
	assert.Contains(t, out, "Bot: Não encontrei no catálogo.\n")
}

func TestREPL_BlankLinesIgnored(t *testing.T) {
	ask := &mockAskService{answerText: "ok"}

	out := runREPL(t, ask, "\n   \n\t\npergunta\n", 1000)

	assert.Equal(t, 1, ask.retrieveCalls())
	assert.Equal(t, 5, strings.Count(out, PromptPrefix))
}

func TestREPL_QuestionIsTrimmed(t *testing.T) {
	ask := &mockAskService{answerText: "ok"}

	runREPL(t, ask, "   preço do mel  \n", 1000)

	assert.Equal(t, []string{"preço do mel"}, ask.retrieved)
}

func TestREPL_EOFTerminates(t *testing.T) {
	ask := &mockAskService{answerText: "ok"}

	out := runREPL(t, ask, "primeira\nsegunda", 1000)

	assert.Equal(t, []string{"primeira", "segunda"}, ask.retrieved)
	assert.True(t, strings.HasSuffix(out, PromptPrefix+"\n"))
}

func TestREPL_EmptyInput(t *testing.T) {
	ask := &mockAskService{}

	out := runREPL(t, ask, "", 1000)

	assert.Equal(t, PromptPrefix+"\n", out)
	assert.Equal(t, 0, ask.retrieveCalls())
}

func TestREPL_RetrieveErrorContinues(t *testing.T) {
	ask := &mockAskService{retrieveErr: domain.ErrEmbeddingUnavailable}

	out := runREPL(t, ask, "um\ndois\n", 1000)

	assert.Equal(t, 2, ask.retrieveCalls())
	assert.Empty(t, ask.answered)
	assert.Equal(t, 2, strings.Count(out, "Erro: embedding service unavailable\n"))
	assert.NotContains(t, out, ContextHeader)
}

func TestREPL_AnswerErrorContinues(t *testing.T) {
	ask := &mockAskService{
		result:    catalogResult("Forever Bee Honey®"),
		answerErr: domain.ErrEmptyAnswer,
	}

	out := runREPL(t, ask, "um\ndois\nsair\n", 1000)

	assert.Equal(t, []string{"um", "dois"}, ask.answered)
	assert.Equal(t, 2, strings.Count(out, ContextFooter+"\nErro: model returned no text\n"))
	assert.NotContains(t, out, AnswerPrefix)
}

func TestREPL_Echo(t *testing.T) {
	ask := &mockAskService{answerText: "ok"}
	out := new(bytes.Buffer)
	repl := NewREPL(ask, 3, 1000)
	repl.SetEcho(true)

	require.NoError(t, repl.Run(context.Background(), strings.NewReader("pergunta\nsair\n"), out))

	assert.True(t, strings.HasPrefix(out.String(), "Você: pergunta\n"))
	assert.Equal(t, 3, ask.lastK)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestREPL_ReadError(t *testing.T) {
	ask := &mockAskService{}

	err := NewREPL(ask, 10, 1000).Run(context.Background(), errReader{}, io.Discard)

	assert.EqualError(t, err, "broken pipe")
}

func TestREPL_CancelStopsBlockedRead(t *testing.T) {
	ask := &mockAskService{}
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewREPL(ask, 10, 1000).Run(ctx, pr, io.Discard)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("REPL did not stop after cancel")
	}
}
