package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
)

// mockAskService records calls and returns canned results.
type mockAskService struct {
	mu          sync.Mutex
	retrieved   []string
	answered    []string
	lastK       int
	result      domain.QueryResult
	answerText  string
	retrieveErr error
	answerErr   error
}

func (m *mockAskService) Retrieve(_ context.Context, question string, k int) (domain.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrieved = append(m.retrieved, question)
	m.lastK = k
	if m.retrieveErr != nil {
		return domain.QueryResult{Query: question}, m.retrieveErr
	}
	result := m.result
	result.Query = question
	return result, nil
}

func (m *mockAskService) Answer(_ context.Context, question string, result domain.QueryResult) (domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, question)
	answer := domain.Answer{Question: question, Sources: result}
	if m.answerErr != nil {
		return answer, m.answerErr
	}
	answer.Text = m.answerText
	return answer, nil
}

func (m *mockAskService) retrieveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.retrieved)
}

// mockSettingsService is an in-memory SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	getErr      error
	validateErr error
	saved       *domain.AppSettings

	embedProvider domain.AIProvider
	embedModel    string
	embedKey      string
	llmProvider   domain.AIProvider
	llmModel      string
	llmKey        string
	pingEmbedErr  error
	pingLLMErr    error
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.embedProvider, m.embedModel, m.embedKey = provider, model, apiKey
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llmProvider, m.llmModel, m.llmKey = provider, model, apiKey
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) GetPipelineConfig() domain.PipelineConfig {
	return domain.PipelineConfigFor(m.settings)
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingEmbedErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.pingLLMErr }

// withDependencies installs deps for one test and resets flags afterwards.
func withDependencies(t interface{ Cleanup(func()) }, deps Dependencies) {
	prevSettings, prevStart, prevPreview, prevSetup := settingsService, startSession, previewCatalog, setupFunc
	Configure(deps)
	setupFunc = nil
	t.Cleanup(func() {
		settingsService, startSession, previewCatalog, setupFunc = prevSettings, prevStart, prevPreview, prevSetup
		pdfPath, topK, verbose, configPath, noConfig = "", 0, false, "", false
		envFile = defaultEnvFile
		askJSON, askShowContext, askNoAnswer = false, false, false
		segmentsFull, segmentsJSON = false, false
		mcpPort = 0
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	})
}

// execute runs the root command with args and returns stdout and stderr.
func execute(args []string, stdin string) (stdout, stderr string, err error) {
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// sessionWith returns a StartFunc serving ask and recording its inputs.
func sessionWith(ask driving.AskService, chunks int) (StartFunc, *startRecord) {
	rec := &startRecord{}
	return func(_ context.Context, settings domain.AppSettings, withLLM bool) (*Session, error) {
		rec.calls++
		rec.settings = settings
		rec.withLLM = withLLM
		return &Session{
			Ask:    ask,
			Report: &driving.IngestReport{Chunks: chunks},
			Close:  func() { rec.closed = true },
		}, nil
	}, rec
}

type startRecord struct {
	calls    int
	settings domain.AppSettings
	withLLM  bool
	closed   bool
}
