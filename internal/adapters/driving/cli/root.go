package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Session is an indexed catalog ready to answer questions.
type Session struct {
	Ask     driving.AskService
	Catalog mcp.Catalog
	Report  *driving.IngestReport
	Close   func()
}

// StartFunc loads and indexes the catalog described by settings.
// withLLM is false for commands that only retrieve.
type StartFunc func(ctx context.Context, settings domain.AppSettings, withLLM bool) (*Session, error)

// PreviewFunc loads and splits the catalog without embedding it.
type PreviewFunc func(ctx context.Context, settings domain.AppSettings) (*domain.Document, []domain.Chunk, error)

// Dependencies are the services the commands run against.
type Dependencies struct {
	Settings driving.SettingsService
	Start    StartFunc
	Preview  PreviewFunc
}

// GlobalOptions are the persistent flags needed to build Dependencies.
type GlobalOptions struct {
	ConfigPath string
	NoConfig   bool
}

// SetupFunc builds the dependencies once flags are parsed.
type SetupFunc func(opts GlobalOptions) (Dependencies, error)

var (
	settingsService driving.SettingsService
	startSession    StartFunc
	previewCatalog  PreviewFunc
	setupFunc       SetupFunc
)

// Persistent flag values.
var (
	verbose    bool
	configPath string
	noConfig   bool
	pdfPath    string
	topK       int
	envFile    string
)

const defaultEnvFile = ".env"

var rootCmd = &cobra.Command{
	Use:   "catalogo",
	Short: "Ask questions about a PDF product catalog",
	Long: `catalogo indexes a PDF product catalog in memory and answers questions
about it with a language model, using only the catalog text as context.

Run without a subcommand to start an interactive chat. Type "sair", "exit"
or "quit" to leave.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runChat,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	flags.StringVar(&configPath, "config", "", "config file (default ~/.catalogo/config.toml)")
	flags.BoolVar(&noConfig, "no-config", false, "ignore the config file and keep settings in memory")
	flags.StringVar(&pdfPath, "pdf", "", "catalog file to index")
	flags.IntVar(&topK, "k", 0, "chunks retrieved per question (default from config)")
	flags.StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file with API keys")
}

// Configure sets the services used by the commands.
func Configure(deps Dependencies) {
	settingsService = deps.Settings
	startSession = deps.Start
	previewCatalog = deps.Preview
}

// SetSetup registers a function that builds dependencies after flag parsing.
// It is skipped when Configure already provided a settings service.
func SetSetup(fn SetupFunc) {
	setupFunc = fn
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetColor(term.IsTerminal(int(os.Stderr.Fd())))

	if err := loadEnvFile(cmd); err != nil {
		return err
	}

	if settingsService != nil || setupFunc == nil {
		return nil
	}
	deps, err := setupFunc(GlobalOptions{ConfigPath: configPath, NoConfig: noConfig})
	if err != nil {
		return err
	}
	Configure(deps)
	return nil
}

// loadEnvFile seeds the environment from the dotenv file. Real environment
// variables win. A missing default file is not an error.
func loadEnvFile(cmd *cobra.Command) error {
	if envFile == "" {
		return nil
	}
	err := godotenv.Load(envFile)
	if err == nil {
		logger.Debug("Loaded environment from %s", envFile)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		return nil
	}
	return fmt.Errorf("load %s: %w", envFile, err)
}

// effectiveSettings merges the stored settings with command-line overrides.
func effectiveSettings() (domain.AppSettings, error) {
	if settingsService == nil {
		return domain.AppSettings{}, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if pdfPath != "" {
		settings.Document.Path = pdfPath
	}
	if topK < 0 {
		return domain.AppSettings{}, fmt.Errorf("%w: --k must be positive", domain.ErrInvalidInput)
	}
	if topK > 0 {
		settings.Retrieval.K = topK
	}
	return *settings, nil
}

// openSession validates credentials and indexes the catalog.
// Credentials are checked before the catalog is read.
func openSession(cmd *cobra.Command, withLLM bool) (*Session, domain.AppSettings, error) {
	settings, err := effectiveSettings()
	if err != nil {
		return nil, settings, err
	}
	if err := checkCredentials(settings, withLLM); err != nil {
		return nil, settings, err
	}
	if startSession == nil {
		return nil, settings, errors.New("catalog runtime not configured")
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Carregando %s...\n", settings.Document.Path)
	session, err := startSession(cmd.Context(), settings, withLLM)
	if err != nil {
		return nil, settings, err
	}
	if session.Report != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d trechos indexados.\n", session.Report.Chunks)
	}
	return session, settings, nil
}

// checkCredentials runs full validation when the model is needed. Retrieval
// alone only needs a usable embedding provider.
func checkCredentials(settings domain.AppSettings, withLLM bool) error {
	if withLLM {
		return settingsService.Validate()
	}
	embedding := settings.Embedding
	if embedding.Provider.RequiresAPIKey() && embedding.APIKey == "" {
		return fmt.Errorf("%w: %s is not set for the %s embedding provider",
			domain.ErrMissingCredential, embedding.Provider.APIKeyEnv(), embedding.Provider)
	}
	return nil
}

func (s *Session) close() {
	if s != nil && s.Close != nil {
		s.Close()
	}
}
