package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

var (
	askJSON        bool
	askShowContext bool
	askNoAnswer    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question about the catalog",
	Long: `Indexes the catalog, answers one question and exits.

Use --no-answer to only list the retrieved passages without calling the
language model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer and sources as JSON")
	askCmd.Flags().BoolVar(&askShowContext, "context", false, "print the retrieved context before the answer")
	askCmd.Flags().BoolVar(&askNoAnswer, "no-answer", false, "retrieve passages only")
	rootCmd.AddCommand(askCmd)
}

type askSource struct {
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

type askOutput struct {
	Question string      `json:"question"`
	Answer   string      `json:"answer,omitempty"`
	Sources  []askSource `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	session, settings, err := openSession(cmd, !askNoAnswer)
	if err != nil {
		return err
	}
	defer session.close()

	ctx := cmd.Context()
	result, err := session.Ask.Retrieve(ctx, question, settings.Retrieval.K)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	var answer domain.Answer
	if !askNoAnswer {
		answer, err = session.Ask.Answer(ctx, question, result)
		if err != nil {
			return fmt.Errorf("answer failed: %w", err)
		}
	}

	if askJSON {
		return outputAskJSON(cmd, question, answer.Text, result)
	}

	if askNoAnswer {
		outputSources(cmd, result)
		return nil
	}
	if askShowContext {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n%s\n", ContextHeader, result.Preview(settings.Retrieval.PreviewChars), ContextFooter)
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
	return nil
}

func outputAskJSON(cmd *cobra.Command, question, answer string, result domain.QueryResult) error {
	out := askOutput{Question: question, Answer: answer, Sources: make([]askSource, 0, len(result.Chunks))}
	for _, c := range result.Chunks {
		out.Sources = append(out.Sources, askSource{ChunkID: c.Chunk.ID, Score: c.Score, Content: c.Chunk.Content})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputSources(cmd *cobra.Command, result domain.QueryResult) {
	if len(result.Chunks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No passages found.")
		return
	}
	for i, c := range result.Chunks {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. [%.3f] %s\n", i+1, c.Score, firstLine(c.Chunk.Content, 80))
	}
}

// firstLine returns the first non-empty line of s, cut to max runes.
func firstLine(s string, maxRunes int) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxRunes {
			return string(r[:maxRunes-3]) + "..."
		}
		return line
	}
	return ""
}
