package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

var (
	segmentsFull bool
	segmentsJSON bool
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Show how the catalog is split into chunks",
	Long: `Loads the catalog, splits it into product records and chunks, and prints
the result without calling any embedding or language model. Useful to tune
the heading pattern and chunk sizes.`,
	Args: cobra.NoArgs,
	RunE: runSegments,
}

func init() {
	segmentsCmd.Flags().BoolVar(&segmentsFull, "full", false, "print the full text of every chunk")
	segmentsCmd.Flags().BoolVar(&segmentsJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(segmentsCmd)
}

type segmentOutput struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Record   int    `json:"record"`
	Runes    int    `json:"runes"`
	Content  string `json:"content"`
}

func runSegments(cmd *cobra.Command, _ []string) error {
	settings, err := effectiveSettings()
	if err != nil {
		return err
	}
	if previewCatalog == nil {
		return errors.New("catalog preview not configured")
	}

	doc, chunks, err := previewCatalog(cmd.Context(), settings)
	if err != nil {
		return err
	}

	if segmentsJSON {
		return outputSegmentsJSON(cmd, chunks)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Document: %s (%d pages, %d chars)\n", doc.Title, doc.Pages, utf8.RuneCountInString(doc.Content))
	fmt.Fprintf(out, "Chunks:   %d\n\n", len(chunks))
	for _, c := range chunks {
		runes := utf8.RuneCountInString(c.Content)
		if segmentsFull {
			fmt.Fprintf(out, "[%d] record %d, %d chars\n%s\n%s\n", c.Position+1, c.RecordIndex+1, runes, c.Content, ContextFooter)
			continue
		}
		fmt.Fprintf(out, "[%d] r%-3d %5d  %s\n", c.Position+1, c.RecordIndex+1, runes, firstLine(c.Content, 70))
	}
	return nil
}

func outputSegmentsJSON(cmd *cobra.Command, chunks []domain.Chunk) error {
	out := make([]segmentOutput, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, segmentOutput{
			ID:       c.ID,
			Position: c.Position,
			Record:   c.RecordIndex,
			Runes:    utf8.RuneCountInString(c.Content),
			Content:  c.Content,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
