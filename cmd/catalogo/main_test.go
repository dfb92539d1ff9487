package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/cli"
)

// writeCatalog stores one long product record as a text catalog plus a
// config file pointing at it.
func writeCatalog(t *testing.T, extraConfig string) string {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "catalogo.txt")
	record := "Forever Aloe Vera Gel® " + strings.Repeat("palavra palavra palavra|", 10)
	require.NoError(t, os.WriteFile(catalogPath, []byte(record), 0o600))

	configPath := filepath.Join(dir, "config.toml")
	config := fmt.Sprintf(`[document]
path = %q
loader = "text"

[chunker]
size = 60
overlap = 10
%s`, catalogPath, extraConfig)
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))
	return configPath
}

func previewChunks(t *testing.T, configPath string) []string {
	t.Helper()
	deps, err := setup(cli.GlobalOptions{ConfigPath: configPath})
	require.NoError(t, err)

	settings, err := deps.Settings.Get()
	require.NoError(t, err)

	_, chunks, err := deps.Preview(context.Background(), *settings)
	require.NoError(t, err)

	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}

func TestSetup_PreviewUsesConfiguredSeparators(t *testing.T) {
	chunks := previewChunks(t, writeCatalog(t, `separators = ["|"]`))

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.True(t, strings.HasSuffix(c, "|"), "chunk %q should end at a configured separator", c)
	}
}

func TestSetup_PreviewDefaultSeparators(t *testing.T) {
	chunks := previewChunks(t, "")

	require.Greater(t, len(chunks), 1)
	assert.False(t, strings.HasSuffix(chunks[0], "|"), "default separators prefer spaces over '|'")
}

func TestSetup_PreviewUsesStageOverrides(t *testing.T) {
	// A minimum longer than the record drops it.
	chunks := previewChunks(t, "\n[pipeline.segmenter]\nmin_length = 10000\n")

	assert.Empty(t, chunks)
}

func TestSetup_NoConfigUsesDefaults(t *testing.T) {
	deps, err := setup(cli.GlobalOptions{NoConfig: true})
	require.NoError(t, err)

	settings, err := deps.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 2000, settings.Chunker.Size)
	assert.NotNil(t, deps.Start)
	assert.NotNil(t, deps.Preview)
}
