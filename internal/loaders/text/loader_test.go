package text

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

func write(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogo.txt")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, []byte("Capa\n\nForever Bee Honey®\nMel\fForever Arctic Sea®\n"))

	frags, err := New().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, frags, 3)
	assert.Equal(t, "Capa", frags[0].Text)
	assert.Equal(t, "Forever Bee Honey®\nMel", frags[1].Text)
	assert.Equal(t, 2, frags[2].Page)
	assert.Equal(t, "Capa\nForever Bee Honey®\nMel\nForever Arctic Sea®", domain.JoinFragments(frags))
}

func TestLoad_Errors(t *testing.T) {
	l := New()
	ctx := context.Background()

	_, err := l.Load(ctx, filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.Load(ctx, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.Load(ctx, write(t, []byte{0xff, 0xfe, 0x00}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
