package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Equal(t, ":memory:", store.Path())
}

func TestNewConfigStoreFrom_CopiesValues(t *testing.T) {
	seed := map[string]any{"llm.provider": "openai"}
	store := NewConfigStoreFrom(seed)

	seed["llm.provider"] = "anthropic"

	assert.Equal(t, "openai", store.GetString("llm.provider"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"s":     "value",
		"i":     7,
		"i64":   int64(8),
		"f64":   float64(9),
		"b":     true,
		"slice": []any{"a", 1, "b"},
	})

	assert.Equal(t, "value", store.GetString("s"))
	assert.Equal(t, 7, store.GetInt("i"))
	assert.Equal(t, 8, store.GetInt("i64"))
	assert.Equal(t, 9, store.GetInt("f64"))
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice"))
}

func TestConfigStore_WrongTypesAndMissingKeys(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{"s": "value", "i": 1})

	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.False(t, store.GetBool("s"))
	assert.Nil(t, store.GetStringSlice("s"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_SaveAndLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key.%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key.%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key.%d", i)))
	}
}
