package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskflow/kioskflow/pkg/adapters/memory"
	"github.com/kioskflow/kioskflow/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}

func TestMemorySource(t *testing.T) {
	src, err := memory.NewSourceFromJSON(map[string]string{
		"tiny": `{"start":"a","nodes":{"a":{"type":"end"}}}`,
	})
	require.NoError(t, err)

	ctx := context.Background()
	def, err := src.Flow(ctx, "tiny")
	require.NoError(t, err)
	assert.Equal(t, "a", def.Start)

	ids, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tiny"}, ids)

	_, err = src.Flow(ctx, "missing")
	assert.Error(t, err)
}
