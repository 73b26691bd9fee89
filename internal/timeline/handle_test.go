package timeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedGenerator_Sequential(t *testing.T) {
	g := NewFixedGenerator("tl")
	assert.Equal(t, Handle("tl-1"), g.Generate())
	assert.Equal(t, Handle("tl-2"), g.Generate())
	assert.Equal(t, Handle("tl-3"), g.Generate())
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	g := UUIDv7Generator{}

	a := g.Generate()
	b := g.Generate()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(string(a))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
