package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ NumberID = (*Snowflake)(nil)
	_ StringID = (*UUID)(nil)
)

func TestSnowflake(t *testing.T) {
	_, err := NewSnowflake(4096)
	assert.Error(t, err)

	gen, err := NewSnowflake(1)
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	prev := int64(0)
	for range 1000 {
		id := gen.Generate()
		assert.Greater(t, id, prev)
		seen[id] = struct{}{}
		prev = id
	}
	assert.Len(t, seen, 1000)
}

func TestUUID(t *testing.T) {
	id := NewUUID().Generate()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
