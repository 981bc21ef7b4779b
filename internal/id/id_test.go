package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("imp")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "imp-"))
	assert.Len(t, got, len("imp-")+21)

	other, err := Generate("imp")
	require.NoError(t, err)
	assert.NotEqual(t, got, other)
}

func TestRecordKey_Deterministic(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	key := RecordKey("Dune Messiah", created)
	assert.Equal(t, key, RecordKey("Dune Messiah", created))
	assert.True(t, strings.HasPrefix(key, "rec-dune-messiah-"))
}

func TestRecordKey_EmptyTitle(t *testing.T) {
	created := time.Unix(1700000000, 0)
	assert.Equal(t, "rec-untitled-1700000000000", RecordKey("!!!", created))
}
