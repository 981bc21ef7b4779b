package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingInput_CommitOnRelease(t *testing.T) {
	var in RatingInput

	in.Begin(1)
	assert.True(t, in.Dragging())

	in.Move(3.2)
	assert.Equal(t, 3.0, in.Preview())

	in.Move(4.3)
	got, err := in.Release()
	require.NoError(t, err)
	assert.Equal(t, 4.5, got)
	assert.False(t, in.Dragging())
}

func TestRatingInput_MoveIgnoredWhenIdle(t *testing.T) {
	var in RatingInput
	in.Move(3)
	assert.Zero(t, in.Preview())
}

func TestRatingInput_ReleaseWithoutDrag(t *testing.T) {
	var in RatingInput
	_, err := in.Release()
	assert.Error(t, err)
}

func TestRatingInput_Cancel(t *testing.T) {
	var in RatingInput
	in.Begin(4)
	in.Cancel()
	assert.False(t, in.Dragging())
	assert.Zero(t, in.Preview())
}

func TestSnapRating_Bounds(t *testing.T) {
	var in RatingInput
	in.Begin(-2)
	assert.Equal(t, 0.0, in.Preview())
	in.Move(9)
	assert.Equal(t, 5.0, in.Preview())
}
