package midiio

import (
	"testing"

	"github.com/schollz/miditok/internal/score"
	"github.com/stretchr/testify/require"
)

func TestBarLengthTicks(t *testing.T) {
	require.Equal(t, 1920, barLengthTicks(score.TimeSignature{Numerator: 4, Denominator: 4}, 480))
	require.Equal(t, 1440, barLengthTicks(score.TimeSignature{Numerator: 3, Denominator: 4}, 480))
	require.Equal(t, 1920, barLengthTicks(score.TimeSignature{Numerator: 0, Denominator: 0}, 480))
}
