package vocab

import (
	"testing"

	"github.com/schollz/miditok/internal/tokendomain"
	"github.com/stretchr/testify/require"
)

func buildTestRepresentation(t *testing.T) *Representation {
	t.Helper()
	opt := DefaultVocabOptions()
	specs := DefaultTokenTypeSpecs(opt)
	return New(specs)
}

func TestVocabularyIsBijective(t *testing.T) {
	r := buildTestRepresentation(t)
	seen := make(map[int]bool)
	for id := 0; id < r.VocabSize(); id++ {
		require.False(t, seen[id], "id %d decoded twice", id)
		seen[id] = true
		dec, err := r.Decode(id)
		require.NoError(t, err)
		// re-encoding the decoded value must land back on id
		var got int
		switch dec.Kind {
		case tokendomain.StringKind:
			got, err = r.EncodeString(dec.Type, dec.StringValue)
		case tokendomain.TimeSigKind:
			got, err = r.EncodeTimeSig(dec.Type, dec.TimeSigValue)
		default:
			got, err = r.Encode(dec.Type, dec.IntValue)
		}
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
	require.Len(t, seen, r.VocabSize())
}

func TestEncodeOutOfDomain(t *testing.T) {
	r := buildTestRepresentation(t)
	_, err := r.Encode(NoteOnset, 999)
	require.Error(t, err)
}

func TestSetMaskWildcardUnmasksWholeDomain(t *testing.T) {
	r := buildTestRepresentation(t)
	mask := r.GetMask(0)
	require.NoError(t, r.SetMask(NoteOnset, []int{-1}, mask, 1))
	size, err := r.GetDomainSize(NoteOnset)
	require.NoError(t, err)
	sum := 0
	for _, v := range mask {
		sum += v
	}
	require.Equal(t, size, sum)
}

func TestGetTypeMask(t *testing.T) {
	r := buildTestRepresentation(t)
	mask := r.GetTypeMask([]TokenType{Bar})
	total := 0
	for _, v := range mask {
		total += v
	}
	require.Equal(t, 1, total)
}

func TestRepeatDomainResolvesToTarget(t *testing.T) {
	specs := []TokenTypeSpec{
		{NoteOnset, tokendomain.NewRangeDomain(128)},
		{DeltaDirection, tokendomain.NewRepeatDomain(128, "NOTE_ONSET")},
	}
	r := New(specs)
	id1, err := r.Encode(NoteOnset, 60)
	require.NoError(t, err)
	id2, err := r.Encode(DeltaDirection, 60)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
	require.Equal(t, 128, r.VocabSize())
}
