package sample

import (
	"testing"

	"github.com/schollz/miditok/internal/grammar"
	"github.com/schollz/miditok/internal/vocab"
	"github.com/stretchr/testify/require"
)

func buildControl(t *testing.T) (*Control, *vocab.Representation) {
	t.Helper()
	specs := vocab.DefaultTokenTypeSpecs(vocab.DefaultVocabOptions())
	rep := vocab.New(specs)
	rg := grammar.NewRepresentationGraph(rep, grammar.TrackModel, nil)
	c := New(rep, rg, Config{
		Mode:               grammar.TrackModel,
		Resolution:         12,
		PolyphonyHardLimit: 4,
		NumDeltaTokens:     96,
		MicrotimingEnabled: true,
	})
	return c, rep
}

func TestInitialMaskAllowsPieceStartSuccessors(t *testing.T) {
	c, _ := buildControl(t)
	mask, err := c.GetMask()
	require.NoError(t, err)
	total := 0
	for _, v := range mask {
		total += v
	}
	require.Greater(t, total, 0)
}

func TestUpdateTracksBarCount(t *testing.T) {
	c, rep := buildControl(t)
	barEndID, err := rep.Encode(vocab.BarEnd, 0)
	require.NoError(t, err)
	require.NoError(t, c.Update(barEndID))
	require.Equal(t, 1, c.BarCount())
}

func TestUpdateTracksTrackCount(t *testing.T) {
	c, rep := buildControl(t)
	trackEndID, err := rep.Encode(vocab.TrackEnd, 0)
	require.NoError(t, err)
	require.NoError(t, c.Update(trackEndID))
	require.Equal(t, 1, c.TrackCount())
}

// TestS4PolyphonyCapZeroesOnsetAndVelocity is scenario S4: a hard
// limit of 2 with two pitches already sounding must zero every
// NOTE_ONSET and every VELOCITY_LEVEL in the mask.
func TestS4PolyphonyCapZeroesOnsetAndVelocity(t *testing.T) {
	c, rep := buildControl(t)
	c.polyphonyHardLimit = 2

	onset60, err := rep.Encode(vocab.NoteOnset, 60)
	require.NoError(t, err)
	require.NoError(t, c.Update(onset60))
	dur60, err := rep.Encode(vocab.NoteDuration, 5)
	require.NoError(t, err)
	require.NoError(t, c.Update(dur60))

	onset64, err := rep.Encode(vocab.NoteOnset, 64)
	require.NoError(t, err)
	require.NoError(t, c.Update(onset64))
	dur64, err := rep.Encode(vocab.NoteDuration, 5)
	require.NoError(t, err)
	require.NoError(t, c.Update(dur64))

	require.Equal(t, 2, c.polyphonyCount())

	mask, err := c.GetMask()
	require.NoError(t, err)

	onsetSize, err := rep.GetDomainSize(vocab.NoteOnset)
	require.NoError(t, err)
	onsetOff, err := rep.Encode(vocab.NoteOnset, 0)
	require.NoError(t, err)
	for i := onsetOff; i < onsetOff+onsetSize; i++ {
		require.Equal(t, 0, mask[i], "NOTE_ONSET id %d should be zeroed under the polyphony cap", i)
	}

	velSize, err := rep.GetDomainSize(vocab.VelocityLevel)
	require.NoError(t, err)
	velOff, err := rep.Encode(vocab.VelocityLevel, 0)
	require.NoError(t, err)
	for i := velOff; i < velOff+velSize; i++ {
		require.Equal(t, 0, mask[i], "VELOCITY_LEVEL id %d should be zeroed under the polyphony cap", i)
	}
}

// TestS5MicrotimingDisabledZeroesEveryDelta is half of scenario S5:
// with microtiming off, every DELTA id is zero regardless of state.
func TestS5MicrotimingDisabledZeroesEveryDelta(t *testing.T) {
	c, rep := buildControl(t)
	c.microtimingEnabled = false

	mask := rep.GetMask(1)
	c.setMicrotimingMask(mask)

	size, err := rep.GetDomainSize(vocab.Delta)
	require.NoError(t, err)
	off, err := rep.Encode(vocab.Delta, 0)
	require.NoError(t, err)
	for i := off; i < off+size; i++ {
		require.Equal(t, 0, mask[i])
	}
}

// TestS5MicrotimingRejectsTwoConsecutiveDeltas is the other half of
// scenario S5: with microtiming on, a DELTA can't directly follow
// another DELTA.
func TestS5MicrotimingRejectsTwoConsecutiveDeltas(t *testing.T) {
	c, _ := buildControl(t)
	c.microtimingEnabled = true
	c.barlength = 48
	c.lastTokenType = vocab.Delta

	mask := c.rep.GetMask(1)
	c.setMicrotimingMask(mask)

	size, err := c.rep.GetDomainSize(vocab.Delta)
	require.NoError(t, err)
	off, err := c.rep.Encode(vocab.Delta, 0)
	require.NoError(t, err)
	for i := off; i < off+size; i++ {
		require.Equal(t, 0, mask[i], "a second consecutive DELTA must be rejected")
	}
}

// TestBarContainmentZeroesOnsetAtBarEnd checks testable property 6's
// first half: once timestep reaches barlength, NOTE_ONSET is zeroed.
func TestBarContainmentZeroesOnsetAtBarEnd(t *testing.T) {
	c, rep := buildControl(t)
	c.barlength = 48
	c.timestep = 48
	c.lastTokenType = vocab.NoteDuration

	mask, err := c.GetMask()
	require.NoError(t, err)

	onsetSize, err := rep.GetDomainSize(vocab.NoteOnset)
	require.NoError(t, err)
	onsetOff, err := rep.Encode(vocab.NoteOnset, 0)
	require.NoError(t, err)
	for i := onsetOff; i < onsetOff+onsetSize; i++ {
		require.Equal(t, 0, mask[i])
	}
}

// TestBarContainmentZeroesTimeAbsolutePosOutOfRange checks testable
// property 6's second half: TIME_ABSOLUTE_POS(t) is only legal for
// timestep < t <= barlength.
func TestBarContainmentZeroesTimeAbsolutePosOutOfRange(t *testing.T) {
	c, rep := buildControl(t)
	c.barlength = 24
	c.timestep = 12
	c.lastTokenType = vocab.NoteDuration

	mask, err := c.GetMask()
	require.NoError(t, err)

	size, err := rep.GetDomainSize(vocab.TimeAbsolutePos)
	require.NoError(t, err)
	for t := 0; t < size; t++ {
		id, err := rep.Encode(vocab.TimeAbsolutePos, t)
		require.NoError(t, err)
		legal := t > 12 && t <= 24
		if legal {
			require.Equal(t, 1, mask[id], "t=%d should be legal", t)
		} else {
			require.Equal(t, 0, mask[id], "t=%d should be zeroed", t)
		}
	}
}

// TestTrackModeFinishesAtNumTracks covers §4.6 step 6's TRACK-mode
// finishing rule.
func TestTrackModeFinishesAtNumTracks(t *testing.T) {
	c, rep := buildControl(t)
	c.numTracks = 1

	trackEndID, err := rep.Encode(vocab.TrackEnd, 0)
	require.NoError(t, err)
	require.NoError(t, c.Update(trackEndID))
	require.False(t, c.Finished())

	_, err = c.GetMask()
	require.NoError(t, err)
	require.True(t, c.Finished())
}

// TestBarInfillModeFinishesAtNumInfillBars covers §4.6 step 6's
// BAR_INFILL-mode finishing rule.
func TestBarInfillModeFinishesAtNumInfillBars(t *testing.T) {
	specs := vocab.DefaultTokenTypeSpecs(vocab.DefaultVocabOptions())
	rep := vocab.New(specs)
	rg := grammar.NewRepresentationGraph(rep, grammar.BarInfillModel, nil)
	c := New(rep, rg, Config{Mode: grammar.BarInfillModel, Resolution: 12, NumInfillBars: 1})

	c.lastTokenType = vocab.FillInEnd
	c.infillBarCount = 1
	_, err := c.GetMask()
	require.NoError(t, err)
	require.True(t, c.Finished())
}

func TestPolyphonyHardLimitZeroesNoteOnset(t *testing.T) {
	c, rep := buildControl(t)
	c.polyphonyHardLimit = 1
	onsetID, err := rep.Encode(vocab.NoteOnset, 60)
	require.NoError(t, err)
	require.NoError(t, c.Update(onsetID))
	require.Equal(t, 1, c.polyphonyCount())

	mask, err := c.GetMask()
	require.NoError(t, err)
	size, err := rep.GetDomainSize(vocab.NoteOnset)
	require.NoError(t, err)
	off, err := rep.Encode(vocab.NoteOnset, 0)
	require.NoError(t, err)
	for i := off; i < off+size; i++ {
		require.Equal(t, 0, mask[i])
	}
}
