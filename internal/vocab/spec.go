package vocab

import "github.com/schollz/miditok/internal/tokendomain"

// TokenTypeSpec binds one TokenType to the TokenDomain backing its
// values, the unit Representation.New consumes.
type TokenTypeSpec struct {
	Type   TokenType
	Domain tokendomain.Domain
}

// DefaultTimeSignatures is the 19-entry default TIME_SIGNATURE domain
// (common simple and compound meters), matching the count spec.md §6
// calls for.
func DefaultTimeSignatures() []tokendomain.TimeSig {
	return []tokendomain.TimeSig{
		{Num: 1, Den: 4}, {Num: 2, Den: 4}, {Num: 3, Den: 4}, {Num: 4, Den: 4},
		{Num: 5, Den: 4}, {Num: 6, Den: 4}, {Num: 7, Den: 4},
		{Num: 2, Den: 2}, {Num: 3, Den: 2},
		{Num: 3, Den: 8}, {Num: 5, Den: 8}, {Num: 6, Den: 8}, {Num: 7, Den: 8},
		{Num: 9, Den: 8}, {Num: 12, Den: 8},
		{Num: 2, Den: 8}, {Num: 4, Den: 8}, {Num: 11, Den: 8}, {Num: 15, Den: 8},
	}
}

// DefaultGenres supplements spec.md's distillation, which leaves the
// GENRE value list unspecified; original_source's GENRE enum is
// project-specific, so this placeholder list stands in for it.
func DefaultGenres() []string {
	return []string{
		"rock", "pop", "jazz", "classical", "electronic", "hiphop",
		"country", "metal", "blues", "folk", "reggae", "other",
	}
}

// VocabOptions configures the handful of domain sizes the encoder
// config can tune, matching encoder_config.h's resolution/
// decode_resolution-driven token counts.
type VocabOptions struct {
	NumTimeTokens  int // TIME_ABSOLUTE_POS domain size, default 192
	NumDeltaTokens int // DELTA domain size, default 96
	NumBarsValues  []int // NUM_BARS explicit value list, default {4,8}
	TimeSignatures []tokendomain.TimeSig
	Genres         []string
}

// DefaultVocabOptions mirrors the encoder_config.h defaults.
func DefaultVocabOptions() VocabOptions {
	return VocabOptions{
		NumTimeTokens:  192,
		NumDeltaTokens: 96,
		NumBarsValues:  []int{4, 8},
		TimeSignatures: DefaultTimeSignatures(),
		Genres:         DefaultGenres(),
	}
}

// DefaultTokenTypeSpecs builds the full literal vocabulary table from
// spec.md §6: every base token type plus one per attribute control.
func DefaultTokenTypeSpecs(opt VocabOptions) []TokenTypeSpec {
	return []TokenTypeSpec{
		{PieceStart, tokendomain.NewRangeDomain(2)},
		{NumBars, tokendomain.NewIntValuesDomain(opt.NumBarsValues)},
		{Bar, tokendomain.NewRangeDomain(1)},
		{BarEnd, tokendomain.NewRangeDomain(1)},
		{TimeSignature, tokendomain.NewTimeSigValuesDomain(opt.TimeSignatures)},
		{Track, tokendomain.NewRangeDomain(4)},
		{TrackEnd, tokendomain.NewRangeDomain(1)},
		{Instrument, tokendomain.NewRangeDomain(128)},
		{NoteOnset, tokendomain.NewRangeDomain(128)},
		{NoteDuration, tokendomain.NewRangeDomain(96)},
		{TimeAbsolutePos, tokendomain.NewRangeDomain(opt.NumTimeTokens)},
		{FillInPlaceholder, tokendomain.NewRangeDomain(1)},
		{FillInStart, tokendomain.NewRangeDomain(1)},
		{FillInEnd, tokendomain.NewRangeDomain(1)},
		{Delta, tokendomain.NewRangeDomain(opt.NumDeltaTokens)},
		{DeltaDirection, tokendomain.NewRangeDomain(1)},
		{VelocityLevel, tokendomain.NewRangeDomain(128)},
		{MinNoteDuration, tokendomain.NewRangeDomain(6)},
		{MaxNoteDuration, tokendomain.NewRangeDomain(6)},
		{MinPolyphony, tokendomain.NewRangeDomain(10)},
		{MaxPolyphony, tokendomain.NewRangeDomain(10)},
		{DensityLevel, tokendomain.NewRangeDomain(10)},

		{TrackOnsetPolyphonyMin, tokendomain.NewRangeDomain(6)},
		{TrackOnsetPolyphonyMax, tokendomain.NewRangeDomain(6)},
		{TrackOnsetDensityMin, tokendomain.NewRangeDomain(18)},
		{TrackOnsetDensityMax, tokendomain.NewRangeDomain(18)},
		{HasNoteDurationClass0, tokendomain.NewRangeDomain(2)},
		{HasNoteDurationClass1, tokendomain.NewRangeDomain(2)},
		{HasNoteDurationClass2, tokendomain.NewRangeDomain(2)},
		{HasNoteDurationClass3, tokendomain.NewRangeDomain(2)},
		{HasNoteDurationClass4, tokendomain.NewRangeDomain(2)},
		{HasNoteDurationClass5, tokendomain.NewRangeDomain(2)},
		{PitchRangeMin, tokendomain.NewRangeDomain(128)},
		{PitchRangeMax, tokendomain.NewRangeDomain(128)},
		{Genre, tokendomain.NewStringValuesDomain(opt.Genres)},
		{BarOnsetPolyphonyMin, tokendomain.NewRangeDomain(6)},
		{BarOnsetPolyphonyMax, tokendomain.NewRangeDomain(6)},
		{BarOnsetDensity, tokendomain.NewRangeDomain(18)},
	}
}
