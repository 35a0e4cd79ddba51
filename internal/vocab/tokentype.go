// Package vocab builds the Representation: the forward/backward id
// maps over every TokenType's TokenDomain, ported from
// common/encoder/representation.h.
package vocab

// TokenType enumerates every kind of token the encoder/decoder,
// grammar graph and attribute controls operate on. Order matches
// their natural appearance in an encoded stream and is otherwise
// arbitrary; ids are assigned by Representation at construction time,
// not by this ordinal.
type TokenType int

const (
	PieceStart TokenType = iota
	NumBars
	Bar
	BarEnd
	TimeSignature
	Track
	TrackEnd
	Instrument
	NoteOnset
	NoteDuration
	TimeAbsolutePos
	FillInPlaceholder
	FillInStart
	FillInEnd
	Delta
	DeltaDirection
	VelocityLevel
	MinNoteDuration
	MaxNoteDuration
	MinPolyphony
	MaxPolyphony
	DensityLevel

	// Attribute-control token types (SPEC_FULL.md §5); each backs
	// exactly one concrete attrctrl.Control.
	TrackOnsetPolyphonyMin
	TrackOnsetPolyphonyMax
	TrackOnsetDensityMin
	TrackOnsetDensityMax
	HasNoteDurationClass0
	HasNoteDurationClass1
	HasNoteDurationClass2
	HasNoteDurationClass3
	HasNoteDurationClass4
	HasNoteDurationClass5
	PitchRangeMin
	PitchRangeMax
	Genre
	BarOnsetPolyphonyMin
	BarOnsetPolyphonyMax
	BarOnsetDensity

	numTokenTypes
)

var tokenTypeNames = map[TokenType]string{
	PieceStart:             "PIECE_START",
	NumBars:                "NUM_BARS",
	Bar:                    "BAR",
	BarEnd:                 "BAR_END",
	TimeSignature:          "TIME_SIGNATURE",
	Track:                  "TRACK",
	TrackEnd:               "TRACK_END",
	Instrument:             "INSTRUMENT",
	NoteOnset:              "NOTE_ONSET",
	NoteDuration:           "NOTE_DURATION",
	TimeAbsolutePos:        "TIME_ABSOLUTE_POS",
	FillInPlaceholder:      "FILL_IN_PLACEHOLDER",
	FillInStart:            "FILL_IN_START",
	FillInEnd:              "FILL_IN_END",
	Delta:                  "DELTA",
	DeltaDirection:         "DELTA_DIRECTION",
	VelocityLevel:          "VELOCITY_LEVEL",
	MinNoteDuration:        "MIN_NOTE_DURATION",
	MaxNoteDuration:        "MAX_NOTE_DURATION",
	MinPolyphony:           "MIN_POLYPHONY",
	MaxPolyphony:           "MAX_POLYPHONY",
	DensityLevel:           "DENSITY_LEVEL",
	TrackOnsetPolyphonyMin: "TRACK_ONSET_POLYPHONY_MIN",
	TrackOnsetPolyphonyMax: "TRACK_ONSET_POLYPHONY_MAX",
	TrackOnsetDensityMin:   "TRACK_ONSET_DENSITY_MIN",
	TrackOnsetDensityMax:   "TRACK_ONSET_DENSITY_MAX",
	HasNoteDurationClass0:  "HAS_NOTE_DURATION_CLASS_0",
	HasNoteDurationClass1:  "HAS_NOTE_DURATION_CLASS_1",
	HasNoteDurationClass2:  "HAS_NOTE_DURATION_CLASS_2",
	HasNoteDurationClass3:  "HAS_NOTE_DURATION_CLASS_3",
	HasNoteDurationClass4:  "HAS_NOTE_DURATION_CLASS_4",
	HasNoteDurationClass5:  "HAS_NOTE_DURATION_CLASS_5",
	PitchRangeMin:          "PITCH_RANGE_MIN",
	PitchRangeMax:          "PITCH_RANGE_MAX",
	Genre:                  "GENRE",
	BarOnsetPolyphonyMin:   "BAR_ONSET_POLYPHONY_MIN",
	BarOnsetPolyphonyMax:   "BAR_ONSET_POLYPHONY_MAX",
	BarOnsetDensity:        "BAR_ONSET_DENSITY",
}

func (t TokenType) String() string {
	if s, ok := tokenTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN_TOKEN_TYPE"
}
