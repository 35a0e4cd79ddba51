package attrctrl

import (
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// GenreControl pins a piece's genre string. It is appended once per
// track, before INSTRUMENT (TRACK_PRE_INSTRUMENT level), so every
// track carries the same piece-wide genre as conditioning context —
// matching SPEC_FULL.md §7's registry ordering.
type GenreControl struct {
	genres []string
	value  string
}

// NewGenre builds the GENRE control over the given closed set of
// genre names (supplementing original_source's project-specific GENRE
// enum, per SPEC_FULL.md §6).
func NewGenre(genres []string) *GenreControl { return &GenreControl{genres: genres} }

func (c *GenreControl) Name() string                     { return "Genre" }
func (c *GenreControl) Level() Level                     { return TrackPreInstrumentLevel }
func (c *GenreControl) Applicability() TrackApplicability { return InstrumentAndDrum }
func (c *GenreControl) TokenTypes() []vocab.TokenType    { return []vocab.TokenType{vocab.Genre} }

func (c *GenreControl) Compute(p *score.Piece, _ int, _ int) {
	c.value = p.Genre
	if c.value == "" && len(c.genres) > 0 {
		c.value = c.genres[0]
	}
}

// Values is not meaningful for a string-domain control; callers must
// use ValueString, AppendToken and SetMaskString instead of the generic
// AppendTokens/SetMask helpers for GenreControl.
func (c *GenreControl) Values() []int  { return []int{0} }
func (c *GenreControl) Override(v []int) {}

// ValueString returns the pinned genre string.
func (c *GenreControl) ValueString() string { return c.value }

// OverrideString pins an explicit genre value.
func (c *GenreControl) OverrideString(v string) { c.value = v }

func (c *GenreControl) Evaluate(p *score.Piece, _ int, _ int) int {
	if p.Genre == c.value {
		return 0
	}
	return 1
}

// AppendToken encodes the pinned genre as a token id.
func (c *GenreControl) AppendToken(rep *vocab.Representation) (int, error) {
	return rep.EncodeString(vocab.Genre, c.value)
}

// SetMaskString unmasks exactly the pinned genre value.
func (c *GenreControl) SetMaskString(rep *vocab.Representation, mask []int) error {
	return rep.SetMaskString(vocab.Genre, []string{c.value}, mask, 1)
}
