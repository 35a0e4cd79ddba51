// Package sample ports SAMPLE_CONTROL from inference/sampling/control.h:
// per-sequence state the sampler loop uses to decide which token is
// legal next, track bar/track position, and enforce the polyphony hard
// limit while a piece is generated token by token.
package sample

import (
	"sort"

	"github.com/schollz/miditok/internal/grammar"
	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/score"
	"github.com/schollz/miditok/internal/vocab"
)

// Config bundles every Control construction parameter that isn't the
// representation/graph pair themselves, ported from the constructor
// arguments SAMPLE_CONTROL takes (piece/status/hyperparam/model
// metadata boiled down to the scalars set_mask actually consults).
// Zero for NumBars/NumTracks/NumInfillBars means "ungated": the
// corresponding finishing/gating rule in GetMask is skipped, matching
// callers (like the CLI's raw token-stream continuation tool) that
// have no Status to derive these from.
type Config struct {
	Mode               grammar.ModelType
	Resolution         int
	PolyphonyHardLimit int
	NumDeltaTokens     int
	NumTracks          int
	NumBars            int
	NumInfillBars      int
	MicrotimingEnabled bool
}

// Control is one generation sequence's live state.
type Control struct {
	rep   *vocab.Representation
	graph *grammar.RepresentationGraph
	mode  grammar.ModelType

	resolution         int
	numTracks          int
	numBars            int
	numInfillBars      int
	microtimingEnabled bool

	// position tracking
	barCount         int
	trackCount       int
	infillBarCount   int
	timestep         int
	absoluteTimestep int
	barStartTimestep int
	barlength        int
	lastTokenType    vocab.TokenType
	currentTrackType score.TrackType
	finished         bool

	// pendingOnsetPitch is the most recently opened onset's pitch,
	// awaiting its NOTE_DURATION to resolve an expiry tick; -1 when
	// nothing is pending.
	pendingOnsetPitch int

	// polyphony tracking: onsets currently sounding (by pitch) and,
	// the absolute tick each expires at.
	onsets     map[int]bool
	noteExpiry map[int]int // pitch -> expiry absolute tick

	polyphonyHardLimit int
	numDeltaTokens     int

	history []int

	// fixedTypes holds the token types ParseStatus records as pinned;
	// no mask is narrowed from it. nil means ParseStatus was not
	// called.
	fixedTypes map[vocab.TokenType]bool
}

// New builds a fresh Control for one generation sequence, ported from
// SAMPLE_CONTROL's constructor.
func New(rep *vocab.Representation, graph *grammar.RepresentationGraph, cfg Config) *Control {
	return &Control{
		rep:                rep,
		graph:              graph,
		mode:               cfg.Mode,
		resolution:         cfg.Resolution,
		numTracks:          cfg.NumTracks,
		numBars:            cfg.NumBars,
		numInfillBars:      cfg.NumInfillBars,
		microtimingEnabled: cfg.MicrotimingEnabled,
		pendingOnsetPitch:  -1,
		onsets:             map[int]bool{},
		noteExpiry:         map[int]int{},
		polyphonyHardLimit: cfg.PolyphonyHardLimit,
		numDeltaTokens:     cfg.NumDeltaTokens,
	}
}

// Finished reports whether this sequence has reached its natural end:
// TRACK mode at track_count >= num_tracks, BAR_INFILL mode at
// infill_bar_count >= num_infill_bars. Set as a side effect of GetMask,
// mirroring set_mask's own finished assignment.
func (c *Control) Finished() bool { return c.finished }

// History returns every token id appended via Update so far.
func (c *Control) History() []int { return c.history }

// BarCount and TrackCount report the 0-based position Update has
// advanced to.
func (c *Control) BarCount() int   { return c.barCount }
func (c *Control) TrackCount() int { return c.trackCount }

// Update consumes one decoded token, advancing bar/track bookkeeping
// and polyphony tracking. Ported from SAMPLE_CONTROL::update.
func (c *Control) Update(tokenID int) error {
	dec, err := c.rep.Decode(tokenID)
	if err != nil {
		return err
	}
	c.history = append(c.history, tokenID)
	return c.apply(dec)
}

// apply runs the actual state transition for one decoded token,
// without touching history; used both by Update and by the
// FILL_IN_START backfill replay, which re-derives state from tokens
// already recorded in history.
func (c *Control) apply(dec vocab.DecodedToken) error {
	switch dec.Type {
	case vocab.Track:
		c.barCount = 0
		c.onsets = map[int]bool{}
		c.noteExpiry = map[int]int{}
		c.currentTrackType = score.TrackType(dec.IntValue)
	case vocab.TrackEnd:
		c.trackCount++
	case vocab.Bar:
		c.timestep = 0
		c.barlength = 4 * c.resolution
		c.absoluteTimestep = c.barStartTimestep
	case vocab.BarEnd:
		c.barCount++
		c.barStartTimestep = c.absoluteTimestep
	case vocab.TimeSignature:
		den := dec.TimeSigValue.Den
		if den == 0 {
			den = 1
		}
		c.barlength = dec.TimeSigValue.Num * 4 * c.resolution / den
	case vocab.TimeAbsolutePos:
		c.timestep = dec.IntValue
		c.absoluteTimestep = c.barStartTimestep + dec.IntValue
	case vocab.NoteOnset:
		c.onsets[dec.IntValue] = true
		if c.currentTrackType.IsDrum() {
			// drum tracks never emit NOTE_DURATION; synthesize the
			// implied duration-0 expiry directly.
			c.noteExpiry[dec.IntValue] = c.absoluteTimestep + 1
		} else {
			c.pendingOnsetPitch = dec.IntValue
		}
	case vocab.NoteDuration:
		if c.pendingOnsetPitch != -1 {
			c.noteExpiry[c.pendingOnsetPitch] = c.absoluteTimestep + dec.IntValue + 1
			c.pendingOnsetPitch = -1
		}
	case vocab.FillInStart:
		c.backfillReplay()
	case vocab.FillInEnd:
		c.infillBarCount++
	}
	c.expireNotesBefore(c.absoluteTimestep)
	c.lastTokenType = dec.Type
	return nil
}

// backfillReplay re-derives running state for the bars between the
// infill_bar_count-th and (infill_bar_count+1)-th FILL_IN_PLACEHOLDER
// already recorded in history, ported from control.h's FILL_IN_START
// back-fill: the prompt for BAR_INFILL mode truncates at the first
// FILL_IN_START, so by the time generation reaches later infill bars,
// the surrounding context needs to be replayed back in.
func (c *Control) backfillReplay() {
	var placeholders []int
	for i, tok := range c.history {
		dt, err := c.rep.Decode(tok)
		if err == nil && dt.Type == vocab.FillInPlaceholder {
			placeholders = append(placeholders, i)
		}
	}
	if c.infillBarCount >= len(placeholders) {
		return
	}
	start := placeholders[c.infillBarCount]
	end := len(c.history) - 1 // exclude the FILL_IN_START token just appended
	if c.infillBarCount+1 < len(placeholders) {
		end = placeholders[c.infillBarCount+1]
	}
	for i := start + 1; i < end; i++ {
		dt, err := c.rep.Decode(c.history[i])
		if err != nil {
			continue
		}
		_ = c.apply(dt)
	}
}

// expireNotesBefore drops onsets whose note has ended by absolute tick
// t, enforcing the polyphony hard limit as new onsets arrive.
func (c *Control) expireNotesBefore(t int) {
	for p, expiry := range c.noteExpiry {
		if expiry <= t {
			delete(c.onsets, p)
			delete(c.noteExpiry, p)
		}
	}
}

// polyphonyCount is how many notes are currently sounding.
func (c *Control) polyphonyCount() int { return len(c.onsets) }

// GetMask builds the full legality mask for the next token, ported
// from SAMPLE_CONTROL::set_mask/get_mask.
func (c *Control) GetMask() ([]int, error) {
	mask := c.rep.GetMask(0)
	if err := c.graph.SetMask(c.lastTokenType, mask); err != nil {
		return mask, err
	}

	// drum NOTE_ONSET -> NOTE_DURATION skip: the next token is always
	// the synthesized NOTE_DURATION(0), never a real duration choice.
	if c.currentTrackType.IsDrum() && c.lastTokenType == vocab.NoteOnset {
		zeroOut(c.rep, mask, vocab.NoteDuration)
		if id, err := c.rep.Encode(vocab.NoteDuration, 0); err == nil {
			mask[id] = 1
		}
	}

	// a pitch already sounding can't be re-onset.
	for pitch := range c.onsets {
		if id, err := c.rep.Encode(vocab.NoteOnset, pitch); err == nil {
			mask[id] = 0
		}
	}

	if c.barlength > 0 && c.timestep == c.barlength {
		zeroOut(c.rep, mask, vocab.NoteOnset)
		zeroOut(c.rep, mask, vocab.VelocityLevel)
	}

	if c.polyphonyHardLimit > 0 && c.polyphonyCount() >= c.polyphonyHardLimit {
		zeroOut(c.rep, mask, vocab.NoteOnset)
		zeroOut(c.rep, mask, vocab.VelocityLevel)
	}

	c.setMicrotimingMask(mask)

	if size, err := c.rep.GetDomainSize(vocab.TimeAbsolutePos); err == nil {
		for t := 0; t < size; t++ {
			if t <= c.timestep || (c.barlength > 0 && t > c.barlength) {
				if id, err := c.rep.Encode(vocab.TimeAbsolutePos, t); err == nil {
					mask[id] = 0
				}
			}
		}
	}

	if c.fixedTypes != nil {
		c.restrictToFixed(mask)
	}

	switch c.mode {
	case grammar.TrackModel:
		if c.numBars > 0 {
			if c.barCount < c.numBars {
				zeroOut(c.rep, mask, vocab.TrackEnd)
			} else {
				zeroOut(c.rep, mask, vocab.Bar)
			}
		}
		if c.numTracks > 0 && c.trackCount >= c.numTracks {
			c.finished = true
		}
	case grammar.BarInfillModel:
		if c.numInfillBars > 0 && c.infillBarCount >= c.numInfillBars {
			c.finished = true
		}
	}

	if sum(mask) == 0 && !c.finished {
		return mask, midierr.Wrap(midierr.ErrNoLegalToken, "no legal token at timestep %d", c.timestep)
	}
	return mask, nil
}

// setMicrotimingMask applies control.h's DELTA/DELTA_DIRECTION rules:
// disabled entirely zeroes DELTA; enabled allows at most one
// consecutive DELTA, only offers the backward direction at the bar's
// last slot, and clamps DELTA's magnitude so it can't carry the
// current timestep below 0 or past barlength.
func (c *Control) setMicrotimingMask(mask []int) {
	if !c.microtimingEnabled {
		zeroOut(c.rep, mask, vocab.Delta)
		return
	}
	if c.lastTokenType == vocab.Delta {
		zeroOut(c.rep, mask, vocab.Delta)
	}
	if c.barlength == 0 || c.timestep != c.barlength {
		zeroOut(c.rep, mask, vocab.DeltaDirection)
	}

	backward := c.lastTokenType == vocab.DeltaDirection
	size, err := c.rep.GetDomainSize(vocab.Delta)
	if err != nil {
		return
	}
	for v := 0; v < size; v++ {
		var outOfBounds bool
		if backward {
			outOfBounds = c.timestep-v < 0
		} else {
			outOfBounds = c.barlength > 0 && c.timestep+v > c.barlength
		}
		if outOfBounds {
			if id, err := c.rep.Encode(vocab.Delta, v); err == nil {
				mask[id] = 0
			}
		}
	}
}

func zeroOut(rep *vocab.Representation, mask []int, tt vocab.TokenType) {
	size, err := rep.GetDomainSize(tt)
	if err != nil {
		return
	}
	for v := 0; v < size; v++ {
		id, err := rep.Encode(tt, v)
		if err == nil {
			mask[id] = 0
		}
	}
}

func sum(mask []int) int {
	total := 0
	for _, v := range mask {
		total += v
	}
	return total
}

// restrictToFixed leaves mask unchanged: ParseStatus records which
// token types are pinned but narrows no mask, so there is nothing to
// restrict here. Named after parse_status's "fixed" set handling.
func (c *Control) restrictToFixed(mask []int) {
	_ = mask
}

// ParseStatus records NUM_BARS, TRACK, GENRE, INSTRUMENT,
// TIME_SIGNATURE, DENSITY_LEVEL, MIN/MAX_POLYPHONY and
// MIN/MAX_NOTE_DURATION as pinned token types, after control.h's
// parse_status. It does not read the status it is given, narrows no
// mask, and records no track-attribute-control type. Callers apply
// the actual per-control masks via attrctrl.SetMask before sampling.
func (c *Control) ParseStatus(_ score.Status) {
	c.fixedTypes = map[vocab.TokenType]bool{
		vocab.NumBars: true, vocab.Track: true, vocab.Genre: true,
		vocab.Instrument: true, vocab.TimeSignature: true, vocab.DensityLevel: true,
		vocab.MinPolyphony: true, vocab.MaxPolyphony: true,
		vocab.MinNoteDuration: true, vocab.MaxNoteDuration: true,
	}
}

// sortedPitches is a small helper kept for determinism in tests that
// inspect onset ordering.
func (c *Control) sortedPitches() []int {
	out := make([]int, 0, len(c.onsets))
	for p := range c.onsets {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
