// Package score defines the symbolic-music data model: Piece, Track,
// Bar and Event, plus the Status/HyperParam records the sampler and
// planner use to describe what to generate.
package score

// TrackType classifies a track's instrument role, matching the
// original TRACK_TYPE enum (AUX_INST_TRACK/AUX_DRUM_TRACK/
// STANDARD_TRACK/STANDARD_DRUM_TRACK).
type TrackType int

const (
	StandardTrack TrackType = iota
	StandardDrumTrack
	AuxTrack
	AuxDrumTrack
)

// IsDrum reports whether a track of this type plays unpitched
// percussion, ported from track_type.h's TRACK_TYPE_IS_DRUM map.
func (t TrackType) IsDrum() bool {
	switch t {
	case StandardDrumTrack, AuxDrumTrack:
		return true
	default:
		return false
	}
}

func (t TrackType) String() string {
	switch t {
	case StandardTrack:
		return "STANDARD_TRACK"
	case StandardDrumTrack:
		return "STANDARD_DRUM_TRACK"
	case AuxTrack:
		return "AUX_INST_TRACK"
	case AuxDrumTrack:
		return "AUX_DRUM_TRACK"
	default:
		return "UNKNOWN_TRACK"
	}
}

// TimeSignature is a bar's meter.
type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// Event is a single note: an onset position (in the piece's
// resolution-ticks-per-quarter-note grid), a duration, a pitch and a
// velocity. Onset is relative to the start of the bar it belongs to.
type Event struct {
	Onset    int `json:"onset"`
	Pitch    int `json:"pitch"`
	Velocity int `json:"velocity"`
	Duration int `json:"duration"`
	// Delta is the microtiming offset from the quantized grid, in
	// delta-resolution units; zero for a perfectly quantized onset.
	Delta int `json:"delta,omitempty"`
}

// Bar is one measure of a track: its time signature and the note
// events sounding inside it.
type Bar struct {
	TimeSignature TimeSignature `json:"time_signature"`
	Events        []Event       `json:"events"`
}

// Track is one instrument line: its type, General MIDI program number
// and the bars that make up its timeline. All tracks in a Piece share
// the same bar count.
type Track struct {
	TrackType  TrackType `json:"track_type"`
	Instrument int       `json:"instrument"`
	Bars       []Bar     `json:"bars"`
}

// Piece is the top-level unit the encoder/decoder and sampler operate
// on: a fixed-resolution multi-track, bar-segmented score.
type Piece struct {
	Resolution int     `json:"resolution"`
	Genre      string  `json:"genre,omitempty"`
	Tracks     []Track `json:"tracks"`
}

// NumBars returns the bar count shared by every track, or 0 for an
// empty piece. Ported from util_protobuf.h's GetNumBars.
func (p *Piece) NumBars() int {
	if len(p.Tracks) == 0 {
		return 0
	}
	return len(p.Tracks[0].Bars)
}

// UpdateHasNotes reports whether any bar of any track carries at
// least one event, supplementing util_protobuf.h's has-notes pass
// (used by the encoder to decide whether a piece is worth encoding).
func (p *Piece) UpdateHasNotes() bool {
	for _, t := range p.Tracks {
		for _, b := range t.Bars {
			if len(b.Events) > 0 {
				return true
			}
		}
	}
	return false
}

// PruneTracks drops tracks with no notes in any bar, ported from
// util_protobuf.h's prune_tracks.
func (p *Piece) PruneTracks() {
	kept := p.Tracks[:0]
	for _, t := range p.Tracks {
		hasNotes := false
		for _, b := range t.Bars {
			if len(b.Events) > 0 {
				hasNotes = true
				break
			}
		}
		if hasNotes {
			kept = append(kept, t)
		}
	}
	p.Tracks = kept
}

// ReorderTracks permutes tracks according to order, which must be a
// permutation of [0,len(Tracks)): track i of the result is the old
// track order[i]. Ported from util_protobuf.h's reorder_tracks.
func (p *Piece) ReorderTracks(order []int) {
	out := make([]Track, len(order))
	for i, idx := range order {
		out[i] = p.Tracks[idx]
	}
	p.Tracks = out
}
