package score

// SelectionType marks what the planner/sampler should do with a given
// bar or track: leave it as fixed context, resample it in place, or
// generate it from scratch (infill). Ported from the C++ source's
// per-bar/per-track selection classification used by
// status_to_selection_mask/status_to_resample_mask/status_to_ignore_mask.
type SelectionType int

const (
	// Ignore means this bar/track is outside the current batch of
	// work entirely (neither context nor a generation target).
	Ignore SelectionType = iota
	// Condition means this bar/track is given, fixed context the
	// model conditions on but never rewrites.
	Condition
	// Resample means this bar/track already has content but should be
	// regenerated.
	Resample
	// Infill means this bar/track is empty and must be generated.
	Infill
)

// StatusBar carries the per-bar overrides a caller can pin before
// sampling: a selection type plus optional bar-level attribute-control
// values. A zero field means "unset, let the model choose"; following
// the original's 1-indexed override convention, a set value is stored
// as v+1 so 0 remains distinguishable from "set to 0".
type StatusBar struct {
	Selection         SelectionType `json:"selection"`
	OnsetPolyphony    int           `json:"onset_polyphony,omitempty"`
	OnsetDensity      int           `json:"onset_density,omitempty"`
	TimeSigNumerator  int           `json:"time_sig_numerator,omitempty"`
	TimeSigDenom      int           `json:"time_sig_denominator,omitempty"`
}

// StatusTrack carries the per-track overrides: a default selection
// for any bar that doesn't specify its own, plus track-level
// attribute-control values, and the per-bar overrides themselves.
type StatusTrack struct {
	Selection             SelectionType `json:"selection"`
	TrackType             int           `json:"track_type,omitempty"`
	Instrument            int           `json:"instrument,omitempty"`
	Density               int           `json:"density,omitempty"`
	MinPolyphony          int           `json:"min_polyphony,omitempty"`
	MaxPolyphony          int           `json:"max_polyphony,omitempty"`
	MinNoteDuration       int           `json:"min_note_duration,omitempty"`
	MaxNoteDuration       int           `json:"max_note_duration,omitempty"`
	TrackOnsetPolyMin     int           `json:"track_onset_polyphony_min,omitempty"`
	TrackOnsetPolyMax     int           `json:"track_onset_polyphony_max,omitempty"`
	TrackOnsetDensityMin  int           `json:"track_onset_density_min,omitempty"`
	TrackOnsetDensityMax  int           `json:"track_onset_density_max,omitempty"`
	NoteDurationClasses   [6]int        `json:"note_duration_classes,omitempty"`
	PitchRangeMin         int           `json:"pitch_range_min,omitempty"`
	PitchRangeMax         int           `json:"pitch_range_max,omitempty"`
	Bars                  []StatusBar   `json:"bars"`
}

// Status is the full caller-supplied plan: an optional piece-level
// genre override plus one StatusTrack per track in the piece.
type Status struct {
	Genre  string        `json:"genre,omitempty"`
	Tracks []StatusTrack `json:"tracks"`
}

// ClassifyStatusTrack summarizes a track's bar selections into a
// single dominant SelectionType, supplementing the STATUS_TRACK_TYPE
// classifier referenced by util_protobuf.h: Infill if any bar needs
// infill, else Resample if any bar needs resampling, else the track's
// own default selection.
func ClassifyStatusTrack(st StatusTrack) SelectionType {
	sawResample := false
	for _, b := range st.Bars {
		switch b.Selection {
		case Infill:
			return Infill
		case Resample:
			sawResample = true
		}
	}
	if sawResample {
		return Resample
	}
	return st.Selection
}

// HyperParam tunes how the multi-step planner windows a piece into
// generation steps, ported from multi_step.h's HYPER_PARAM.
type HyperParam struct {
	ModelDim      int  `json:"model_dim"`
	TracksPerStep int  `json:"tracks_per_step"`
	BarsPerStep   int  `json:"bars_per_step"`
	Shuffle       bool `json:"shuffle"`
	Percentage    int  `json:"percentage"`
}

// DefaultHyperParam mirrors the C++ HYPER_PARAM default constructor.
func DefaultHyperParam() HyperParam {
	return HyperParam{ModelDim: 4, TracksPerStep: 1, BarsPerStep: 4, Shuffle: false, Percentage: 100}
}
