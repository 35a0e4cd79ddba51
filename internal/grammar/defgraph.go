package grammar

import (
	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/vocab"
)

// Node is a graph vertex: a token type plus a sub-index disambiguating
// repeated appearances of the same type in one path (e.g. the Nth
// attribute-control token of a track). Most of the base graph uses
// sub-index 0; the attribute-control chains use successive indices so
// each control's token gets its own node.
type Node struct {
	Type vocab.TokenType
	Sub  int
}

// trackAttributeTokenTypes is the append_track_tokens order: every
// track-level attribute control's token types, chained between
// INSTRUMENT and BAR (SPEC_FULL.md §7's registry order, minus Genre
// which is TRACK_PRE_INSTRUMENT and minus the bar-level controls).
var trackAttributeTokenTypes = []vocab.TokenType{
	vocab.DensityLevel,
	vocab.MinPolyphony, vocab.MaxPolyphony,
	vocab.MinNoteDuration, vocab.MaxNoteDuration,
	vocab.TrackOnsetPolyphonyMin, vocab.TrackOnsetPolyphonyMax,
	vocab.TrackOnsetDensityMin, vocab.TrackOnsetDensityMax,
	vocab.HasNoteDurationClass0, vocab.HasNoteDurationClass1, vocab.HasNoteDurationClass2,
	vocab.HasNoteDurationClass3, vocab.HasNoteDurationClass4, vocab.HasNoteDurationClass5,
	vocab.PitchRangeMin, vocab.PitchRangeMax,
}

// barAttributeTokenTypes is the append_bar_tokens order.
var barAttributeTokenTypes = []vocab.TokenType{
	vocab.BarOnsetPolyphonyMin, vocab.BarOnsetPolyphonyMax,
	vocab.BarOnsetDensity,
}

// BuildDefGraph builds the base token-type graph shared by every
// encoder/model variant, derived from the emission order in
// encoder_base.h's encode_piece/encode_track/encode_bar/encode_notes.
func BuildDefGraph() *Digraph[Node] {
	g := NewDigraph[Node]()
	n := func(tt vocab.TokenType) Node { return Node{Type: tt} }

	g.AddEdge(n(vocab.PieceStart), n(vocab.NumBars))
	g.AddEdge(n(vocab.PieceStart), n(vocab.Track))
	g.AddEdge(n(vocab.NumBars), n(vocab.Track))

	g.AddEdge(n(vocab.Track), n(vocab.Genre))
	g.AddEdge(n(vocab.Track), n(vocab.Instrument))
	g.AddEdge(n(vocab.Genre), n(vocab.Instrument))

	// chain the track-level attribute tokens, INSTRUMENT -> ... -> BAR
	prev := n(vocab.Instrument)
	for _, tt := range trackAttributeTokenTypes {
		g.AddEdge(prev, n(tt))
		prev = n(tt)
	}
	g.AddEdge(prev, n(vocab.Bar))
	g.AddEdge(n(vocab.Instrument), n(vocab.Bar)) // no attribute controls wired

	// chain the bar-level attribute tokens, BAR -> ... -> TIME_SIGNATURE
	prev = n(vocab.Bar)
	for _, tt := range barAttributeTokenTypes {
		g.AddEdge(prev, n(tt))
		prev = n(tt)
	}
	g.AddEdge(prev, n(vocab.TimeSignature))
	g.AddEdge(n(vocab.Bar), n(vocab.TimeSignature))

	g.AddEdge(n(vocab.TimeSignature), n(vocab.FillInPlaceholder))
	g.AddEdge(n(vocab.FillInPlaceholder), n(vocab.BarEnd))
	g.AddEdge(n(vocab.TimeSignature), n(vocab.TimeAbsolutePos))
	g.AddEdge(n(vocab.TimeSignature), n(vocab.VelocityLevel))

	// note-event chain inside a bar
	g.AddEdge(n(vocab.TimeAbsolutePos), n(vocab.VelocityLevel))
	g.AddEdge(n(vocab.TimeAbsolutePos), n(vocab.DeltaDirection))
	g.AddEdge(n(vocab.TimeAbsolutePos), n(vocab.Delta))
	g.AddEdge(n(vocab.TimeAbsolutePos), n(vocab.NoteOnset))
	g.AddEdge(n(vocab.VelocityLevel), n(vocab.DeltaDirection))
	g.AddEdge(n(vocab.VelocityLevel), n(vocab.Delta))
	g.AddEdge(n(vocab.VelocityLevel), n(vocab.NoteOnset))
	g.AddEdge(n(vocab.DeltaDirection), n(vocab.Delta))
	g.AddEdge(n(vocab.DeltaDirection), n(vocab.NoteOnset))
	g.AddEdge(n(vocab.Delta), n(vocab.NoteOnset))
	g.AddEdge(n(vocab.NoteOnset), n(vocab.NoteDuration))
	g.AddEdge(n(vocab.NoteOnset), n(vocab.NoteOnset))   // drum: next note, same onset
	g.AddEdge(n(vocab.NoteDuration), n(vocab.NoteOnset)) // next note, same onset
	g.AddEdge(n(vocab.NoteOnset), n(vocab.TimeAbsolutePos))
	g.AddEdge(n(vocab.NoteDuration), n(vocab.TimeAbsolutePos))
	g.AddEdge(n(vocab.NoteOnset), n(vocab.BarEnd))
	g.AddEdge(n(vocab.NoteDuration), n(vocab.BarEnd))

	// bar-infill note chain
	g.AddEdge(n(vocab.FillInStart), n(vocab.TimeAbsolutePos))
	g.AddEdge(n(vocab.FillInStart), n(vocab.VelocityLevel))
	g.AddEdge(n(vocab.FillInStart), n(vocab.FillInEnd)) // empty infill bar
	g.AddEdge(n(vocab.NoteOnset), n(vocab.FillInEnd))
	g.AddEdge(n(vocab.NoteDuration), n(vocab.FillInEnd))
	g.AddEdge(n(vocab.FillInEnd), n(vocab.BarEnd))

	g.AddEdge(n(vocab.BarEnd), n(vocab.Bar))
	g.AddEdge(n(vocab.BarEnd), n(vocab.TrackEnd))
	g.AddEdge(n(vocab.TrackEnd), n(vocab.Track))

	return g
}

// ModelType selects which REP_GRAPH specialization to build, ported
// from REP_GRAPH's TRACK_MODEL vs bar-infilling branch.
type ModelType int

const (
	// TrackModel generates whole tracks autoregressively: FILL_IN_*
	// token types are removed without reconnecting, since this model
	// never encounters them.
	TrackModel ModelType = iota
	// BarInfillModel generates the contents of individual
	// placeholder bars: everything except the note-level token types
	// and FILL_IN_START/FILL_IN_END is removed without reconnecting.
	BarInfillModel
)

// barInfillKeep is the fixed set of token types initialize_bar_infilling
// keeps; everything else is removed without reconnecting.
var barInfillKeep = map[vocab.TokenType]bool{
	vocab.VelocityLevel:     true,
	vocab.NoteOnset:         true,
	vocab.NoteDuration:      true,
	vocab.Delta:             true,
	vocab.DeltaDirection:    true,
	vocab.TimeAbsolutePos:   true,
	vocab.FillInStart:       true,
	vocab.FillInEnd:         true,
}

// RepresentationGraph is the grammar graph specialized for one
// Representation and ModelType, ported from REP_GRAPH.
type RepresentationGraph struct {
	Graph *Digraph[Node]
	rep   *vocab.Representation
}

// NewRepresentationGraph builds and specializes the grammar graph,
// ported from REP_GRAPH::initialize/initialize_autoregressive/
// initialize_bar_infilling.
func NewRepresentationGraph(rep *vocab.Representation, mt ModelType, excluded []vocab.TokenType) *RepresentationGraph {
	g := BuildDefGraph()

	excludeSet := make(map[vocab.TokenType]bool, len(excluded))
	for _, tt := range excluded {
		excludeSet[tt] = true
	}

	var toRemove []Node
	for tt := range allNodeTypes(g) {
		if !rep.HasTokenType(tt) || excludeSet[tt] {
			toRemove = append(toRemove, Node{Type: tt})
		}
	}
	g.RemoveNodes(toRemove)

	switch mt {
	case TrackModel:
		g.RemoveNodesWithoutConnecting([]Node{
			{Type: vocab.FillInPlaceholder}, {Type: vocab.FillInStart}, {Type: vocab.FillInEnd},
		})
	case BarInfillModel:
		var drop []Node
		for tt := range allNodeTypes(g) {
			if !barInfillKeep[tt] {
				drop = append(drop, Node{Type: tt})
			}
		}
		g.RemoveNodesWithoutConnecting(drop)
		g.SetCurrentNode(Node{Type: vocab.FillInEnd})
	}

	return &RepresentationGraph{Graph: g, rep: rep}
}

func allNodeTypes(g *Digraph[Node]) map[vocab.TokenType]bool {
	out := map[vocab.TokenType]bool{}
	for v := range g.edges {
		out[v.Type] = true
	}
	return out
}

// InferNode resolves the graph node for the next token given the last
// emitted token id, ported from REP_GRAPH::infer_node: PIECE_START
// special-cases as the entry point; a single legal successor is
// returned directly; otherwise the successor matching lastToken's
// decoded type is returned.
func (rg *RepresentationGraph) InferNode(lastTokenType vocab.TokenType) (Node, error) {
	if lastTokenType == vocab.PieceStart {
		return Node{Type: vocab.PieceStart}, nil
	}
	next, err := rg.Graph.GetNextNodes(Node{Type: lastTokenType})
	if err != nil {
		return Node{}, midierr.Wrap(midierr.ErrGrammarViolation, "%v", err)
	}
	if len(next) == 1 {
		return next[0], nil
	}
	for _, node := range next {
		if node.Type == lastTokenType {
			return node, nil
		}
	}
	return Node{}, midierr.Wrap(midierr.ErrGrammarViolation, "cannot infer node after %s", lastTokenType)
}

// SetMask unmasks, in mask, every token belonging to every legal next
// token type after lastTokenType, ported from REP_GRAPH::set_mask.
func (rg *RepresentationGraph) SetMask(lastTokenType vocab.TokenType, mask []int) error {
	cur, hasCurrent := rg.Graph.CurrentNode()
	if !hasCurrent {
		cur = Node{Type: lastTokenType}
	}
	node := Node{Type: lastTokenType}
	if err := rg.Graph.Traverse(node); err != nil {
		return err
	}
	next, err := rg.Graph.GetNextNodes(node)
	if err != nil {
		return midierr.Wrap(midierr.ErrGrammarViolation, "%v", err)
	}
	if len(next) == 0 {
		return midierr.Wrap(midierr.ErrNoLegalToken, "no legal token after %s", lastTokenType)
	}
	_ = cur
	for _, n := range next {
		if err := rg.rep.SetMask(n.Type, []int{-1}, mask, 1); err != nil {
			return err
		}
	}
	return nil
}
