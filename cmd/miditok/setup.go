package main

import (
	"github.com/schollz/miditok/internal/attrctrl"
	"github.com/schollz/miditok/internal/encoder"
	"github.com/schollz/miditok/internal/vocab"
)

// buildEncoder wires a Representation, an attribute-control Registry
// and an ExpressiveEncoder from the default vocabulary options, the
// one assembly every subcommand needs before it can touch a Piece.
func buildEncoder() (*vocab.Representation, *attrctrl.Registry, *encoder.ExpressiveEncoder) {
	opt := vocab.DefaultVocabOptions()
	rep := vocab.New(vocab.DefaultTokenTypeSpecs(opt))
	registry := attrctrl.NewRegistry(opt.Genres)
	enc := encoder.NewExpressiveEncoder(rep, registry)
	return rep, registry, enc
}
