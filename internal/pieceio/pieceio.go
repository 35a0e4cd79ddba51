// Package pieceio is the JSON boundary for score.Piece, score.Status
// and score.HyperParam, grounded on internal/storage/storage.go's
// jsoniter usage (json-iterator/go's
// ConfigCompatibleWithStandardLibrary codec, used there for
// SaveData/metadata marshaling).
package pieceio

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/score"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalPiece serializes p to its stable snake_case JSON schema.
func MarshalPiece(p *score.Piece) ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalPiece parses data into a Piece, rejecting any field not
// present in score.Piece's JSON schema, per spec.md §6's "unknown
// fields in input are rejected with the offending field name".
func UnmarshalPiece(data []byte) (*score.Piece, error) {
	var p score.Piece
	if err := decodeStrict(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarshalStatus and UnmarshalStatus are Status's counterparts.
func MarshalStatus(s *score.Status) ([]byte, error) { return json.Marshal(s) }

func UnmarshalStatus(data []byte) (*score.Status, error) {
	var s score.Status
	if err := decodeStrict(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarshalHyperParam and UnmarshalHyperParam are HyperParam's counterparts.
func MarshalHyperParam(h *score.HyperParam) ([]byte, error) { return json.Marshal(h) }

func UnmarshalHyperParam(data []byte) (*score.HyperParam, error) {
	var h score.HyperParam
	if err := decodeStrict(data, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// decodeStrict decodes data into v, surfacing the offending field name
// in the returned error when the input carries a field v's schema
// doesn't declare.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return midierr.Wrap(midierr.ErrInvalidField, "%s", fmt.Sprintf("%v", err))
	}
	return nil
}
