package vocab

import (
	"fmt"

	"github.com/schollz/miditok/internal/midierr"
	"github.com/schollz/miditok/internal/tokendomain"
)

// Representation is the built vocabulary: every token type's domain
// laid end to end into one contiguous id space, plus the forward and
// backward lookups to move between (type,value) and that id. Ported
// from common/encoder/representation.h's REPRESENTATION class.
type Representation struct {
	specs   []TokenTypeSpec
	domains map[TokenType]tokendomain.Domain
	offset  map[TokenType]int
	nameToType map[string]TokenType
	vocabSize int
}

// New builds a Representation from an ordered list of token-type
// specs. Repeat-domain types (Domain.RepeatOf != "") do not receive
// their own id range; encoding or decoding through them resolves to
// the type they repeat, matching representation.h's repeat_tt
// handling (no backward entry is created for the alias itself).
func New(specs []TokenTypeSpec) *Representation {
	r := &Representation{
		specs:      specs,
		domains:    make(map[TokenType]tokendomain.Domain, len(specs)),
		offset:     make(map[TokenType]int, len(specs)),
		nameToType: make(map[string]TokenType, len(specs)),
	}
	for _, s := range specs {
		r.domains[s.Type] = s.Domain
		r.nameToType[s.Type.String()] = s.Type
	}
	cursor := 0
	for _, s := range specs {
		if s.Domain.RepeatOf != "" {
			continue
		}
		r.offset[s.Type] = cursor
		cursor += s.Domain.Size
	}
	r.vocabSize = cursor
	return r
}

// resolve follows a repeat-domain chain to the (type,domain,offset)
// that actually owns the id space for tt.
func (r *Representation) resolve(tt TokenType) (TokenType, tokendomain.Domain, int, error) {
	seen := map[TokenType]bool{}
	cur := tt
	for {
		d, ok := r.domains[cur]
		if !ok {
			return 0, tokendomain.Domain{}, 0, midierr.Wrap(midierr.ErrInvalidField, "unknown token type %s", cur)
		}
		if d.RepeatOf == "" {
			return cur, d, r.offset[cur], nil
		}
		if seen[cur] {
			return 0, tokendomain.Domain{}, 0, midierr.Wrap(midierr.ErrInvalidField, "repeat cycle at token type %s", cur)
		}
		seen[cur] = true
		target, ok := r.nameToType[d.RepeatOf]
		if !ok {
			return 0, tokendomain.Domain{}, 0, midierr.Wrap(midierr.ErrInvalidField, "repeat target %s not in representation", d.RepeatOf)
		}
		cur = target
	}
}

// VocabSize is the total number of distinct token ids.
func (r *Representation) VocabSize() int { return r.vocabSize }

// HasTokenType reports whether tt was included when this
// Representation was built.
func (r *Representation) HasTokenType(tt TokenType) bool {
	_, ok := r.domains[tt]
	return ok
}

// Encode maps (tt,value) to a global token id. Ported from
// REPRESENTATION::encode.
func (r *Representation) Encode(tt TokenType, value int) (int, error) {
	owner, d, off, err := r.resolve(tt)
	if err != nil {
		return 0, err
	}
	local, ok := d.EncodeInt(value)
	if !ok {
		return 0, midierr.Wrap(midierr.ErrValueNotInDomain, "value %d not in domain of %s", value, owner)
	}
	return off + local, nil
}

// EncodeString maps (tt,value) to a global token id for a
// string-domain token type, e.g. GENRE.
func (r *Representation) EncodeString(tt TokenType, value string) (int, error) {
	owner, d, off, err := r.resolve(tt)
	if err != nil {
		return 0, err
	}
	local, ok := d.EncodeString(value)
	if !ok {
		return 0, midierr.Wrap(midierr.ErrValueNotInDomain, "value %q not in domain of %s", value, owner)
	}
	return off + local, nil
}

// EncodeTimeSig maps (tt,value) to a global token id for a
// timesig-domain token type, e.g. TIME_SIGNATURE.
func (r *Representation) EncodeTimeSig(tt TokenType, value tokendomain.TimeSig) (int, error) {
	owner, d, off, err := r.resolve(tt)
	if err != nil {
		return 0, err
	}
	local, ok := d.EncodeTimeSig(value)
	if !ok {
		return 0, midierr.Wrap(midierr.ErrValueNotInDomain, "time signature %v not in domain of %s", value, owner)
	}
	return off + local, nil
}

// TokenInRange reports whether id is a valid token id in this
// Representation, ported from REPRESENTATION::token_in_range.
func (r *Representation) TokenInRange(id int) bool {
	return id >= 0 && id < r.vocabSize
}

// GetTokenType returns the token type owning id, ported from
// REPRESENTATION::get_token_type.
func (r *Representation) GetTokenType(id int) (TokenType, error) {
	if !r.TokenInRange(id) {
		return 0, midierr.Wrap(midierr.ErrInvalidToken, "token id %d out of range [0,%d)", id, r.vocabSize)
	}
	for _, s := range r.specs {
		if s.Domain.RepeatOf != "" {
			continue
		}
		off := r.offset[s.Type]
		if id >= off && id < off+s.Domain.Size {
			return s.Type, nil
		}
	}
	return 0, midierr.Wrap(midierr.ErrInvalidToken, "token id %d does not belong to any domain", id)
}

// IsTokenType reports whether id belongs to tt's resolved domain,
// ported from REPRESENTATION::is_token_type.
func (r *Representation) IsTokenType(id int, tt TokenType) bool {
	got, err := r.GetTokenType(id)
	if err != nil {
		return false
	}
	owner, _, _, err := r.resolve(tt)
	if err != nil {
		return false
	}
	return got == owner
}

// DecodedToken is the result of Decode: the owning type plus whichever
// value field is meaningful for that type's Kind.
type DecodedToken struct {
	Type        TokenType
	Kind        tokendomain.InputKind
	IntValue    int
	StringValue string
	TimeSigValue tokendomain.TimeSig
}

// Decode recovers the (type,value) pair for a token id, ported from
// REPRESENTATION::decode/decode_string/decode_timesig, unified into
// one call since Go has no operator-overload dispatch on expected type.
func (r *Representation) Decode(id int) (DecodedToken, error) {
	tt, err := r.GetTokenType(id)
	if err != nil {
		return DecodedToken{}, err
	}
	d := r.domains[tt]
	off := r.offset[tt]
	localID := id - off
	switch d.Kind {
	case tokendomain.StringKind:
		v, ok := d.DecodeString(localID)
		if !ok {
			return DecodedToken{}, midierr.Wrap(midierr.ErrInvalidToken, "token id %d has no string value", id)
		}
		return DecodedToken{Type: tt, Kind: d.Kind, StringValue: v}, nil
	case tokendomain.TimeSigKind:
		v, ok := d.DecodeTimeSig(localID)
		if !ok {
			return DecodedToken{}, midierr.Wrap(midierr.ErrInvalidToken, "token id %d has no time signature value", id)
		}
		return DecodedToken{Type: tt, Kind: d.Kind, TimeSigValue: v}, nil
	default:
		v, ok := d.DecodeInt(localID)
		if !ok {
			return DecodedToken{}, midierr.Wrap(midierr.ErrInvalidToken, "token id %d has no int value", id)
		}
		return DecodedToken{Type: tt, Kind: d.Kind, IntValue: v}, nil
	}
}

// MaxToken returns the highest valid token id, ported from
// REPRESENTATION::max_token.
func (r *Representation) MaxToken() int { return r.vocabSize - 1 }

// GetDomainSize returns tt's resolved domain size, ported from
// REPRESENTATION::get_domain_size.
func (r *Representation) GetDomainSize(tt TokenType) (int, error) {
	_, d, _, err := r.resolve(tt)
	if err != nil {
		return 0, err
	}
	return d.Size, nil
}

// GetMask returns a vocab-sized slice filled with fill, ported from
// REPRESENTATION::get_mask<T>.
func (r *Representation) GetMask(fill int) []int {
	m := make([]int, r.vocabSize)
	for i := range m {
		m[i] = fill
	}
	return m
}

// SetMask writes maskValue into mask at every id for tt corresponding
// to one of values; value==-1 (the sole element of values) means every
// id in tt's domain, ported from REPRESENTATION::set_mask.
func (r *Representation) SetMask(tt TokenType, values []int, mask []int, maskValue int) error {
	owner, d, off, err := r.resolve(tt)
	if err != nil {
		return err
	}
	if len(values) == 1 && values[0] == -1 {
		for i := 0; i < d.Size; i++ {
			mask[off+i] = maskValue
		}
		return nil
	}
	for _, v := range values {
		local, ok := d.EncodeInt(v)
		if !ok {
			return midierr.Wrap(midierr.ErrValueNotInDomain, "value %d not in domain of %s", v, owner)
		}
		mask[off+local] = maskValue
	}
	return nil
}

// SetMaskString is SetMask's string-domain overload, ported from
// REPRESENTATION::set_mask's STRING_VECTOR_FLAG branch.
func (r *Representation) SetMaskString(tt TokenType, values []string, mask []int, maskValue int) error {
	owner, d, off, err := r.resolve(tt)
	if err != nil {
		return err
	}
	for _, v := range values {
		local, ok := d.EncodeString(v)
		if !ok {
			return midierr.Wrap(midierr.ErrValueNotInDomain, "value %q not in domain of %s", v, owner)
		}
		mask[off+local] = maskValue
	}
	return nil
}

// GetTypeMask returns a vocab-sized 0/1 slice with 1 at every id whose
// token type is in tts, ported from REPRESENTATION::get_type_mask.
func (r *Representation) GetTypeMask(tts []TokenType) []int {
	want := make(map[TokenType]bool, len(tts))
	for _, tt := range tts {
		if owner, _, _, err := r.resolve(tt); err == nil {
			want[owner] = true
		}
	}
	mask := make([]int, r.vocabSize)
	for _, s := range r.specs {
		if s.Domain.RepeatOf != "" || !want[s.Type] {
			continue
		}
		off := r.offset[s.Type]
		for i := 0; i < s.Domain.Size; i++ {
			mask[off+i] = 1
		}
	}
	return mask
}

// HasPretrainInstrumentMapping reports whether INSTRUMENT's domain is
// smaller than the full 128 General MIDI program space, ported from
// REPRESENTATION::has_pretrain_instrument_mapping.
func (r *Representation) HasPretrainInstrumentMapping() bool {
	size, err := r.GetDomainSize(Instrument)
	if err != nil {
		return false
	}
	return size < 128
}

// GetTimeSignatureDomain returns the usable time signatures, falling
// back to 4/4 only when TIME_SIGNATURE wasn't wired into this
// Representation, ported from REPRESENTATION::get_time_signature_domain
// ("standard models without time signatures only trained on 4/4").
func (r *Representation) GetTimeSignatureDomain() []tokendomain.TimeSig {
	d, ok := r.domains[TimeSignature]
	if !ok {
		return []tokendomain.TimeSig{{Num: 4, Den: 4}}
	}
	out := make([]tokendomain.TimeSig, 0, d.Size)
	for i := 0; i < d.Size; i++ {
		if v, ok := d.DecodeTimeSig(i); ok {
			out = append(out, v)
		}
	}
	return out
}

func (d DecodedToken) String() string {
	switch d.Kind {
	case tokendomain.StringKind:
		return fmt.Sprintf("%s(%s)", d.Type, d.StringValue)
	case tokendomain.TimeSigKind:
		return fmt.Sprintf("%s(%d/%d)", d.Type, d.TimeSigValue.Num, d.TimeSigValue.Den)
	default:
		return fmt.Sprintf("%s(%d)", d.Type, d.IntValue)
	}
}
