package encoder

import "github.com/schollz/miditok/internal/vocab"

// ResolveBarInfillTokens splices each FILL_IN_PLACEHOLDER's matching
// FILL_IN_START…FILL_IN_END block (in order of appearance) into the
// main token stream in place of the placeholder, then drops the
// trailing fill blocks entirely. Ported from encoder_base.h's
// resolve_bar_infill_tokens.
func (e *ExpressiveEncoder) ResolveBarInfillTokens(tokens []int) ([]int, error) {
	lastTrackEnd := -1
	for i, id := range tokens {
		dec, err := e.rep.Decode(id)
		if err != nil {
			return nil, err
		}
		if dec.Type == vocab.TrackEnd {
			lastTrackEnd = i
		}
	}
	if lastTrackEnd == -1 {
		return tokens, nil
	}

	main := tokens[:lastTrackEnd+1]
	trailing := tokens[lastTrackEnd+1:]

	var blocks [][]int
	i := 0
	for i < len(trailing) {
		dec, err := e.rep.Decode(trailing[i])
		if err != nil {
			return nil, err
		}
		if dec.Type != vocab.FillInStart {
			i++
			continue
		}
		start := i + 1
		j := start
		for j < len(trailing) {
			d, err := e.rep.Decode(trailing[j])
			if err != nil {
				return nil, err
			}
			if d.Type == vocab.FillInEnd {
				break
			}
			j++
		}
		blocks = append(blocks, trailing[start:j])
		i = j + 1
	}

	out := make([]int, 0, len(main))
	blockIdx := 0
	for _, id := range main {
		dec, err := e.rep.Decode(id)
		if err != nil {
			return nil, err
		}
		if dec.Type == vocab.FillInPlaceholder {
			if blockIdx < len(blocks) {
				out = append(out, blocks[blockIdx]...)
				blockIdx++
			}
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
