package sampler

// UnchangedFunc reports whether the bars a generation attempt produced
// are byte-identical to what was already in the piece (same sorted
// note list), per multi_step_sample.h's definition of a "wasted"
// attempt.
type UnchangedFunc func(rows [][]int) bool

// GenerateFunc runs one full generation attempt at the given
// temperature and returns its batch of token rows.
type GenerateFunc func(temperature float64) ([][]int, error)

// GenerateMultiAttempt retries gen up to maxAttempts times when
// unchanged reports the result didn't actually change the requested
// bars, raising temperature between attempts via cb, ported from
// sample_multi_attempts.h's sample_multi_attempts.
func GenerateMultiAttempt(maxAttempts int, initialTemperature float64, gen GenerateFunc, unchanged UnchangedFunc, cb *CallbackManager) ([][]int, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	temp := initialTemperature
	var rows [][]int
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		rows, err = gen(temp)
		if err != nil {
			return nil, err
		}
		if unchanged == nil || !unchanged(rows) {
			return rows, nil
		}
		if cb != nil {
			temp = cb.UpdateTemperature(attempt, temp)
		}
	}
	return rows, nil
}
