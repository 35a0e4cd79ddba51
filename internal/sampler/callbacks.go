package sampler

// Callbacks lets a caller observe and steer generation without the
// sampler loop depending on any particular UI, ported from
// callback_base.h's CALLBACK_BASE.
type Callbacks interface {
	OnStart(numSteps int)
	OnPrediction(step, row, tokenID int)
	OnBarEnd(step, row int)
	// Cancelled is polled once per model forward; once it returns
	// true no further token is emitted for any row.
	Cancelled() bool
	// UpdateTemperature is consulted between multi-attempt retries.
	// Ported from callback_base.h's behavior: it returns the new
	// temperature to use, and a bool reporting whether it actually
	// raised it — the original stops proposing further increases
	// after the first attempt that doesn't raise, and so does this
	// port (see CallbackManager.UpdateTemperature).
	UpdateTemperature(attempt int, current float64) (float64, bool)
}

// NoopCallbacks implements Callbacks with no-ops and never cancels;
// useful as a default for the CLI's non-interactive paths.
type NoopCallbacks struct{}

func (NoopCallbacks) OnStart(int)                {}
func (NoopCallbacks) OnPrediction(int, int, int)  {}
func (NoopCallbacks) OnBarEnd(int, int)           {}
func (NoopCallbacks) Cancelled() bool             { return false }
func (NoopCallbacks) UpdateTemperature(int, float64) (float64, bool) {
	return 0, false
}

// CallbackManager fans a single loop body out to an ordered list of
// Callbacks, ported from callback_base.h's CALLBACK_MANAGER, which
// holds several registered callbacks and forwards each loop event to
// all of them in registration order.
type CallbackManager struct {
	callbacks []Callbacks

	// raiseOnce tracks, per-callback index, whether UpdateTemperature
	// already returned "did not raise" once. Once that happens for a
	// given callback the manager stops asking it again — this
	// reproduces callback_base.h's "return on first non-increase"
	// early-exit, which existed to stop a flaky temperature schedule
	// from oscillating across attempts.
	raiseOnce []bool
}

// NewCallbackManager wraps zero or more Callbacks.
func NewCallbackManager(callbacks ...Callbacks) *CallbackManager {
	return &CallbackManager{callbacks: callbacks, raiseOnce: make([]bool, len(callbacks))}
}

func (m *CallbackManager) OnStart(numSteps int) {
	for _, c := range m.callbacks {
		c.OnStart(numSteps)
	}
}

func (m *CallbackManager) OnPrediction(step, row, tokenID int) {
	for _, c := range m.callbacks {
		c.OnPrediction(step, row, tokenID)
	}
}

func (m *CallbackManager) OnBarEnd(step, row int) {
	for _, c := range m.callbacks {
		c.OnBarEnd(step, row)
	}
}

func (m *CallbackManager) Cancelled() bool {
	for _, c := range m.callbacks {
		if c.Cancelled() {
			return true
		}
	}
	return false
}

// UpdateTemperature asks each callback in turn for a new temperature,
// skipping any callback that has already declined to raise it once
// (see raiseOnce above), and returns the last raised value any
// callback proposed, or current if none raised it.
func (m *CallbackManager) UpdateTemperature(attempt int, current float64) float64 {
	temp := current
	for i, c := range m.callbacks {
		if m.raiseOnce[i] {
			continue
		}
		next, raised := c.UpdateTemperature(attempt, temp)
		if !raised {
			m.raiseOnce[i] = true
			continue
		}
		temp = next
	}
	return temp
}
