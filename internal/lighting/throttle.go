package lighting

// DefaultEvery is how many frames pass between light recomputes.
const DefaultEvery = 3

// Throttle gates an expensive per-frame job to once every Every frames.
// The zero value fires on every frame.
type Throttle struct {
	Every int

	wait  int
	dirty bool
}

// MarkDirty makes the next Ready call fire regardless of the countdown.
// It is the one exception to the every-N-frames limit: after a cell switch
// the current field describes the cell that was left, so it must not be
// shown for the rest of the countdown.
func (t *Throttle) MarkDirty() { t.dirty = true }

// Ready is called once per frame and reports whether the job should run.
func (t *Throttle) Ready() bool {
	if t.dirty || t.wait <= 0 {
		t.dirty = false
		t.wait = t.Every - 1
		return true
	}
	t.wait--
	return false
}
