package xpclr

// Window is a nominal scan window over genomic coordinates, inclusive on
// both ends.
type Window struct {
	Start int
	Stop  int
}

// BuildWindows derives the scan windows: starts form an arithmetic sequence
// from start with common difference step, strictly below stop; each window
// spans size base pairs, so its stop is start+size-1. A window's stop is
// deliberately not clipped to the configured stop, so the last window may
// extend past it. Overlap (step < size) and gaps (step > size) are both
// allowed.
func BuildWindows(start, stop, step, size int) []Window {
	windows := make([]Window, 0)

	for s := start; s < stop; s += step {
		windows = append(windows, Window{Start: s, Stop: s + size - 1})
	}

	return windows
}
