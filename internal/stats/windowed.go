package stats

// #region windowed
// Windowed recomputes mean and population variance over the last lag values
// held in a fixed-capacity ring buffer. Before lag values have arrived the
// estimates cover whatever is available. O(lag) per update.
type Windowed struct {
	buf      []float64
	head     int // next write position
	filled   bool
	count    int
	mean     float64
	variance float64
}

// NewWindowed creates a windowed estimator over the last lag values.
// lag must be >= 1.
func NewWindowed(lag int) *Windowed {
	if lag < 1 {
		lag = 1
	}
	return &Windowed{buf: make([]float64, 0, lag)}
}

// #endregion windowed

// #region update

// Update appends value to the window, evicting the oldest entry once the
// window is full, and recomputes mean and population variance.
func (w *Windowed) Update(value float64) (float64, float64) {
	if !w.filled {
		w.buf = append(w.buf, value)
		if len(w.buf) == cap(w.buf) {
			w.filled = true
		}
	} else {
		w.buf[w.head] = value
		w.head = (w.head + 1) % len(w.buf)
	}
	w.count++

	var sum float64
	for _, v := range w.buf {
		sum += v
	}
	w.mean = sum / float64(len(w.buf))

	var sq float64
	for _, v := range w.buf {
		d := v - w.mean
		sq += d * d
	}
	w.variance = sq / float64(len(w.buf))
	if w.variance < 0 {
		w.variance = 0
	}
	return w.mean, w.variance
}

// #endregion update

// #region accessors

// Mean returns the current window mean.
func (w *Windowed) Mean() float64 { return w.mean }

// Variance returns the current window population variance.
func (w *Windowed) Variance() float64 { return w.variance }

// Count returns the number of values absorbed so far.
func (w *Windowed) Count() int { return w.count }

// Len returns how many values the window currently holds.
func (w *Windowed) Len() int { return len(w.buf) }

// #endregion accessors
