// Package history provides fixed-capacity time-ordered sample buffers for
// sparkline and chart rendering. Each series holds the most recent N float
// samples, oldest first, and is pre-filled with zeros so consumers always
// observe a complete window.
package history

// Series is a fixed-capacity ring buffer of float samples.
// It is constructed at full length, so Values always returns exactly
// Capacity elements and the first rendered frame never needs a
// warm-up special case.
type Series struct {
	buf []float64
}

// DefaultCapacity is the number of samples retained per series.
// At a 1-second sampling interval this covers two minutes.
const DefaultCapacity = 120

// NewSeries creates a Series holding capacity samples, all zero.
// A capacity below 1 is treated as DefaultCapacity.
func NewSeries(capacity int) *Series {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Series{buf: make([]float64, capacity)}
}

// Push appends a sample and evicts the oldest one, keeping the
// series length constant.
func (s *Series) Push(v float64) {
	n := len(s.buf)
	s.buf = append(s.buf, v)
	s.buf = s.buf[len(s.buf)-n:]
}

// Values returns a copy of the buffered samples, oldest first.
// The returned slice always has length Capacity.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.buf))
	copy(out, s.buf)
	return out
}

// Last returns the most recent sample.
func (s *Series) Last() float64 {
	return s.buf[len(s.buf)-1]
}

// Capacity returns the fixed series length.
func (s *Series) Capacity() int {
	return len(s.buf)
}
