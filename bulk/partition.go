package bulk

// Span is a half-open range [Lo, Hi) of input positions.
type Span struct {
	Lo, Hi int
}

// Len returns the number of positions in the span.
func (s Span) Len() int { return s.Hi - s.Lo }

// Partition splits n items into contiguous spans of at most size items, in
// input order. Every position appears in exactly one span. n <= 0 yields no
// spans; size <= 0 yields one span covering everything.
func Partition(n, size int) []Span {
	if n <= 0 {
		return nil
	}
	if size <= 0 || size >= n {
		return []Span{{Lo: 0, Hi: n}}
	}
	spans := make([]Span, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		spans = append(spans, Span{Lo: lo, Hi: min(lo+size, n)})
	}
	return spans
}
