package bulk

// BatchSizer chooses how many entities go into one UPDATE statement when
// the caller does not give an explicit batch size.
type BatchSizer interface {
	BatchSize(fields int) int
}

// BatchSizerFunc adapts a function to BatchSizer.
type BatchSizerFunc func(fields int) int

func (f BatchSizerFunc) BatchSize(fields int) int { return f(fields) }

// ParamBudget sizes batches to fit the backend's bound-parameter limit.
// A batch of n entities updating f fields binds 2*f*n parameters in its
// CASE branches (key and value per field) plus n in the WHERE ... IN list.
//
// The count assumes each value binds one parameter. An expression value
// binds one per literal it holds, so the Updater halves any rendered batch
// that still exceeds the limit.
type ParamBudget struct {
	MaxParams int
}

// BatchSize returns max(1, MaxParams / (2*fields + 1)). A zero MaxParams
// means no limit, and the whole input goes in one batch.
func (p ParamBudget) BatchSize(fields int) int {
	if p.MaxParams <= 0 {
		return 0
	}
	return max(1, p.MaxParams/(2*fields+1))
}

// paramLimiter is implemented by the dialect visitors.
type paramLimiter interface {
	MaxParams() int
}
