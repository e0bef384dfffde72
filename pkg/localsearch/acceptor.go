package localsearch

// Acceptor decides whether a candidate score may replace the current one.
// Scores are higher-is-better.
type Acceptor interface {
	Accept(current, candidate float64) bool
}

// HillClimbing accepts strict improvements, and equal scores when
// AcceptEqual is set so the search can drift across plateaus.
type HillClimbing struct {
	AcceptEqual bool
}

func (h HillClimbing) Accept(current, candidate float64) bool {
	if candidate > current {
		return true
	}
	return h.AcceptEqual && candidate == current
}

// AcceptorFunc adapts a plain function to the Acceptor interface.
type AcceptorFunc func(current, candidate float64) bool

func (f AcceptorFunc) Accept(current, candidate float64) bool { return f(current, candidate) }
