package prediction

// Option applies a configuration option to the Enhanced predictor.
type Option func(*Enhanced)

// WithWeights replaces every signal weight. Non-positive weights keep the
// current value for that signal.
func WithWeights(w Weights) Option {
	return func(e *Enhanced) {
		for _, s := range Signals {
			if v := w.Of(s); v > 0 {
				e.weights = e.weights.with(s, v)
			}
		}
	}
}

// WithWeightsFromConfig sets weights from a configuration map keyed by signal
// name. Unknown names and non-positive weights are ignored.
func WithWeightsFromConfig(weights map[string]int) Option {
	return func(e *Enhanced) {
		for _, s := range Signals {
			if v, ok := weights[string(s)]; ok && v > 0 {
				e.weights = e.weights.with(s, v)
			}
		}
	}
}

// WithFallback sets the predictor consulted when the vote is tied.
func WithFallback(p Predictor) Option {
	return func(e *Enhanced) {
		if p != nil {
			e.fallback = p
		}
	}
}
