package training

import "github.com/okian/matchpredictor/internal/domain/model"

// tally counts outcomes for one aggregation key and remembers the order in
// which each outcome was first observed.
type tally struct {
	counts [len(model.Outcomes) + 1]int
	order  []model.Outcome
}

func (t *tally) add(o model.Outcome) {
	if t.counts[o] == 0 {
		t.order = append(t.order, o)
	}
	t.counts[o]++
}

// majority returns the most frequent outcome. Among equally frequent outcomes
// the one first observed in input order wins.
func (t *tally) majority() model.Outcome {
	var best model.Outcome
	bestCount := 0
	for _, o := range t.order {
		if t.counts[o] > bestCount {
			best, bestCount = o, t.counts[o]
		}
	}
	return best
}

// mean accumulates a running arithmetic mean.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m *mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}
