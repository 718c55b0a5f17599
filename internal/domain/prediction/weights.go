package prediction

// Signal names a voting heuristic.
type Signal string

// Voting signals in the order they are evaluated.
const (
	SignalPair     Signal = "pair"
	SignalHome     Signal = "home"
	SignalAway     Signal = "away"
	SignalWinRate  Signal = "win_rate"
	SignalGoalDiff Signal = "goal_diff"
)

// Signals lists every signal in evaluation order.
var Signals = [...]Signal{SignalPair, SignalHome, SignalAway, SignalWinRate, SignalGoalDiff}

// Weights holds the vote weight of each signal.
type Weights struct {
	Pair     int `json:"pair"`
	Home     int `json:"home"`
	Away     int `json:"away"`
	WinRate  int `json:"win_rate"`
	GoalDiff int `json:"goal_diff"`
}

// DefaultWeights returns the standard weighting: an exact pairing counts
// more than a single side's record, and form comparisons count least.
func DefaultWeights() Weights {
	return Weights{Pair: 3, Home: 2, Away: 2, WinRate: 1, GoalDiff: 1}
}

// Of returns the weight of s.
func (w Weights) Of(s Signal) int {
	switch s {
	case SignalPair:
		return w.Pair
	case SignalHome:
		return w.Home
	case SignalAway:
		return w.Away
	case SignalWinRate:
		return w.WinRate
	case SignalGoalDiff:
		return w.GoalDiff
	default:
		return 0
	}
}

// with returns a copy of w with s set to weight.
func (w Weights) with(s Signal, weight int) Weights {
	switch s {
	case SignalPair:
		w.Pair = weight
	case SignalHome:
		w.Home = weight
	case SignalAway:
		w.Away = weight
	case SignalWinRate:
		w.WinRate = weight
	case SignalGoalDiff:
		w.GoalDiff = weight
	}
	return w
}
