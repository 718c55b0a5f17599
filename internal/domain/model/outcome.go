package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOutcome is returned when text does not name an outcome.
var ErrUnknownOutcome = errors.New("unknown outcome")

// Outcome is the result category of a fixture. The zero value is not a valid outcome.
type Outcome uint8

// Outcome values. Declaration order is also the order scores are reported in.
const (
	Home Outcome = iota + 1
	Away
	Draw
)

// Outcomes lists every valid outcome in declaration order.
var Outcomes = [...]Outcome{Home, Away, Draw}

// OutcomeFromGoals derives the outcome of a score line.
func OutcomeFromGoals(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return Home
	case homeGoals < awayGoals:
		return Away
	default:
		return Draw
	}
}

// Valid reports whether o is one of Home, Away or Draw.
func (o Outcome) Valid() bool {
	return o >= Home && o <= Draw
}

func (o Outcome) String() string {
	switch o {
	case Home:
		return "home"
	case Away:
		return "away"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// ParseOutcome parses "home", "away" or "draw" (case-insensitive).
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return Home, nil
	case "away":
		return Away, nil
	case "draw":
		return Draw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutcome, uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
