// Package prediction turns a trained model and a fixture into a single
// predicted outcome.
package prediction

import "github.com/okian/matchpredictor/internal/domain/model"

// Predictor predicts the outcome of a fixture. Implementations are
// deterministic and safe for concurrent use.
type Predictor interface {
	Predict(f model.Fixture) model.Prediction
}

// Alphabet is the tie-break predictor. It needs no training: the team whose
// name sorts first is predicted to win, identical names draw.
type Alphabet struct{}

// Predict implements Predictor.
func (Alphabet) Predict(f model.Fixture) model.Prediction {
	home, away := f.Home.Key(), f.Away.Key()
	switch {
	case home < away:
		return model.Prediction{Outcome: model.Home}
	case home > away:
		return model.Prediction{Outcome: model.Away}
	default:
		return model.Prediction{Outcome: model.Draw}
	}
}
