package classifier

import (
	"sync/atomic"

	"github.com/pfial/atlas-resource-bot/internal/logger"
	"github.com/pfial/atlas-resource-bot/internal/metrics"
)

// modelPair is one immutable generation of trained models. Retraining
// replaces the pair as a unit, never one half.
type modelPair struct {
	sequence Model // may be nil when no artifact is deployed
	linear   Model
}

// Ensemble fuses the two models: the sequence model's prediction is
// used when its confidence clears the threshold, otherwise the linear
// model decides. Every failure path degrades to ClassChat.
type Ensemble struct {
	pair      atomic.Pointer[modelPair]
	threshold float64
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewEnsemble creates an ensemble. Either model may be nil.
func NewEnsemble(sequence, linear Model, threshold float64, log *logger.Logger, m *metrics.Metrics) *Ensemble {
	e := &Ensemble{
		threshold: threshold,
		log:       log.WithModule("classifier"),
		metrics:   m,
	}
	e.pair.Store(&modelPair{sequence: sequence, linear: linear})
	return e
}

// SetModels atomically replaces both models as one unit. In-flight
// classifications finish against the pair they started with.
func (e *Ensemble) SetModels(sequence, linear Model) {
	e.pair.Store(&modelPair{sequence: sequence, linear: linear})
}

// Classify returns the intent class for the text.
func (e *Ensemble) Classify(text string) string {
	pair := e.pair.Load()

	if pair.sequence != nil {
		pred, err := pair.sequence.Predict(text)
		switch {
		case err != nil:
			e.log.WithError(err).Warn("Sequence model failed, falling back")
		case pred.Confidence >= e.threshold:
			e.count("sequence", pred.Class)
			return pred.Class
		default:
			e.log.WithFields(map[string]any{
				"class":      pred.Class,
				"confidence": pred.Confidence,
			}).Debug("Sequence model below threshold, consulting linear model")
		}
	}

	if pair.linear != nil {
		pred, err := pair.linear.Predict(text)
		if err == nil {
			e.count("linear", pred.Class)
			return pred.Class
		}
		e.log.WithError(err).Warn("Linear model failed")
	}

	e.count("fallback", ClassChat)
	return ClassChat
}

func (e *Ensemble) count(model, class string) {
	if e.metrics != nil {
		e.metrics.ClassificationsTotal.WithLabelValues(model, class).Inc()
	}
}
