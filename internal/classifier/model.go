// Package classifier decides what a chat message wants. It combines a
// high-capacity sequence model with a lightweight linear fallback model
// under a confidence threshold.
package classifier

// Intent classes. The set is open: the router ignores classes it does
// not know how to serve.
const (
	ClassChat         = "chat"
	ClassFindResource = "find_resource"
)

// Prediction is one model's answer for one text.
type Prediction struct {
	Class      string
	Confidence float64 // in [0,1]
}

// Model maps text to a predicted class with a confidence. Models whose
// native output has no confidence report a fixed 1.0 so the fusion rule
// stays uniform.
type Model interface {
	Predict(text string) (Prediction, error)
}

// Sample is one labeled training example.
type Sample struct {
	Text  string
	Class string
}
