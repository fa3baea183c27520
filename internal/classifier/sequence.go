package classifier

import (
	"fmt"
	"math"
	"os"

	"github.com/bytedance/sonic"
	"github.com/tphakala/go-tflite"

	"github.com/pfial/atlas-resource-bot/internal/apperrors"
)

// Token ids reserved by the exported tokenizer.
const (
	padTokenID = 0
	oovTokenID = 1
)

// SequenceVocab describes the tokenizer the sequence model was trained
// with. It ships next to the .tflite artifact.
type SequenceVocab struct {
	Words          map[string]int `json:"words"`
	Classes        []string       `json:"classes"`
	SequenceLength int            `json:"sequence_length"`
}

// SequenceModel runs a trained recurrent network through the TensorFlow
// Lite runtime. Training happens offline; the bot only loads the
// exported artifact and runs inference. The interpreter is not safe for
// concurrent Invoke calls, so Predict serializes them.
type SequenceModel struct {
	model       *tflite.Model
	interpreter *tflite.Interpreter
	options     *tflite.InterpreterOptions
	vocab       SequenceVocab
	invoke      chan struct{} // semaphore, capacity 1
}

// LoadSequenceModel loads the .tflite artifact and its vocab file.
func LoadSequenceModel(modelPath, vocabPath string) (*SequenceModel, error) {
	vocabData, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	var vocab SequenceVocab
	if err := sonic.Unmarshal(vocabData, &vocab); err != nil {
		return nil, fmt.Errorf("decode vocab: %w", err)
	}
	if len(vocab.Classes) == 0 || vocab.SequenceLength <= 0 {
		return nil, fmt.Errorf("vocab %s: %w", vocabPath, apperrors.ErrModelUnavailable)
	}

	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, fmt.Errorf("model %s: %w", modelPath, apperrors.ErrModelUnavailable)
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(1)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("interpreter for %s: %w", modelPath, apperrors.ErrModelUnavailable)
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("allocate tensors for %s: %w", modelPath, apperrors.ErrModelUnavailable)
	}

	sem := make(chan struct{}, 1)
	sem <- struct{}{}
	return &SequenceModel{
		model:       model,
		interpreter: interpreter,
		options:     options,
		vocab:       vocab,
		invoke:      sem,
	}, nil
}

// Predict encodes the text with the training vocabulary, runs inference,
// and returns the argmax class with its softmax confidence.
func (s *SequenceModel) Predict(text string) (Prediction, error) {
	if s == nil || s.interpreter == nil {
		return Prediction{}, apperrors.ErrModelUnavailable
	}

	ids := s.encode(text)

	<-s.invoke
	defer func() { s.invoke <- struct{}{} }()

	input := s.interpreter.GetInputTensor(0)
	if input == nil {
		return Prediction{}, fmt.Errorf("sequence model: no input tensor")
	}

	switch input.Type() {
	case tflite.Float32:
		buf := input.Float32s()
		for i, id := range ids {
			buf[i] = float32(id)
		}
	case tflite.Int32:
		buf := input.Int32s()
		for i, id := range ids {
			buf[i] = int32(id)
		}
	default:
		return Prediction{}, fmt.Errorf("sequence model: unsupported input tensor type %v", input.Type())
	}

	if status := s.interpreter.Invoke(); status != tflite.OK {
		return Prediction{}, fmt.Errorf("sequence model: invoke failed")
	}

	output := s.interpreter.GetOutputTensor(0)
	if output == nil {
		return Prediction{}, fmt.Errorf("sequence model: no output tensor")
	}

	scores := make([]float32, output.Dim(output.NumDims()-1))
	copy(scores, output.Float32s())
	if len(scores) != len(s.vocab.Classes) {
		return Prediction{}, fmt.Errorf("sequence model: %d outputs for %d classes", len(scores), len(s.vocab.Classes))
	}

	probs := normalizeScores(scores)
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}

	return Prediction{Class: s.vocab.Classes[best], Confidence: probs[best]}, nil
}

// Close releases the interpreter and model.
func (s *SequenceModel) Close() {
	if s == nil {
		return
	}
	if s.interpreter != nil {
		s.interpreter.Delete()
		s.interpreter = nil
	}
	if s.options != nil {
		s.options.Delete()
		s.options = nil
	}
	if s.model != nil {
		s.model.Delete()
		s.model = nil
	}
}

// encode maps tokens to vocabulary ids, left-padded or truncated to the
// fixed sequence length.
func (s *SequenceModel) encode(text string) []int {
	tokens := tokenize(text)
	ids := make([]int, s.vocab.SequenceLength)

	if len(tokens) > s.vocab.SequenceLength {
		tokens = tokens[len(tokens)-s.vocab.SequenceLength:]
	}
	offset := s.vocab.SequenceLength - len(tokens)
	for i := range ids[:offset] {
		ids[i] = padTokenID
	}
	for i, tok := range tokens {
		id, known := s.vocab.Words[tok]
		if !known {
			id = oovTokenID
		}
		ids[offset+i] = id
	}
	return ids
}

// normalizeScores turns the output tensor into probabilities. Models
// exported with a softmax final layer already emit a distribution and
// pass through unchanged; raw logits get a softmax.
func normalizeScores(scores []float32) []float64 {
	var sum float64
	inRange := true
	for _, s := range scores {
		if s < 0 || s > 1 {
			inRange = false
			break
		}
		sum += float64(s)
	}
	if inRange && sum > 0.99 && sum < 1.01 {
		probs := make([]float64, len(scores))
		for i, s := range scores {
			probs[i] = float64(s)
		}
		return probs
	}
	return softmax(scores)
}

func softmax(scores []float32) []float64 {
	probs := make([]float64, len(scores))
	maxScore := float64(scores[0])
	for _, s := range scores[1:] {
		if float64(s) > maxScore {
			maxScore = float64(s)
		}
	}
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(float64(s) - maxScore)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
