package classifier

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/bytedance/sonic"

	"github.com/pfial/atlas-resource-bot/internal/apperrors"
)

// laplaceAlpha smooths token counts so unseen tokens do not zero out a
// class score.
const laplaceAlpha = 1.0

// LinearModel is a TF-IDF weighted multinomial naive Bayes classifier.
// It is cheap to retrain in-process and serves as the fallback when the
// sequence model is unsure. Parameters are immutable after Train/Load.
type LinearModel struct {
	Classes     []string                      `json:"classes"`
	IDF         map[string]float64            `json:"idf"`
	Priors      map[string]float64            `json:"priors"`       // log priors
	TokenWeight map[string]map[string]float64 `json:"token_weight"` // class -> token -> tf-idf mass
	ClassTotal  map[string]float64            `json:"class_total"`  // class -> summed mass
	VocabSize   int                           `json:"vocab_size"`
}

// NewLinearModel creates an untrained model. Predict fails until Train
// or a Load populated the parameters.
func NewLinearModel() *LinearModel {
	return &LinearModel{
		IDF:         make(map[string]float64),
		Priors:      make(map[string]float64),
		TokenWeight: make(map[string]map[string]float64),
		ClassTotal:  make(map[string]float64),
	}
}

// Train fits the model on the labeled samples, replacing any previous
// parameters.
func (m *LinearModel) Train(samples []Sample) error {
	if len(samples) == 0 {
		return fmt.Errorf("train linear model: no samples")
	}

	docFreq := make(map[string]int)
	classCount := make(map[string]float64)
	tokenized := make([][]string, len(samples))

	for i, sample := range samples {
		tokens := tokenize(sample.Text)
		tokenized[i] = tokens
		classCount[sample.Class]++

		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	total := float64(len(samples))
	idf := make(map[string]float64, len(docFreq))
	for tok, df := range docFreq {
		idf[tok] = math.Log((1+total)/(1+float64(df))) + 1
	}

	classes := make([]string, 0, len(classCount))
	priors := make(map[string]float64, len(classCount))
	tokenWeight := make(map[string]map[string]float64, len(classCount))
	classTotal := make(map[string]float64, len(classCount))
	for class, count := range classCount {
		classes = append(classes, class)
		priors[class] = math.Log(count / total)
		tokenWeight[class] = make(map[string]float64)
	}
	sort.Strings(classes)

	for i, sample := range samples {
		for tok, tf := range termFrequencies(tokenized[i]) {
			weight := tf * idf[tok]
			tokenWeight[sample.Class][tok] += weight
			classTotal[sample.Class] += weight
		}
	}

	m.Classes = classes
	m.IDF = idf
	m.Priors = priors
	m.TokenWeight = tokenWeight
	m.ClassTotal = classTotal
	m.VocabSize = len(docFreq)
	return nil
}

// Predict returns the highest-scoring class. The confidence is a fixed
// 1.0: the linear model is the fallback of last resort and its answer
// is taken as-is.
func (m *LinearModel) Predict(text string) (Prediction, error) {
	if len(m.Classes) == 0 {
		return Prediction{}, apperrors.ErrModelUnavailable
	}

	frequencies := termFrequencies(tokenize(text))

	best := m.Classes[0]
	bestScore := math.Inf(-1)
	for _, class := range m.Classes {
		score := m.Priors[class]
		denominator := m.ClassTotal[class] + laplaceAlpha*float64(m.VocabSize)
		for tok, tf := range frequencies {
			idf, known := m.IDF[tok]
			if !known {
				continue
			}
			numerator := m.TokenWeight[class][tok] + laplaceAlpha
			score += tf * idf * math.Log(numerator/denominator)
		}
		if score > bestScore {
			bestScore = score
			best = class
		}
	}

	return Prediction{Class: best, Confidence: 1.0}, nil
}

// Save persists the model parameters as JSON.
func (m *LinearModel) Save(path string) error {
	data, err := sonic.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode linear model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write linear model: %w", err)
	}
	return nil
}

// LoadLinearModel restores a model persisted by Save.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read linear model: %w", err)
	}
	m := NewLinearModel()
	if err := sonic.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode linear model: %w", err)
	}
	return m, nil
}

// termFrequencies counts tokens normalized by document length.
func termFrequencies(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return nil
	}
	frequencies := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		frequencies[tok]++
	}
	n := float64(len(tokens))
	for tok := range frequencies {
		frequencies[tok] /= n
	}
	return frequencies
}
