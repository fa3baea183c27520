// Package main trains the fallback intent classifier from the template
// dataset and the cached resource vocabulary.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pfial/atlas-resource-bot/internal/classifier"
	"github.com/pfial/atlas-resource-bot/internal/resource"
)

func main() {
	var (
		cacheDir = flag.String("cache", "./cache", "resource cache directory")
		dataDir  = flag.String("data", "./data", "training template directory")
		out      = flag.String("out", "./model/chat_classifier.json", "output model path")
		holdout  = flag.Float64("holdout", 0.2, "fraction of samples held out for the accuracy report")
		seed     = flag.Int64("seed", 42, "shuffle seed for the holdout split")
	)
	flag.Parse()

	if err := run(*cacheDir, *dataDir, *out, *holdout, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "train: %v\n", err)
		os.Exit(1)
	}
}

func run(cacheDir, dataDir, out string, holdout float64, seed int64) error {
	idx, err := resource.LoadCache(cacheDir)
	if err != nil {
		return fmt.Errorf("load resource cache: %w", err)
	}

	samples, err := classifier.GenerateDataset(dataDir, classifier.DefaultSources(idx.Keys(), idx.Grids))
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("dataset is empty")
	}
	fmt.Printf("Dataset: %d samples (%d resources, %d grids)\n", len(samples), len(idx.Keys()), len(idx.Grids))

	if holdout > 0 && holdout < 1 {
		reportAccuracy(samples, holdout, seed)
	}

	// The final model trains on everything.
	model := classifier.NewLinearModel()
	if err := model.Train(samples); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := model.Save(out); err != nil {
		return err
	}
	fmt.Printf("Model written to %s\n", out)
	return nil
}

// reportAccuracy trains on a shuffled split and prints holdout accuracy
// per class. Purely informational; a poor score means the templates
// need work, not that training failed.
func reportAccuracy(samples []classifier.Sample, holdout float64, seed int64) {
	shuffled := make([]classifier.Sample, len(samples))
	copy(shuffled, samples)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := len(shuffled) - int(float64(len(shuffled))*holdout)
	if cut <= 0 || cut >= len(shuffled) {
		return
	}
	train, test := shuffled[:cut], shuffled[cut:]

	model := classifier.NewLinearModel()
	if err := model.Train(train); err != nil {
		fmt.Printf("Holdout training failed: %v\n", err)
		return
	}

	correct := 0
	perClassTotal := make(map[string]int)
	perClassCorrect := make(map[string]int)
	for _, sample := range test {
		perClassTotal[sample.Class]++
		pred, err := model.Predict(sample.Text)
		if err != nil {
			continue
		}
		if pred.Class == sample.Class {
			correct++
			perClassCorrect[sample.Class]++
		}
	}

	fmt.Printf("Holdout accuracy: %.1f%% (%d/%d)\n",
		100*float64(correct)/float64(len(test)), correct, len(test))
	for class, total := range perClassTotal {
		fmt.Printf("  %-15s %.1f%% (%d/%d)\n",
			class, 100*float64(perClassCorrect[class])/float64(total), perClassCorrect[class], total)
	}
}
