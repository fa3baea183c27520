package classifier

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DatasetSource describes one training template file. Lines containing
// a placeholder are expanded once per replacement value, in both the
// value's original casing and lower case.
type DatasetSource struct {
	Filename     string
	Class        string
	Replacements map[string][]string // placeholder -> values, e.g. "#resource#" -> keys
}

// DefaultSources returns the training sources used by the bot,
// parameterized with the current snapshot's resource keys and grid
// codes so the models learn the vocabulary actually in play.
func DefaultSources(keys, grids []string) []DatasetSource {
	return []DatasetSource{
		{
			Filename:     "train_resource.txt",
			Class:        ClassFindResource,
			Replacements: map[string][]string{"#resource#": keys},
		},
		{
			Filename: "train_verification_samples.txt",
			Class:    ClassChat,
		},
		{
			Filename:     "train_resource_by_grid.txt",
			Class:        ClassFindResource,
			Replacements: map[string][]string{"#grid#": grids},
		},
	}
}

// GenerateDataset reads the template files under dataDir and expands
// them into labeled samples.
func GenerateDataset(dataDir string, sources []DatasetSource) ([]Sample, error) {
	var samples []Sample

	for _, source := range sources {
		lines, err := readLines(filepath.Join(dataDir, source.Filename))
		if err != nil {
			return nil, fmt.Errorf("dataset source %s: %w", source.Filename, err)
		}

		for _, line := range lines {
			if line == "" {
				continue
			}
			if len(source.Replacements) == 0 {
				samples = append(samples, Sample{Text: line, Class: source.Class})
				continue
			}
			for placeholder, values := range source.Replacements {
				for _, value := range values {
					samples = append(samples,
						Sample{Text: strings.ReplaceAll(line, placeholder, value), Class: source.Class},
						Sample{Text: strings.ReplaceAll(line, placeholder, strings.ToLower(value)), Class: source.Class},
					)
				}
			}
		}
	}

	return samples, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r\n"))
	}
	return lines, scanner.Err()
}
