package playback

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Step is one scripted playback attempt outcome.
type Step struct {
	Index int    `yaml:"index"`
	URL   string `yaml:"url"`
	OK    bool   `yaml:"ok"`
	Error string `yaml:"error"`
}

// Scenario is a scripted sequence of attempt outcomes used to exercise the
// resilience engine against real-world failure patterns.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", path)
	}

	for i, step := range sc.Steps {
		if !step.OK && step.Error == "" {
			return nil, fmt.Errorf("step %d: failed attempts need an error message", i)
		}
	}

	return &sc, nil
}
