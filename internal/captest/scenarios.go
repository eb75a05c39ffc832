package captest

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ScenarioFixture is one entry of a golden scenario file: a human-readable
// description of a testable property, loaded from YAML rather than
// hard-coded so a reviewer can read the scenario list without a Go toolchain.
type ScenarioFixture struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// LoadScenarios reads a golden scenario file (see testdata/scenarios.yaml)
// and returns its fixtures in file order.
func LoadScenarios(path string) ([]ScenarioFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("captest: read %s: %w", path, err)
	}
	var out []ScenarioFixture
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("captest: parse %s: %w", path, err)
	}
	return out, nil
}

// NewRunID mints a correlation id for one captest run's log lines, the same
// role uuid.New().String() plays for a session id elsewhere in the corpus.
func NewRunID() string {
	return uuid.New().String()
}
