package alerts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/lucrum/internal/models"
)

// LoadThresholds reads a threshold configuration from a YAML file. A
// missing path returns empty thresholds: every rule unconfigured, no
// alerts fire.
func LoadThresholds(path string) (models.Thresholds, error) {
	var thresholds models.Thresholds
	if path == "" {
		return thresholds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return thresholds, fmt.Errorf("failed to read thresholds file: %w", err)
	}

	if err := yaml.Unmarshal(data, &thresholds); err != nil {
		return thresholds, fmt.Errorf("failed to parse thresholds file: %w", err)
	}
	return thresholds, nil
}
