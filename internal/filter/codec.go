package filter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/proplab/proplab/internal/domain"
)

// Parse decodes a single filter definition from YAML.
func Parse(data []byte) (domain.CustomFilter, error) {
	var f domain.CustomFilter
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.CustomFilter{}, fmt.Errorf("parse filter: %w", err)
	}
	return f, nil
}

// LoadFile reads and decodes a filter definition from a YAML file.
func LoadFile(path string) (domain.CustomFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CustomFilter{}, fmt.Errorf("read filter file: %w", err)
	}
	return Parse(data)
}
