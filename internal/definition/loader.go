package definition

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/oncall-roster/internal/rota"
)

// LoadRotation reads and validates a schedule definition file. The format is
// selected by extension: .yaml/.yml decode as YAML, anything else as JSON.
func LoadRotation(path string) (rota.Rotation, error) {
	var doc Rotation
	if err := loadDocument(path, &doc); err != nil {
		return rota.Rotation{}, err
	}
	return doc.ToRota()
}

// LoadOverrides reads and validates an overrides definition file. The
// document must be a list; an empty list is valid.
func LoadOverrides(path string) ([]rota.Override, error) {
	var docs []Override
	if err := loadDocument(path, &docs); err != nil {
		return nil, err
	}

	overrides := make([]rota.Override, 0, len(docs))
	for i, doc := range docs {
		converted, err := doc.ToRota()
		if err != nil {
			return nil, fmt.Errorf("overrides[%d]: %w", i, err)
		}
		overrides = append(overrides, converted)
	}
	return overrides, nil
}

func loadDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("could not find file: %s", path)
		}
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
	}
	return nil
}
