// Package importer reads a nested mission document, such as the output of
// "missionctl export", validates it, and flattens it into items ready to be
// stored in one batch.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of an import file. Anything else
// in the file, such as an export's orphans section, is ignored.
type ImportSchema struct {
	Missions []ItemImport `json:"missions" yaml:"missions"`
}

// ItemImport is one item with its children nested below it. ID is only a
// reference for dependencies within the file; stored items get fresh ids.
type ItemImport struct {
	ID             string       `json:"id,omitempty" yaml:"id,omitempty"`
	Title          string       `json:"title" yaml:"title"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty"`
	Level          string       `json:"level,omitempty" yaml:"level,omitempty"`
	Status         string       `json:"status,omitempty" yaml:"status,omitempty"`
	DeliverableURL string       `json:"deliverable_url,omitempty" yaml:"deliverable_url,omitempty"`
	StartDate      string       `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	DueDate        string       `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	StartTime      string       `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime        string       `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Dependencies   []string     `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Children       []ItemImport `json:"children,omitempty" yaml:"children,omitempty"`
}

// LoadImportSchema reads an import file. Files ending in .json are parsed
// as JSON, everything else as YAML.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return ParseImportSchema(data, format)
}

// ParseImportSchema decodes data as "json" or "yaml".
func ParseImportSchema(data []byte, format string) (*ImportSchema, error) {
	var schema ImportSchema
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &schema)
	case "yaml":
		err = yaml.Unmarshal(data, &schema)
	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
