package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed agents_db.json
var defaultDB []byte

// file is the on-disk layout: {"agents": [...]}.
type file struct {
	Agents []Agent `json:"agents" yaml:"agents"`
}

// LoadFile reads agent records from a JSON or YAML file. The format is
// picked from the extension; anything other than .yaml/.yml is read as JSON.
func LoadFile(path string) ([]Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data, path)
	default:
		return parseJSON(data, path)
	}
}

// Default returns the records of the catalog compiled into the binary.
func Default() ([]Agent, error) {
	return parseJSON(defaultDB, "embedded")
}

// Open loads path (or the embedded catalog when path is empty) and builds a Catalog.
func Open(path string) (*Catalog, error) {
	var (
		records []Agent
		err     error
	)
	if path == "" {
		records, err = Default()
	} else {
		records, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return New(records)
}

func parseJSON(data []byte, src string) ([]Agent, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", src, err)
	}
	return f.Agents, nil
}

func parseYAML(data []byte, src string) ([]Agent, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", src, err)
	}
	return f.Agents, nil
}
