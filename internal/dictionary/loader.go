package dictionary

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/ats-engine/internal/types"
)

//go:embed data/*.yaml
var dataFiles embed.FS

const (
	entitiesFile = "entities.yaml"
	keywordsFile = "keywords.yaml"
	qualityFile  = "quality.yaml"
	metricsFile  = "metrics.yaml"
)

// cache holds built dictionaries keyed by override directory ("" is embedded)
var (
	cache   = make(map[string]*Dictionary)
	cacheMu sync.RWMutex
)

// Default returns the dictionary built from the embedded tables.
func Default() (*Dictionary, error) {
	return Load("")
}

// MustDefault returns the embedded dictionary, panicking if it cannot be built.
// Use this for package-level initialization and tests.
func MustDefault() *Dictionary {
	d, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load dictionary: %v", err))
	}
	return d
}

// Load builds a dictionary, reading each table from dir when present there and
// from the embedded copy otherwise. An empty dir uses only embedded tables.
func Load(dir string) (*Dictionary, error) {
	cacheMu.RLock()
	if d, exists := cache[dir]; exists {
		cacheMu.RUnlock()
		return d, nil
	}
	cacheMu.RUnlock()

	var entities EntityRules
	if err := decodeFile(dir, entitiesFile, &entities); err != nil {
		return nil, err
	}
	var keywords KeywordRules
	if err := decodeFile(dir, keywordsFile, &keywords); err != nil {
		return nil, err
	}
	var quality QualityRules
	if err := decodeFile(dir, qualityFile, &quality); err != nil {
		return nil, err
	}
	templates := make(map[types.RoleCategory][]MetricTemplate)
	if err := decodeFile(dir, metricsFile, &templates); err != nil {
		return nil, err
	}

	d, err := Build(entities, keywords, quality, templates)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[dir] = d
	cacheMu.Unlock()

	return d, nil
}

// ClearCache drops every built dictionary. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]*Dictionary)
	cacheMu.Unlock()
}

func decodeFile(dir, name string, out any) error {
	data, err := readFile(dir, name)
	if err != nil {
		return &Error{Table: name, Message: "failed to read rule file", Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &Error{Table: name, Message: "failed to parse rule file", Err: err}
	}
	return nil
}

func readFile(dir, name string) ([]byte, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return dataFiles.ReadFile("data/" + name)
}
