// Package prompts loads the LLM prompt templates embedded with the binary.
// Each JSON file maps prompt keys to template strings.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	parsedMu sync.Mutex
	parsed   = make(map[string]map[string]string)
)

// Get returns the prompt template stored under key in the given embedded
// file (e.g. "content.json").
func Get(filename, key string) (string, error) {
	templates, err := load(filename)
	if err != nil {
		return "", err
	}

	tpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return tpl, nil
}

// Format substitutes {{.Key}} placeholders with the given values. Keys
// absent from data are left in place so missing substitutions show up in
// the rendered prompt.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the prompt keys available in a file.
func List(filename string) ([]string, error) {
	templates, err := load(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	return keys, nil
}

func load(filename string) (map[string]string, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()

	if templates, ok := parsed[filename]; ok {
		return templates, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	parsed[filename] = templates
	return templates, nil
}
