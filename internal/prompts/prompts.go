package prompts

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed resume_system.yaml
var defaultFS embed.FS

const defaultFile = "resume_system.yaml"

// Template es el prompt de sistema externo. Se carga una vez al arrancar.
type Template struct {
	Instructions     string   `yaml:"instructions"`
	ProfilePreamble  string   `yaml:"profile_preamble"`
	ProfilePostamble string   `yaml:"profile_postamble"`
	DenyPhrases      []string `yaml:"deny_phrases"`
}

var ErrEmptyInstructions = errors.New("prompt template: instructions must not be empty")

// Load lee el template desde path; si path esta vacio usa el embebido.
func Load(path string) (Template, error) {
	data, err := read(path)
	if err != nil {
		return Template{}, err
	}
	return Parse(data)
}

func Parse(data []byte) (Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return Template{}, fmt.Errorf("prompt template: %w", err)
	}
	if strings.TrimSpace(tpl.Instructions) == "" {
		return Template{}, ErrEmptyInstructions
	}
	phrases := tpl.DenyPhrases[:0]
	for _, p := range tpl.DenyPhrases {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	tpl.DenyPhrases = phrases
	return tpl, nil
}

// Default devuelve el template embebido.
func Default() Template {
	tpl, err := Load("")
	if err != nil {
		panic(err)
	}
	return tpl
}

func read(path string) ([]byte, error) {
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("prompt template: %w", err)
		}
		return data, nil
	}
	return defaultFS.ReadFile(defaultFile)
}
