package tasks

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Template is a standard TNA step
type Template struct {
	Name        string `yaml:"name"`
	Responsible string `yaml:"responsible"`
	Days        int    `yaml:"days"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// SeedTaskNames are the tasks every new order starts with
var SeedTaskNames = []string{"Order Confirmation", "Fabric Sourcing"}

var (
	catalogueOnce sync.Once
	catalogue     []Template
	catalogueErr  error
)

// ParseTemplates decodes a template catalogue
func ParseTemplates(data []byte) ([]Template, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse task templates: %w", err)
	}
	for i, t := range f.Templates {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("task template %d has no name", i)
		}
	}
	return f.Templates, nil
}

// Templates returns the built-in catalogue
func Templates() []Template {
	catalogueOnce.Do(func() {
		catalogue, catalogueErr = ParseTemplates(templatesYAML)
	})
	if catalogueErr != nil {
		panic(catalogueErr)
	}
	out := make([]Template, len(catalogue))
	copy(out, catalogue)
	return out
}

// LookupTemplate finds a template by case-insensitive name
func LookupTemplate(name string) (Template, bool) {
	for _, t := range Templates() {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Template{}, false
}
