package catalog

import (
	"os"
	"strings"

	"github.com/brizzai/httpmapper/internal/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type DescriptionUpdate struct {
	Method         string `yaml:"method"`
	NewDescription string `yaml:"new_description"`
}

type RouteDescription struct {
	Path    string              `yaml:"path"`
	Updates []DescriptionUpdate `yaml:"updates"`
}

type RouteSelection struct {
	Path    string   `yaml:"path"`
	Methods []string `yaml:"methods"`
}

// SelectionFile is the YAML document narrowing and annotating catalog routes
type SelectionFile struct {
	Descriptions []RouteDescription `yaml:"descriptions,omitempty"`
	Routes       []RouteSelection   `yaml:"routes,omitempty"`
}

// Selection filters routes and overrides their descriptions
type Selection struct {
	file *SelectionFile
}

// NewSelection creates a selection that keeps every route
func NewSelection() *Selection {
	return &Selection{file: &SelectionFile{}}
}

// Load reads a selection from a YAML file. An empty path keeps every route.
func (s *Selection) Load(filePath string) error {
	if filePath == "" {
		return nil
	}

	logger.Debug("Loading route selection", zap.String("file", filePath))
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return s.Parse(data)
}

// Parse reads a selection from YAML bytes
func (s *Selection) Parse(data []byte) error {
	var file SelectionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	s.file = &file
	return nil
}

// Includes reports whether the route with path and method is selected.
// Without route selections every route is included.
func (s *Selection) Includes(path, method string) bool {
	if s.file == nil || len(s.file.Routes) == 0 {
		return true
	}

	for _, selection := range s.file.Routes {
		if selection.Path != path {
			continue
		}
		for _, m := range selection.Methods {
			if strings.EqualFold(m, method) {
				return true
			}
		}
		return false
	}
	return false
}

// Description returns the overriding description for path and method, or original
func (s *Selection) Description(path, method, original string) string {
	if s.file == nil {
		return original
	}

	for _, desc := range s.file.Descriptions {
		if desc.Path != path {
			continue
		}
		for _, update := range desc.Updates {
			if strings.EqualFold(update.Method, method) {
				return update.NewDescription
			}
		}
		break
	}
	return original
}
