package render

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed styles/*.yaml
var styleFiles embed.FS

// Styles maps annotation colors to CSS classes and carries renderer
// defaults. Loaded once from the embedded table.
type Styles struct {
	Colors   map[string]string `yaml:"colors"`
	Defaults struct {
		CalloutIcon  string `yaml:"callout_icon"`
		CodeLanguage string `yaml:"code_language"`
	} `yaml:"defaults"`
}

// LoadStyles reads the embedded style table.
func LoadStyles() (*Styles, error) {
	data, err := styleFiles.ReadFile("styles/styles.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read style table: %w", err)
	}

	var s Styles
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse style table: %w", err)
	}
	if s.Defaults.CalloutIcon == "" {
		s.Defaults.CalloutIcon = "💡"
	}
	if s.Defaults.CodeLanguage == "" {
		s.Defaults.CodeLanguage = "text"
	}
	return &s, nil
}

// ColorClass returns the CSS class for a color, or "" for the default
// color and anything unrecognized.
func (s *Styles) ColorClass(color string) string {
	if s == nil || color == "" || color == "default" {
		return ""
	}
	return s.Colors[color]
}
