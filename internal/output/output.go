// Package output renders query responses in the formats the CLI exposes.
package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format string

const (
	// FormatJSON renders indented JSON
	FormatJSON Format = "json"
	// FormatYAML renders YAML
	FormatYAML Format = "yaml"
	// FormatHuman renders a compact human-readable view
	FormatHuman Format = "human"
)

// HumanRenderer is implemented by responses that have a human-readable
// rendering. Responses without one fall back to JSON.
type HumanRenderer interface {
	RenderHuman() string
}

// Render formats a response according to the specified format.
func Render(resp interface{}, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(resp)
	case FormatYAML:
		return renderYAML(resp)
	case FormatHuman:
		if hr, ok := resp.(HumanRenderer); ok {
			return hr.RenderHuman(), nil
		}
		return renderJSON(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatHuman:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q (json, yaml, human)", s)
	}
}

func renderJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func renderYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(data), nil
}
