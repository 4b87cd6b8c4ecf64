package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// Format selects the on-disk encoding of a module document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts yaml, yml or json.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("store: unsupported format %q", raw)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("store: cannot infer format of %q", path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yaml"
}

// Encode serialises module in format f.
func (f Format) Encode(module schema.Module) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(module, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("store: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(module); err != nil {
			return nil, fmt.Errorf("store: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("store: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("store: unsupported format %q", f)
	}
}

// Decode parses a module document in format f.
func (f Format) Decode(data []byte) (schema.Module, error) {
	var module schema.Module
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &module); err != nil {
			return schema.Module{}, fmt.Errorf("store: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &module); err != nil {
			return schema.Module{}, fmt.Errorf("store: decode yaml: %w", err)
		}
	default:
		return schema.Module{}, fmt.Errorf("store: unsupported format %q", f)
	}
	return module, nil
}
