package application

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of a record file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the record format from a file extension. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a record. Keys missing from the input keep their blank values.
func Decode(r io.Reader, format Format) (Record, error) {
	rec := NewRecord()

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&rec); err != nil && err != io.EOF {
			return Record{}, fmt.Errorf("decoding yaml record: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return Record{}, fmt.Errorf("decoding json record: %w", err)
		}
	default:
		return Record{}, fmt.Errorf("unsupported record format %q", format)
	}

	return rec, nil
}

// DecodeString is Decode over an in-memory JSON document.
func DecodeString(s string) (Record, error) {
	return Decode(strings.NewReader(s), FormatJSON)
}
