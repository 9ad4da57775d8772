// Package data loads structured plugin data files (JSON, YAML or TOML) into
// generic maps.
package data

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/KomoriDev/go-ability/log"
)

// Format is a supported data file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	ErrNotFound          = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyContent      = errors.New("file content is empty")
	ErrNotMapping        = errors.New("top-level value is not a mapping")
)

// Loader reads data files from a filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader returns a Loader over fs. A nil fs means the OS filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

var osLoader = NewLoader(nil)

// Load reads the file at path from the OS filesystem. See (*Loader).Load.
func Load(path string) (map[string]any, error) {
	return osLoader.Load(path)
}

// FormatOf maps a file extension to its Format. Extensions are matched
// case-insensitively; "yml" and "yaml" are both YAML.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "json":
		return FormatJSON, nil
	case "yml", "yaml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q, must be json, yaml or toml", ErrUnsupportedFormat, ext)
	}
}

// Load reads and decodes the file at path. The format comes from the file
// extension. It fails with ErrNotFound when the file does not exist,
// ErrUnsupportedFormat for other extensions and ErrEmptyContent when the file
// decodes to nothing.
func (l *Loader) Load(path string) (map[string]any, error) {
	raw, err := afero.ReadFile(l.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	logger := log.L()
	logger.Debug().Str(log.FieldPath, path).Str(log.FieldFormat, string(format)).Msg("loading data file")

	out, err := Decode(format, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Decode parses raw as format into a generic map.
func Decode(format Format, raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyContent
	}

	var v any
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(raw, &v)
	case FormatYAML:
		err = yaml.Unmarshal(raw, &v)
	case FormatTOML:
		var m map[string]any
		err = toml.Unmarshal(raw, &m)
		if m != nil {
			v = m
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}

	if v == nil {
		return nil, ErrEmptyContent
	}
	if km, ok := v.(map[any]any); ok {
		v = stringKeys(km)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, v)
	}
	if len(m) == 0 {
		return nil, ErrEmptyContent
	}
	return m, nil
}

// stringKeys converts a YAML mapping with non-string keys (1: a) into a
// map keyed by each key's printed form.
func stringKeys(in map[any]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[fmt.Sprint(k)] = v
	}
	return out
}

// IsFile reports whether path names an existing regular file.
func (l *Loader) IsFile(path string) bool {
	info, err := l.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
