// Package config loads the optional type-map overlay that extends the
// built-in C++ type tables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/bnmkit/sdkgen/internal/codegen/generator/cpp"
)

// TypeMap adds or replaces primitive mappings and well-known base classes.
//
//	primitives:
//	  System.Half: uint16_t
//	  UnityEngine.Bounds: BNM::Structures::Unity::Bounds
//	bases:
//	  NetworkBehaviour: BNM::UnityEngine::MonoBehaviour
type TypeMap struct {
	Primitives map[string]string `json:"primitives,omitempty" yaml:"primitives,omitempty" toml:"primitives,omitempty"`
	Bases      map[string]string `json:"bases,omitempty" yaml:"bases,omitempty" toml:"bases,omitempty"`
}

// LoadTypeMap reads a type map, choosing the decoder from the file
// extension. Unknown extensions are decoded as YAML.
func LoadTypeMap(path string) (*TypeMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read type map: %w", err)
	}
	tm, err := DecodeTypeMap(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tm, nil
}

// DecodeTypeMap parses data in the given format ("json", "toml", or
// anything else for YAML).
func DecodeTypeMap(data []byte, format string) (*TypeMap, error) {
	var tm TypeMap
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &tm)
	case "toml":
		err = toml.Unmarshal(data, &tm)
	default:
		err = yaml.Unmarshal(data, &tm)
	}
	if err != nil {
		return nil, fmt.Errorf("decode type map: %w", err)
	}
	for k, v := range tm.Primitives {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("primitive mapping %q -> %q: empty name", k, v)
		}
	}
	return &tm, nil
}

// Apply returns opts with the overlay merged over its tables. A nil map
// leaves opts unchanged.
func (tm *TypeMap) Apply(opts cpp.Options) cpp.Options {
	if tm == nil {
		return opts
	}
	return opts.WithOverrides(tm.Primitives, tm.Bases)
}
