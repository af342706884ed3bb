package source

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

// Document is the exported form of a module's type table, as written by an
// external module reader. It can be stored as YAML, JSON or TOML.
type Document struct {
	Module string    `json:"module" yaml:"module" toml:"module"`
	Types  []DocType `json:"types" yaml:"types" toml:"types"`
}

type DocType struct {
	Name          string      `json:"name" yaml:"name" toml:"name"`
	Namespace     string      `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	Module        string      `json:"module,omitempty" yaml:"module,omitempty" toml:"module,omitempty"`
	Kind          string      `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Base          string      `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
	Modifiers     []string    `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	Sealed        bool        `json:"sealed,omitempty" yaml:"sealed,omitempty" toml:"sealed,omitempty"`
	Abstract      bool        `json:"abstract,omitempty" yaml:"abstract,omitempty" toml:"abstract,omitempty"`
	GenericParams []string    `json:"genericParams,omitempty" yaml:"genericParams,omitempty" toml:"genericParams,omitempty"`
	Underlying    string      `json:"underlying,omitempty" yaml:"underlying,omitempty" toml:"underlying,omitempty"`
	Fields        []DocField  `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	Methods       []DocMethod `json:"methods,omitempty" yaml:"methods,omitempty" toml:"methods,omitempty"`
}

type DocField struct {
	Name      string   `json:"name" yaml:"name" toml:"name"`
	Type      string   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	Static    bool     `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	Offset    string   `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty"`
	Literal   bool     `json:"literal,omitempty" yaml:"literal,omitempty" toml:"literal,omitempty"`
	Value     any      `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

type DocMethod struct {
	Name      string     `json:"name" yaml:"name" toml:"name"`
	Return    string     `json:"return,omitempty" yaml:"return,omitempty" toml:"return,omitempty"`
	Modifiers []string   `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	Static    bool       `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	Extern    bool       `json:"extern,omitempty" yaml:"extern,omitempty" toml:"extern,omitempty"`
	Offset    string     `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty"`
	Params    []DocParam `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

type DocParam struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
	Out  bool   `json:"out,omitempty" yaml:"out,omitempty" toml:"out,omitempty"`
}

// DecodeDocument decodes data in the given format ("yaml", "json" or
// "toml"; a leading dot is accepted).
func DecodeDocument(data []byte, format string) (*Document, error) {
	var doc Document
	var err error
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &doc)
	case "json":
		err = json.Unmarshal(data, &doc)
	case "toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: document format %q", ErrUnsupportedInput, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s document: %w", format, err)
	}
	return &doc, nil
}

// ReadDocument loads a model document. Its output directory is named after
// the document's module, falling back to the file name.
func ReadDocument(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := DecodeDocument(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(doc.Types) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	name := doc.Module
	if name == "" {
		name = filepath.Base(path)
	}
	return &Input{Name: name, Path: path, Model: doc.ToModel()}, nil
}

// ToModel converts the document into the unified model.
func (d *Document) ToModel() *model.Model {
	m := model.New()
	for i := range d.Types {
		m.Add(d.Types[i].toType(d.Module))
	}
	return m
}

func (dt *DocType) toType(module string) *model.Type {
	kind, _ := model.ParseKind(dt.Kind)
	t := &model.Type{
		Name:          common.CleanName(dt.Name),
		RawName:       dt.Name,
		Namespace:     dt.Namespace,
		Module:        module,
		Kind:          kind,
		Modifiers:     dt.Modifiers,
		Sealed:        dt.Sealed,
		Abstract:      dt.Abstract,
		GenericParams: dt.GenericParams,
	}
	if dt.Module != "" {
		t.Module = dt.Module
	}
	if kind == model.KindClass {
		t.BaseType = dt.Base
	}
	if dt.Underlying != "" {
		t.Underlying = model.ParseTypeRef(dt.Underlying)
	}

	for _, df := range dt.Fields {
		if kind == model.KindEnum && df.Name == "value__" {
			if t.Underlying == nil && df.Type != "" {
				t.Underlying = model.ParseTypeRef(df.Type)
			}
			continue
		}
		f := &model.Field{
			Name:      common.CleanName(df.Name),
			RawName:   df.Name,
			Modifiers: df.Modifiers,
			Static:    df.Static || df.Literal,
			Offset:    df.Offset,
			Literal:   df.Literal,
		}
		if df.Type != "" {
			f.Type = model.ParseTypeRef(df.Type)
		}
		if df.Value != nil {
			f.Value, f.RawValue = normalizeValue(df.Value)
		}
		t.Fields = append(t.Fields, f)
	}

	for _, dm := range dt.Methods {
		ret := dm.Return
		if ret == "" {
			ret = "void"
		}
		m := &model.Method{
			Name:      common.CleanName(model.BaseName(dm.Name)),
			RawName:   model.BaseName(dm.Name),
			Return:    model.ParseTypeRef(ret),
			Modifiers: dm.Modifiers,
			Static:    dm.Static,
			Extern:    dm.Extern,
			Offset:    dm.Offset,
		}
		m.Constructor = model.IsConstructorName(m.RawName) || m.Name == t.Name
		for _, dp := range dm.Params {
			m.Params = append(m.Params, &model.Parameter{
				Name: dp.Name,
				Type: model.ParseTypeRef(dp.Type),
				Out:  dp.Out,
			})
		}
		t.Methods = append(t.Methods, m)
	}
	return t
}

// normalizeValue maps decoded literal values onto the model's convention:
// int64 when integral, otherwise the raw text.
func normalizeValue(v any) (any, string) {
	switch x := v.(type) {
	case int:
		return int64(x), strconv.Itoa(x)
	case int64:
		return x, strconv.FormatInt(x, 10)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), strconv.FormatUint(x, 10)
		}
		return strconv.FormatUint(x, 10), strconv.FormatUint(x, 10)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x), strconv.FormatInt(int64(x), 10)
		}
		s := strconv.FormatFloat(x, 'g', -1, 64)
		return s, s
	case string:
		if n, err := strconv.ParseInt(x, 0, 64); err == nil {
			return n, x
		}
		return x, x
	default:
		s := fmt.Sprint(x)
		return s, s
	}
}
