// Package source turns metadata inputs into the unified type model. Each
// input kind is handled by a Reader selected by file extension.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
	"github.com/bnmkit/sdkgen/internal/codegen/dump"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

var (
	// ErrUnsupportedInput is returned for files whose extension has no reader.
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrNoModuleReader is returned for compiled modules when no
	// ModuleReader has been registered.
	ErrNoModuleReader = errors.New("no module reader registered")
	// ErrEmptyDocument is returned for model documents that declare no
	// types, such as config files or a previous run's manifest.
	ErrEmptyDocument = errors.New("document declares no types")
)

// Input is one loaded metadata source.
type Input struct {
	// Name is the output subdirectory the input's headers are written to.
	Name        string
	Path        string
	Model       *model.Model
	Diagnostics []dump.Diagnostic
}

// Reader loads a single input file.
type Reader interface {
	Read(path string) (*Input, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(path string) (*Input, error)

func (f ReaderFunc) Read(path string) (*Input, error) { return f(path) }

// Registry maps lower-case file extensions (with dot) to readers.
type Registry struct {
	readers map[string]Reader
	modules *moduleSource
}

// NewRegistry returns a registry with the dump and model-document readers
// registered, and a module slot for ".dll" that fails with
// ErrNoModuleReader until SetModuleReader is called.
func NewRegistry() *Registry {
	r := &Registry{
		readers: make(map[string]Reader),
		modules: &moduleSource{},
	}
	for _, ext := range []string{".cs", ".txt"} {
		r.Register(ext, ReaderFunc(ReadDump))
	}
	for _, ext := range []string{".yaml", ".yml", ".json", ".toml"} {
		r.Register(ext, ReaderFunc(ReadDocument))
	}
	r.Register(".dll", r.modules)
	return r
}

// Register binds ext to rd, replacing any previous reader.
func (r *Registry) Register(ext string, rd Reader) {
	r.readers[normalizeExt(ext)] = rd
}

// SetModuleReader installs the reader used for compiled modules.
func (r *Registry) SetModuleReader(mr ModuleReader) {
	r.modules.reader = mr
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	return common.SortedKeys(r.readers)
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.readers[normalizeExt(filepath.Ext(path))]
	return ok
}

// Read loads path with the reader registered for its extension.
func (r *Registry) Read(path string) (*Input, error) {
	ext := normalizeExt(filepath.Ext(path))
	rd, ok := r.readers[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w (extension %q)", path, ErrUnsupportedInput, ext)
	}
	in, err := rd.Read(path)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		in.Name = filepath.Base(path)
	}
	if in.Path == "" {
		in.Path = path
	}
	return in, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
