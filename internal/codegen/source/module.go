package source

import (
	"fmt"
	"path/filepath"

	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

// ModuleReader walks a compiled module's type table and produces the
// unified model directly. Implementations live outside this repository;
// the module metadata format is not decoded here.
type ModuleReader interface {
	ReadModule(path string) (*model.Model, error)
}

// ModuleReaderFunc adapts a function to ModuleReader.
type ModuleReaderFunc func(path string) (*model.Model, error)

func (f ModuleReaderFunc) ReadModule(path string) (*model.Model, error) { return f(path) }

type moduleSource struct {
	reader ModuleReader
}

func (s *moduleSource) Read(path string) (*Input, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoModuleReader)
	}
	m, err := s.reader.ReadModule(path)
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", path, err)
	}
	return &Input{Name: filepath.Base(path), Path: path, Model: m}, nil
}
