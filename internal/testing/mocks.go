package testing

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bnmkit/sdkgen/internal/codegen/model"
	"github.com/bnmkit/sdkgen/internal/codegen/source"
)

// MockModuleReader serves a fixed set of types for every module path and
// records the paths it was asked for.
type MockModuleReader struct {
	Types []*model.Type
	Err   error

	mu    sync.Mutex
	paths []string
}

func (m *MockModuleReader) ReadModule(path string) (*model.Model, error) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := model.New()
	for _, t := range m.Types {
		cp := *t
		out.Add(&cp)
	}
	return out, nil
}

// Paths returns the module paths read so far.
func (m *MockModuleReader) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// CreateMockRegistry returns the default source registry with a mock module
// reader serving types.
func CreateMockRegistry(t *testing.T, types ...*model.Type) (*source.Registry, *MockModuleReader) {
	t.Helper()
	reader := &MockModuleReader{Types: types}
	reg := source.NewRegistry()
	reg.SetModuleReader(reader)
	return reg, reader
}

// WriteFiles writes name -> content pairs into a fresh temp dir and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
