package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnmkit/sdkgen/internal/codegen/dump"
)

// ReadDump parses a dump.cs style text file. Its output directory is named
// after the file.
func ReadDump(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	res, err := dump.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Input{
		Name:        filepath.Base(path),
		Path:        path,
		Model:       res.Model,
		Diagnostics: res.Diagnostics,
	}, nil
}
