package cpp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

// IncludesDir is the subdirectory per-type headers are written to.
const IncludesDir = "Includes"

// Result lists what a Generate call wrote, relative to its output directory.
type Result struct {
	Types      []string
	Aggregates []string
	Failed     int
}

// Generate writes one header per type of m under outputDir plus one
// aggregation header per namespace. Aggregation headers are appended to,
// never truncated; clearing stale output is the caller's job. A failure to
// write one type is logged and does not stop the others.
func Generate(logger *slog.Logger, outputDir string, m *model.Model, opts Options, overloads *OverloadTable) (*Result, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", outputDir, err)
	}

	em := NewEmitter(m, opts, overloads)
	res := &Result{}
	aggregates := map[string]bool{}

	for _, t := range m.All() {
		rel, err := em.writeType(outputDir, t)
		if err != nil {
			logger.Error("Failed to write type header", "type", t.FullName(), "error", err)
			res.Failed++
			continue
		}
		res.Types = append(res.Types, rel)

		agg := aggregateName(t)
		if err := appendInclude(filepath.Join(outputDir, agg), rel); err != nil {
			logger.Error("Failed to update namespace header", "file", agg, "error", err)
			res.Failed++
			continue
		}
		if !aggregates[agg] {
			aggregates[agg] = true
			res.Aggregates = append(res.Aggregates, agg)
		}
		logger.Log(context.Background(), levelTrace, "Generated type header", "type", t.FullName(), "file", rel)
	}

	logger.Info("Generated C++ headers", "dir", outputDir, "types", len(res.Types), "namespaces", len(res.Aggregates), "failed", res.Failed)
	return res, nil
}

// levelTrace matches the trace level registered by the log package.
const levelTrace = slog.LevelDebug - 4

// TypePath returns the header path of t relative to the output directory,
// using forward slashes.
func TypePath(t *model.Type) string {
	parts := []string{IncludesDir}
	if !t.IsGlobal() {
		for _, seg := range strings.Split(t.Namespace, ".") {
			if seg = common.FileName(seg); seg != "" {
				parts = append(parts, seg)
			}
		}
	}
	parts = append(parts, common.FileName(t.Name)+".h")
	return strings.Join(parts, "/")
}

func aggregateName(t *model.Type) string {
	if t.IsGlobal() {
		return model.GlobalNamespace + ".h"
	}
	return common.FileName(t.Namespace) + ".h"
}

func (e *Emitter) writeType(outputDir string, t *model.Type) (string, error) {
	var buf bytes.Buffer
	if err := e.EmitType(&buf, t); err != nil {
		return "", err
	}

	rel := TypePath(t)
	path := filepath.Join(outputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", rel, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", rel, err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, f.Close()
}

func appendInclude(path, rel string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "#include \"%s\"\n", rel); err != nil {
		return fmt.Errorf("append to %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
