// Package generator drives a generation run: it resolves the input path,
// loads every recognised file through the source registry, and emits BNM
// headers for each into its own output subdirectory.
package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
	"github.com/bnmkit/sdkgen/internal/codegen/generator/cpp"
	"github.com/bnmkit/sdkgen/internal/codegen/manifest"
	"github.com/bnmkit/sdkgen/internal/codegen/source"
	"github.com/bnmkit/sdkgen/internal/log"
)

var (
	// ErrNoInputs is returned when a directory holds no recognised input files.
	ErrNoInputs = errors.New("no recognised input files")
	// ErrUnsafeClean is returned when cleaning the output directory would
	// delete the inputs, the working directory or a filesystem root.
	ErrUnsafeClean = errors.New("refusing to clean output directory")
)

// Options controls a generation run.
type Options struct {
	// Clean removes the output directory before generating.
	Clean bool
	// ResetOverloadsPerFile scopes overload numbering to a single input
	// instead of the whole run.
	ResetOverloadsPerFile bool
	Cpp                   cpp.Options
}

type Generator struct {
	outputDir string
	logger    *slog.Logger
	registry  *source.Registry
	opts      Options
	overloads *cpp.OverloadTable
	diag      log.DiagLogger
}

// New creates a generator writing below outputDir. A nil registry gets the
// default one.
func New(outputDir string, logger *slog.Logger, registry *source.Registry, opts Options) *Generator {
	if registry == nil {
		registry = source.NewRegistry()
	}
	if opts.Cpp.Primitives == nil {
		defaults := cpp.DefaultOptions()
		defaults.ModuleNamespace = opts.Cpp.ModuleNamespace
		if opts.Cpp.Include != "" {
			defaults.Include = opts.Cpp.Include
		}
		opts.Cpp = defaults
	}
	if opts.Cpp.Include == "" {
		opts.Cpp.Include = cpp.DefaultInclude
	}
	return &Generator{
		outputDir: outputDir,
		logger:    logger,
		registry:  registry,
		opts:      opts,
		overloads: cpp.NewOverloadTable(),
		diag:      log.NewDiag(nil),
	}
}

// SetDiagLogger routes skipped dump lines to d in addition to the debug log.
func (g *Generator) SetDiagLogger(d log.DiagLogger) {
	if d == nil {
		d = log.NewDiag(nil)
	}
	g.diag = d
}

// Inputs resolves path to the list of files to process. Directories are
// scanned non-recursively and only registered extensions are kept.
func (g *Generator) Inputs(path string) ([]string, error) {
	files, _, err := g.resolve(path)
	return files, err
}

func (g *Generator) resolve(path string) (files []string, scanned bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("resolve input: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, false, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, true, fmt.Errorf("read input directory %s: %w", path, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == manifest.FileName {
			continue
		}
		if !g.registry.Supports(entry.Name()) {
			g.logger.Debug("Skipping unrecognised file", "file", entry.Name())
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	if len(files) == 0 {
		return nil, true, fmt.Errorf("%s: %w (supported: %v)", path, ErrNoInputs, g.registry.Extensions())
	}
	return files, true, nil
}

// Run generates headers for every input under path and writes the run
// manifest. Per-file failures are logged and recorded in the manifest; only
// an unresolvable path or an unusable output directory fail the run.
func (g *Generator) Run(path string) (*manifest.Manifest, error) {
	files, scanned, err := g.resolve(path)
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(g.outputDir, manifest.FileName)
	prev, err := manifest.Load(manifestPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			g.logger.Warn("Ignoring previous manifest", "path", manifestPath, "error", err)
		}
		prev = nil
	}

	if g.opts.Clean {
		if err := checkClean(g.outputDir, path); err != nil {
			g.logger.Error("Output directory cannot be cleaned", "dir", g.outputDir, "input", path, "error", err)
			return nil, err
		}
		g.logger.Debug("Cleaning output directory", "dir", g.outputDir)
		if err := os.RemoveAll(g.outputDir); err != nil {
			return nil, fmt.Errorf("clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	version, err := common.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	man := manifest.New("sdkgen", version)

	var names []string
	for _, file := range files {
		src, err := g.GenerateFile(file)
		if scanned && errors.Is(err, source.ErrEmptyDocument) {
			g.logger.Info("Skipping document without types", "input", file)
			continue
		}
		if err != nil {
			g.logger.Error("Failed to generate SDK", "input", file, "error", err)
			src.Error = err.Error()
		} else {
			names = append(names, src.Name)
		}
		man.Add(src)
	}

	if len(names) > 0 {
		if err := common.GenerateReadme(g.logger, g.outputDir, g.opts.Cpp.Include, names); err != nil {
			g.logger.Warn("Failed to write README", "error", err)
		}
	}

	if prev != nil {
		changed := man.Compare(prev)
		g.logger.Info("Compared with previous run", "previous", prev.RunID, "changed", len(changed))
	}

	if err := man.Write(manifestPath); err != nil {
		return man, err
	}
	g.logger.Info("SDK generation complete", "inputs", len(files), "output", g.outputDir, "manifest", manifestPath)
	return man, nil
}

// checkClean rejects output directories whose removal would take the
// input, the working directory or a filesystem root with it.
func checkClean(outputDir, input string) error {
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	in, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}
	out, in = resolveLinks(out), resolveLinks(in)

	if filepath.Dir(out) == out {
		return fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeClean, out)
	}
	if wd, err := os.Getwd(); err == nil && resolveLinks(wd) == out {
		return fmt.Errorf("%w: %s is the working directory", ErrUnsafeClean, out)
	}
	if rel, err := filepath.Rel(out, in); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s contains the input %s", ErrUnsafeClean, out, in)
	}
	return nil
}

// resolveLinks follows symlinks when the path exists.
func resolveLinks(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}

// GenerateFile loads one input and emits its headers into
// <output>/<source name>. The returned Source is filled in as far as the
// run got, even on error.
func (g *Generator) GenerateFile(path string) (manifest.Source, error) {
	src := manifest.Source{Input: path}
	if g.opts.ResetOverloadsPerFile {
		g.overloads.Reset()
	}

	g.logger.Info("Generating SDK", "input", filepath.Base(path))
	in, err := g.registry.Read(path)
	if err != nil {
		return src, err
	}
	src.Name = common.FileName(in.Name)
	src.Types = in.Model.Len()
	src.Diagnostics = len(in.Diagnostics)
	for _, d := range in.Diagnostics {
		g.logger.Debug("Skipped dump line", "input", in.Name, "line", d.Line, "reason", d.Reason, "text", d.Text)
		g.diag.Log(in.Name, d.Line, d.Reason, d.Text)
	}
	if len(in.Diagnostics) > 0 {
		g.logger.Warn("Some dump lines were skipped", "input", in.Name, "count", len(in.Diagnostics))
	}

	outDir := filepath.Join(g.outputDir, src.Name)
	res, err := cpp.Generate(g.logger, outDir, in.Model, g.opts.Cpp, g.overloads)
	if err != nil {
		return src, err
	}
	src.Failed = res.Failed

	var rels []string
	for _, group := range [][]string{res.Aggregates, res.Types} {
		for _, rel := range group {
			rels = append(rels, src.Name+"/"+rel)
		}
	}
	src.Files, err = manifest.HashFiles(g.outputDir, rels)
	if err != nil {
		return src, err
	}
	return src, nil
}
