// Package manifest records what a generation run produced: every source
// processed and every file written, with content digests so two runs over
// the same input can be compared.
package manifest

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

type Manifest struct {
	RunID     string    `json:"runId"`
	Generator string    `json:"generator"`
	Version   string    `json:"version"`
	Created   time.Time `json:"created"`
	Sources   []Source  `json:"sources"`

	// PreviousRunID and Changed are filled by Compare.
	PreviousRunID string   `json:"previousRunId,omitempty"`
	Changed       []string `json:"changed,omitempty"`
}

// Source describes one processed input.
type Source struct {
	Input       string `json:"input"`
	Name        string `json:"name,omitempty"`
	Types       int    `json:"types"`
	Diagnostics int    `json:"diagnostics"`
	Failed      int    `json:"failed,omitempty"`
	Files       []File `json:"files,omitempty"`
	Error       string `json:"error,omitempty"`
}

// File is a generated file, path relative to the output directory.
type File struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest string `json:"blake2b"`
}

// New starts a manifest for a run.
func New(generator, version string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Generator: generator,
		Version:   version,
		Created:   time.Now().UTC(),
	}
}

// Add appends a source entry.
func (m *Manifest) Add(s Source) {
	m.Sources = append(m.Sources, s)
}

// Compare records prev as the previous run and lists, in manifest order,
// the files of m that are new or whose digest differs from prev.
func (m *Manifest) Compare(prev *Manifest) []string {
	m.PreviousRunID = prev.RunID
	before := map[string]string{}
	for _, s := range prev.Sources {
		for _, f := range s.Files {
			before[f.Path] = f.Digest
		}
	}
	m.Changed = nil
	for _, s := range m.Sources {
		for _, f := range s.Files {
			if d, ok := before[f.Path]; !ok || d != f.Digest {
				m.Changed = append(m.Changed, f.Path)
			}
		}
	}
	return m.Changed
}

// Digest returns the hex BLAKE2b-256 of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFiles digests each slash-separated path under root.
func HashFiles(root string, rels []string) ([]File, error) {
	files := make([]File, 0, len(rels))
	for _, rel := range rels {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return files, fmt.Errorf("hash %s: %w", rel, err)
		}
		files = append(files, File{Path: rel, Size: int64(len(data)), Digest: Digest(data)})
	}
	return files, nil
}

// Write stores the manifest as indented JSON at path.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Load reads a manifest written by Write.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
