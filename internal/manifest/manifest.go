package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rana718/txgen/internal/batch"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const FileName = "manifest.yaml"

// Manifest records what a generation run produced.
type Manifest struct {
	RunID     string          `yaml:"run_id"`
	CreatedAt time.Time       `yaml:"created_at"`
	Format    string          `yaml:"format"`
	Options   batch.Options   `yaml:"options"`
	Files     []batch.Written `yaml:"files"`
}

func New(format string, opts batch.Options, files []batch.Written) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Format:    format,
		Options:   opts,
		Files:     files,
	}
}

// TotalRows sums the row counts of all files.
func (m *Manifest) TotalRows() int {
	total := 0
	for _, f := range m.Files {
		total += f.Rows
	}
	return total
}

// Write stores the manifest as dir/manifest.yaml and returns its path.
func (m *Manifest) Write(dir string) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
