package importer

import (
	"context"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
)

// Adapter converts a catalog source (CSV file, snapshot or manifest
// directory) into a snapshot directory that catalog.Load reads back.
type Adapter interface {
	// ID returns the unique identifier of this adapter (e.g. "csv-gob").
	ID() string
	// Description returns a human-readable description.
	Description() string
	// Import reads the catalog at sourcePath and writes the snapshot and
	// its manifest.yaml into outputDir.
	Import(ctx context.Context, sourcePath, outputDir string) (*Summary, error)
}

// Summary reports what an import wrote.
type Summary struct {
	Adapter  string `json:"adapter"`
	Output   string `json:"output"`
	Records  int    `json:"records"`
	Issues   int    `json:"issues"`
	DataFile string `json:"data_file"`
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapters[a.ID()] = a
}

// Get returns a registered adapter by ID, or an error if not found.
func Get(id string) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[id]
	if !ok {
		return nil, eris.Errorf("unknown import source: %q", id)
	}
	return a, nil
}

// All returns all registered adapters sorted by ID.
func All() []Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}
