package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Adapter defines a word-list source: it downloads the upstream files,
// writes manifest.yaml plus the data file in its declared encoding, and
// compiles data.gob.
type Adapter interface {
	// ID returns the unique identifier of this adapter (e.g. "hunspell-fr-fr").
	ID() string
	// DictID returns the target dictionary ID (e.g. "fr-fr").
	DictID() string
	// Description returns a human-readable description.
	Description() string
	// DefaultURL returns the default source URL used for seeding the database.
	DefaultURL() string
	// License returns the license identifier for this source (e.g. "MPL-2.0").
	License() string
	// Locale returns the locale the word list is checked under (e.g. "tr_TR").
	Locale() string
	// Import downloads the source from sourceURL and writes the dictionary
	// into a subdirectory of outputDir named after DictID().
	Import(ctx context.Context, sourceURL, outputDir string) (*Result, error)
}

// Result summarizes one successful import.
type Result struct {
	DictID   string
	Dir      string
	Encoding string
	Entries  int
	Bytes    int64
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// Register adds an adapter to the global registry. It panics if the ID is
// already taken.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := adapters[a.ID()]; dup {
		panic("importer: Register called twice for " + a.ID())
	}
	adapters[a.ID()] = a
}

// Get returns a registered adapter by ID, or an error if not found.
func Get(id string) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown import source: %q", id)
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
