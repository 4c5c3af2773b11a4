package lexicon

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/hazyhaar/lexnorm/pkg/locale"
)

// Registry holds all loaded dictionaries and serves check queries.
type Registry struct {
	mu       sync.RWMutex
	dicts    map[string]*Dictionary
	dictsDir string
}

// NewRegistry creates a new empty registry for the given directory.
func NewRegistry(dictsDir string) *Registry {
	return &Registry{
		dicts:    make(map[string]*Dictionary),
		dictsDir: dictsDir,
	}
}

// Load scans the dicts directory and loads every dictionary. On error the
// previously loaded set is kept.
func (r *Registry) Load() error {
	entries, err := os.ReadDir(r.dictsDir)
	if err != nil {
		return fmt.Errorf("read dicts dir %s: %w", r.dictsDir, err)
	}

	newDicts := make(map[string]*Dictionary)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.dictsDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
			continue
		}
		d, err := LoadDictionary(dir)
		if err != nil {
			return fmt.Errorf("load dictionary %s: %w", entry.Name(), err)
		}
		if _, dup := newDicts[d.Manifest.ID]; dup {
			return fmt.Errorf("load dictionary %s: duplicate id %q", entry.Name(), d.Manifest.ID)
		}
		newDicts[d.Manifest.ID] = d
	}

	r.mu.Lock()
	r.dicts = newDicts
	r.mu.Unlock()
	return nil
}

// Reload reloads all dictionaries from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// Get returns the dictionary with the given ID.
func (r *Registry) Get(id string) (*Dictionary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dicts[id]
	return d, ok
}

// Match is a single dictionary hit for a checked word.
type Match struct {
	DictID string `json:"dict_id"`
	Locale string `json:"locale"`
	Form   string `json:"form"`
	Flags  string `json:"flags,omitempty"`
}

// CheckResult is the response for a single word.
type CheckResult struct {
	Word    string  `json:"word"`
	Casing  string  `json:"casing"`
	Correct bool    `json:"correct"`
	Matches []Match `json:"matches"`
}

// CheckOptions are optional filters for a check.
type CheckOptions struct {
	Dicts   []string
	Locales []string
}

func (o *CheckOptions) accept(d *Dictionary) bool {
	if o == nil {
		return true
	}
	if len(o.Dicts) > 0 && !slices.Contains(o.Dicts, d.Manifest.ID) {
		return false
	}
	if len(o.Locales) > 0 && !slices.Contains(o.Locales, d.Locale.Tag.String()) &&
		!slices.Contains(o.Locales, d.Manifest.Locale) {
		return false
	}
	return true
}

// Check looks a word up across all (or filtered) dictionaries.
// Dictionaries are iterated in sorted ID order for deterministic results.
func (r *Registry) Check(word string, opts *CheckOptions) *CheckResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := &CheckResult{
		Word:    word,
		Casing:  locale.ClassifyCasing(word).String(),
		Matches: []Match{},
	}

	for _, id := range r.sortedIDs() {
		d := r.dicts[id]
		if !opts.accept(d) {
			continue
		}
		form, ok := d.Check(word)
		if !ok {
			continue
		}
		entry, _ := d.Lookup(form)
		m := Match{
			DictID: d.Manifest.ID,
			Locale: d.Locale.Tag.String(),
			Form:   form,
		}
		if entry != nil {
			m.Flags = entry.Flags
		}
		result.Matches = append(result.Matches, m)
	}
	result.Correct = len(result.Matches) > 0
	return result
}

func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.dicts))
	for id := range r.dicts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DictInfo is the public metadata for a loaded dictionary.
type DictInfo struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Locale   string `json:"locale"`
	Encoding string `json:"encoding"`
	Source   string `json:"source"`
	License  string `json:"license"`
	Entries  int    `json:"entries"`
}

// ListDicts returns metadata for all loaded dictionaries, sorted by ID.
func (r *Registry) ListDicts() []DictInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]DictInfo, 0, len(r.dicts))
	for _, id := range r.sortedIDs() {
		d := r.dicts[id]
		infos = append(infos, DictInfo{
			ID:       d.Manifest.ID,
			Version:  d.Manifest.Version,
			Locale:   d.Locale.Tag.String(),
			Encoding: d.Locale.Encoding.String(),
			Source:   d.Manifest.Source,
			License:  d.Manifest.License,
			Entries:  len(d.Entries),
		})
	}
	return infos
}

// DictCount returns the number of loaded dictionaries.
func (r *Registry) DictCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dicts)
}

// TotalEntries returns the total number of entries across all dictionaries.
func (r *Registry) TotalEntries() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, d := range r.dicts {
		total += len(d.Entries)
	}
	return total
}
