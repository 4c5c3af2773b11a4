// CLAUDE:SUMMARY Gob serialization of compiled word lists, loaded ahead of the source data file.
package lexicon

import (
	"encoding/gob"
	"fmt"
	"os"
)

// loadGob replaces d.Entries with the gob-encoded map at path.
func (d *Dictionary) loadGob(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	entries := make(map[string]*Entry)
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return fmt.Errorf("decode gob: %w", err)
	}
	d.Entries = entries
	return nil
}

// SaveGob writes entries, already normalized, to path. Keys are stored as
// UTF-8 whatever the source encoding was.
func SaveGob(entries map[string]*Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(entries); err != nil {
		f.Close()
		return fmt.Errorf("encode gob: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close gob file: %w", err)
	}
	return nil
}
