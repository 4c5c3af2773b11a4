// CLAUDE:SUMMARY Manifest YAML schema describing a word list: locale, byte encoding, file layout and normalization.
package lexicon

import (
	"fmt"
	"os"

	"github.com/hazyhaar/lexnorm/pkg/locale"
	"gopkg.in/yaml.v3"
)

// Manifest describes a word list: its source, its locale and how to read it.
type Manifest struct {
	ID       string          `yaml:"id" json:"id"`
	Version  string          `yaml:"version" json:"version"`
	Locale   string          `yaml:"locale" json:"locale"`
	Encoding locale.Encoding `yaml:"encoding" json:"encoding"`
	Source   string          `yaml:"source" json:"source"`
	License  string          `yaml:"license" json:"license"`
	DataFile string          `yaml:"data_file" json:"data_file"`
	Format   FormatSpec      `yaml:"format" json:"-"`
}

// FormatSpec describes the data file layout.
type FormatSpec struct {
	Kind      string `yaml:"kind"`      // dic | list | csv
	Delimiter string `yaml:"delimiter"` // csv only
	HasHeader bool   `yaml:"has_header"`
	KeyColumn string `yaml:"key_column"`
	Normalize string `yaml:"normalize"` // none | lower | fold
	Decode    string `yaml:"decode"`    // strict | lossy
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	if m.DataFile == "" {
		m.DataFile = "words.dic"
	}
	if m.Format.Kind == "" {
		m.Format.Kind = "dic"
	}
	switch m.Format.Kind {
	case "dic", "list", "csv":
	default:
		return nil, fmt.Errorf("manifest %s: unknown format kind %q", path, m.Format.Kind)
	}
	switch m.Format.Decode {
	case "", "strict", "lossy":
	default:
		return nil, fmt.Errorf("manifest %s: unknown decode mode %q", path, m.Format.Decode)
	}
	return &m, nil
}
