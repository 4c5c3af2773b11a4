package lexicon

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/lexnorm/pkg/locale"
	"golang.org/x/text/transform"
)

// GobFile is the compiled form of a dictionary, next to its manifest.
const GobFile = "data.gob"

// Entry is a single word in a dictionary.
type Entry struct {
	Flags string `json:"flags,omitempty"`
}

// Dictionary is one loaded word list with its manifest and in-memory hashmap.
type Dictionary struct {
	Manifest  *Manifest         `json:"manifest"`
	Locale    locale.Locale     `json:"locale"`
	Dir       string            `json:"-"`
	Entries   map[string]*Entry `json:"-"`
	normalize Normalizer
}

// LoadDictionary reads a manifest.yaml and loads data from gob or the data file.
func LoadDictionary(dir string) (*Dictionary, error) {
	return load(dir, true)
}

// LoadSource is LoadDictionary without the compiled form: the data file is
// always read and decoded.
func LoadSource(dir string) (*Dictionary, error) {
	return load(dir, false)
}

func load(dir string, useGob bool) (*Dictionary, error) {
	manifest, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}
	loc, err := locale.ParseLocale(manifest.Locale)
	if err != nil {
		return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
	}
	// The manifest encoding overrides a codeset given in the locale name.
	if !manifest.Encoding.IsZero() {
		loc.Encoding = manifest.Encoding
	}

	d := &Dictionary{
		Manifest:  manifest,
		Locale:    loc,
		Dir:       dir,
		Entries:   make(map[string]*Entry),
		normalize: GetNormalizer(manifest.Format.Normalize, loc.Tag),
	}

	// Gob takes priority over the source file.
	gobPath := filepath.Join(dir, GobFile)
	if _, err := os.Stat(gobPath); err == nil && useGob {
		if err := d.loadGob(gobPath); err != nil {
			return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
		}
		return d, nil
	}

	if err := d.loadData(filepath.Join(dir, manifest.DataFile)); err != nil {
		return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
	}
	return d, nil
}

func (d *Dictionary) loadData(path string) error {
	codec, err := d.Locale.Codec()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Everything downstream sees valid UTF-8.
	reader := transform.NewReader(f, locale.NewDecoder(codec, d.Manifest.Format.Decode == "lossy"))

	switch d.Manifest.Format.Kind {
	case "csv":
		return d.loadCSV(reader)
	default:
		return d.loadLines(reader, d.Manifest.Format.Kind == "dic")
	}
}

// loadLines reads one word per line. In dic mode the leading word count is
// skipped and affix flags after '/' are kept on the entry.
func (d *Dictionary) loadLines(r io.Reader, dic bool) error {
	sc := bufio.NewScanner(r)
	first := true
	var collisions int
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			line = strings.TrimPrefix(line, "\uFEFF")
			if dic && isCount(line) {
				continue
			}
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, flags := line, ""
		if dic {
			// Morphological fields follow a tab.
			word, _, _ = strings.Cut(word, "\t")
			word, flags = splitFlags(word)
		}
		if d.add(strings.TrimSpace(word), flags) {
			collisions++
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read data: %w", err)
	}
	d.warnCollisions(collisions)
	return nil
}

func (d *Dictionary) loadCSV(reader io.Reader) error {
	r := csv.NewReader(reader)
	if delim := d.Manifest.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	var err error
	if d.Manifest.Format.HasHeader {
		header, err = r.Read()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	keyIdx := 0
	if col := d.Manifest.Format.KeyColumn; col != "" && header != nil {
		keyIdx = -1
		for i, h := range header {
			if h == col {
				keyIdx = i
				break
			}
		}
		if keyIdx < 0 {
			return fmt.Errorf("key column %q not found in header %v", col, header)
		}
	}

	var collisions int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if keyIdx >= len(record) {
			continue
		}
		if d.add(strings.TrimSpace(record[keyIdx]), "") {
			collisions++
		}
	}
	d.warnCollisions(collisions)
	return nil
}

// add stores word under its normalized key and reports a collision.
func (d *Dictionary) add(word, flags string) bool {
	key := d.normalize(word)
	if key == "" {
		return false
	}
	_, exists := d.Entries[key]
	d.Entries[key] = &Entry{Flags: flags}
	return exists
}

func (d *Dictionary) warnCollisions(n int) {
	if n > 0 {
		slog.Warn("key collisions after normalization", "dict", d.Manifest.ID, "collisions", n)
	}
}

// Lookup searches for a word in this dictionary after normalization.
func (d *Dictionary) Lookup(word string) (*Entry, bool) {
	e, ok := d.Entries[d.normalize(word)]
	return e, ok
}

// Check looks word up together with the casing variants a speller accepts
// for it, and returns the form that matched.
func (d *Dictionary) Check(word string) (string, bool) {
	for _, form := range d.Candidates(word) {
		if _, ok := d.Lookup(form); ok {
			return form, true
		}
	}
	return "", false
}

// Candidates lists the forms tried by Check, most specific first.
// "PARIS" may be "Paris" or "paris"; "Paris" may be "paris"; a lowercase
// or mixed-case word only matches itself.
func (d *Dictionary) Candidates(word string) []string {
	tag := d.Locale.Tag
	switch locale.ClassifyCasing(word) {
	case locale.InitCapital:
		return dedupe(word, locale.ToLower(word, tag))
	case locale.AllCapital:
		return dedupe(word, locale.ToTitle(word, tag), locale.ToLower(word, tag))
	default:
		return []string{word}
	}
}

// NormalizeWord applies this dictionary's normalizer to a word.
func (d *Dictionary) NormalizeWord(word string) string {
	return d.normalize(word)
}

func dedupe(forms ...string) []string {
	out := forms[:0]
	for _, f := range forms {
		dup := false
		for _, o := range out {
			if o == f {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, f)
		}
	}
	return out
}

func isCount(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// splitFlags splits "word/FLAGS" at the first unescaped slash. "\/" is a
// literal slash in the word.
func splitFlags(s string) (word, flags string) {
	if !strings.Contains(s, `\/`) {
		word, flags, _ = strings.Cut(s, "/")
		return word, flags
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '/':
			b.WriteByte('/')
			i++
		case s[i] == '/':
			return b.String(), s[i+1:]
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), ""
}
