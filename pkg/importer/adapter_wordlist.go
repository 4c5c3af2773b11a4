// CLAUDE:SUMMARY Import adapter for plain UTF-8 word lists, one word per line.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hazyhaar/lexnorm/pkg/lexicon"
	"github.com/hazyhaar/lexnorm/pkg/locale"
)

func init() {
	Register(&wordListAdapter{
		dictID:  "en-words",
		locale:  "en_US",
		url:     "https://raw.githubusercontent.com/dwyl/english-words/master/words_alpha.txt",
		license: "Unlicense",
		desc:    "English words, lowercase alphabetic (dwyl/english-words)",
	})
}

type wordListAdapter struct {
	dictID, locale, url, license, desc string
}

func (a *wordListAdapter) ID() string          { return "list-" + a.dictID }
func (a *wordListAdapter) DictID() string      { return a.dictID }
func (a *wordListAdapter) Description() string { return a.desc }
func (a *wordListAdapter) DefaultURL() string  { return a.url }
func (a *wordListAdapter) License() string     { return a.license }
func (a *wordListAdapter) Locale() string      { return a.locale }

func (a *wordListAdapter) Import(ctx context.Context, sourceURL, outputDir string) (*Result, error) {
	dictDir := filepath.Join(outputDir, a.dictID)
	if err := ensureDir(dictDir); err != nil {
		return nil, err
	}
	tmp := filepath.Join(dictDir, "words.txt.part")
	size, err := downloadFile(ctx, sourceURL, tmp)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dictDir, "words.txt")); err != nil {
		return nil, err
	}

	enc := locale.NewEncoding("UTF-8")
	m := &lexicon.Manifest{
		ID:       a.dictID,
		Version:  versionStamp(),
		Locale:   a.locale,
		Encoding: enc,
		Source:   sourceURL,
		License:  a.license,
		DataFile: "words.txt",
		// Some upstream lists carry stray bytes; keep the rest of the list.
		Format: lexicon.FormatSpec{Kind: "list", Normalize: "none", Decode: "lossy"},
	}
	if err := writeManifest(dictDir, m); err != nil {
		return nil, err
	}
	entries, err := compile(dictDir)
	if err != nil {
		return nil, err
	}
	return &Result{DictID: a.dictID, Dir: dictDir, Encoding: enc.String(), Entries: entries, Bytes: size}, nil
}
