// CLAUDE:SUMMARY Import adapter for Hunspell .dic/.aff pairs; the .aff SET line declares the byte encoding kept in the manifest.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/lexnorm/pkg/lexicon"
)

const libreOfficeDicts = "https://raw.githubusercontent.com/LibreOffice/dictionaries/master/"

func init() {
	for _, a := range []*hunspellAdapter{
		{dictID: "en-us", locale: "en_US", path: "en/en_US.dic", license: "SCOWL", desc: "Hunspell en_US (SCOWL)"},
		{dictID: "fr-fr", locale: "fr_FR", path: "fr_FR/fr.dic", license: "MPL-2.0", desc: "Hunspell fr_FR (Grammalecte)"},
		{dictID: "nl-nl", locale: "nl_NL", path: "nl_NL/nl_NL.dic", license: "BSD-3-Clause", desc: "Hunspell nl_NL (OpenTaal)"},
		{dictID: "tr-tr", locale: "tr_TR", path: "tr_TR/tr_TR.dic", license: "MPL-2.0", desc: "Hunspell tr_TR"},
		{dictID: "el-gr", locale: "el_GR", path: "el_GR/el_GR.dic", license: "MPL-1.1", desc: "Hunspell el_GR"},
		{dictID: "ru-ru", locale: "ru_RU", path: "ru_RU/ru_RU.dic", license: "LGPL", desc: "Hunspell ru_RU (AOT)"},
	} {
		Register(a)
	}
}

// hunspellAdapter fetches a .dic file and its .aff sibling, either as two
// plain files or from a .oxt/.zip extension archive.
type hunspellAdapter struct {
	dictID, locale, path, license, desc string
}

func (a *hunspellAdapter) ID() string          { return "hunspell-" + a.dictID }
func (a *hunspellAdapter) DictID() string      { return a.dictID }
func (a *hunspellAdapter) Description() string { return a.desc }
func (a *hunspellAdapter) DefaultURL() string  { return libreOfficeDicts + a.path }
func (a *hunspellAdapter) License() string     { return a.license }
func (a *hunspellAdapter) Locale() string      { return a.locale }

func (a *hunspellAdapter) Import(ctx context.Context, sourceURL, outputDir string) (*Result, error) {
	dlDir := filepath.Join(outputDir, "_download", a.dictID)
	if err := ensureDir(dlDir); err != nil {
		return nil, err
	}
	defer os.RemoveAll(dlDir)

	dicPath, affPath, size, err := fetchHunspell(ctx, sourceURL, dlDir)
	if err != nil {
		return nil, err
	}
	enc, err := readAffEncoding(affPath)
	if err != nil {
		return nil, err
	}

	dictDir := filepath.Join(outputDir, a.dictID)
	if err := ensureDir(dictDir); err != nil {
		return nil, err
	}
	// The word list keeps its upstream bytes; decoding happens on load.
	if err := copyFile(dicPath, filepath.Join(dictDir, "words.dic")); err != nil {
		return nil, err
	}
	m := &lexicon.Manifest{
		ID:       a.dictID,
		Version:  versionStamp(),
		Locale:   a.locale,
		Encoding: enc,
		Source:   sourceURL,
		License:  a.license,
		DataFile: "words.dic",
		Format:   lexicon.FormatSpec{Kind: "dic", Normalize: "none", Decode: "strict"},
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

// fetchHunspell downloads the .dic and .aff for sourceURL into dir and
// returns their paths and the number of bytes fetched.
func fetchHunspell(ctx context.Context, sourceURL, dir string) (dic, aff string, size int64, err error) {
	lower := strings.ToLower(sourceURL)
	if strings.HasSuffix(lower, ".oxt") || strings.HasSuffix(lower, ".zip") {
		archive := filepath.Join(dir, "ext.zip")
		if size, err = downloadFile(ctx, sourceURL, archive); err != nil {
			return "", "", 0, fmt.Errorf("download: %w", err)
		}
		files, err := unzipFile(archive, dir)
		if err != nil {
			return "", "", 0, fmt.Errorf("unzip: %w", err)
		}
		for _, f := range files {
			switch strings.ToLower(filepath.Ext(f)) {
			case ".dic":
				if dic == "" {
					dic = f
				}
			case ".aff":
				if aff == "" {
					aff = f
				}
			}
		}
		if dic == "" || aff == "" {
			return "", "", 0, fmt.Errorf("archive %s has no .dic/.aff pair", sourceURL)
		}
		return dic, aff, size, nil
	}

	if !strings.HasSuffix(lower, ".dic") {
		return "", "", 0, fmt.Errorf("source %s is neither a .dic nor an extension archive", sourceURL)
	}
	dic, aff = filepath.Join(dir, "words.dic"), filepath.Join(dir, "words.aff")
	n, err := downloadFile(ctx, sourceURL, dic)
	if err != nil {
		return "", "", 0, fmt.Errorf("download dic: %w", err)
	}
	m, err := downloadFile(ctx, affURL(sourceURL), aff)
	if err != nil {
		return "", "", 0, fmt.Errorf("download aff: %w", err)
	}
	return dic, aff, n + m, nil
}

// affURL returns the affix file published next to a plain .dic URL, or ""
// when the URL does not name a .dic file.
func affURL(dicURL string) string {
	if !strings.HasSuffix(strings.ToLower(dicURL), ".dic") {
		return ""
	}
	return dicURL[:len(dicURL)-len(".dic")] + ".aff"
}
