// CLAUDE:SUMMARY Shared import utilities: HTTP download with retries, ZIP extraction, .aff encoding sniffing, manifest writer, gob compilation.
package importer

import (
	"archive/zip"
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/lexnorm/pkg/lexicon"
	"github.com/hazyhaar/lexnorm/pkg/locale"
	"gopkg.in/yaml.v3"
)

// downloadFile downloads url to dest with retries and timeout, and returns
// the number of bytes written.
func downloadFile(ctx context.Context, url, dest string) (int64, error) {
	client := &http.Client{Timeout: 10 * time.Minute}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			// Client errors will not change on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break
			}
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			resp.Body.Close()
			return 0, fmt.Errorf("create file: %w", err)
		}

		n, copyErr := io.Copy(f, resp.Body)
		resp.Body.Close()
		closeErr := f.Close()

		if copyErr != nil {
			lastErr = copyErr
			continue
		}
		if closeErr != nil {
			return 0, closeErr
		}
		return n, nil
	}
	return 0, fmt.Errorf("download %s failed: %w", url, lastErr)
}

// unzipFile extracts the regular files of a ZIP archive into destDir,
// flattening paths, and returns the extracted file paths.
func unzipFile(src, destDir string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var paths []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))
		if err := extract(f, destPath); err != nil {
			return nil, err
		}
		paths = append(paths, destPath)
	}
	return paths, nil
}

func extract(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}

// readAffEncoding returns the encoding declared by the SET line of a
// Hunspell .aff file. Without one the file is ISO8859-1.
func readAffEncoding(path string) (locale.Encoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return locale.Encoding{}, fmt.Errorf("open aff: %w", err)
	}
	defer f.Close()

	// SET is plain ASCII whatever the file encoding, so raw lines are enough.
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var enc locale.Encoding
	for sc.Scan() {
		fields := strings.Fields(strings.TrimPrefix(sc.Text(), "\uFEFF"))
		if len(fields) >= 2 && fields[0] == "SET" {
			enc = locale.NewEncoding(fields[1])
			break
		}
	}
	if err := sc.Err(); err != nil {
		return locale.Encoding{}, fmt.Errorf("read aff: %w", err)
	}
	if _, err := enc.Codec(); err != nil {
		return locale.Encoding{}, fmt.Errorf("aff %s: %w", filepath.Base(path), err)
	}
	return enc, nil
}

// compile loads dictDir from its data file and writes data.gob next to it.
func compile(dictDir string) (int, error) {
	d, err := lexicon.LoadSource(dictDir)
	if err != nil {
		return 0, fmt.Errorf("compile: %w", err)
	}
	if err := lexicon.SaveGob(d.Entries, filepath.Join(dictDir, lexicon.GobFile)); err != nil {
		return 0, fmt.Errorf("compile: %w", err)
	}
	return len(d.Entries), nil
}

// writeManifest writes a Manifest as YAML to dir/manifest.yaml.
func writeManifest(dir string, m *lexicon.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return out.Close()
}

func versionStamp() string {
	return time.Now().UTC().Format("2006-01-02")
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
