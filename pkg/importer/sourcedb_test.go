package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakeAdapter implements Adapter for seeding and run tests.
type fakeAdapter struct {
	id, dictID, desc, url, license, locale string
	err                                    error
}

func (f *fakeAdapter) ID() string          { return f.id }
func (f *fakeAdapter) DictID() string      { return f.dictID }
func (f *fakeAdapter) Description() string { return f.desc }
func (f *fakeAdapter) DefaultURL() string  { return f.url }
func (f *fakeAdapter) License() string     { return f.license }
func (f *fakeAdapter) Locale() string      { return f.locale }
func (f *fakeAdapter) Import(_ context.Context, sourceURL, outputDir string) (*Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Result{DictID: f.dictID, Dir: filepath.Join(outputDir, f.dictID), Encoding: "UTF-8", Entries: 3}, nil
}

func tempSourceDB(t *testing.T) *SourceDB {
	t.Helper()
	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	t.Cleanup(func() { sdb.Close() })
	return sdb
}

func TestOpenSourceDB_CreatesTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	sdb, err := OpenSourceDB(path)
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}

	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatalf("ListSources on empty db: %v", err)
	}
	if len(sources) != 0 {
		t.Fatalf("expected 0 sources, got %d", len(sources))
	}
	runs, err := sdb.ListRuns("any", 10)
	if err != nil {
		t.Fatalf("ListRuns on empty db: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected 0 runs, got %d", len(runs))
	}
}

func TestOpenSourceDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		sdb, err := OpenSourceDB(path)
		if err != nil {
			t.Fatalf("OpenSourceDB #%d: %v", i, err)
		}
		sdb.Close()
	}
}

func TestSeedAndGetURL(t *testing.T) {
	sdb := tempSourceDB(t)

	adapters := []Adapter{
		&fakeAdapter{id: "a1", dictID: "d1", desc: "desc1", url: "https://example.com/a1.dic", license: "MPL-2.0", locale: "fr_FR"},
		&fakeAdapter{id: "a2", dictID: "d2", desc: "desc2", url: "https://example.com/a2.dic", license: "MIT", locale: "tr_TR"},
	}

	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	url, err := sdb.GetURL("a1")
	if err != nil {
		t.Fatalf("GetURL: %v", err)
	}
	if url != "https://example.com/a1.dic" {
		t.Fatalf("expected https://example.com/a1.dic, got %s", url)
	}

	// Seed again should not overwrite.
	modified := []Adapter{
		&fakeAdapter{id: "a1", dictID: "d1", desc: "desc1", url: "https://changed.com/a1.dic", locale: "fr_FR"},
	}
	if err := sdb.Seed(modified); err != nil {
		t.Fatalf("Seed again: %v", err)
	}

	url, err = sdb.GetURL("a1")
	if err != nil {
		t.Fatalf("GetURL after re-seed: %v", err)
	}
	if url != "https://example.com/a1.dic" {
		t.Fatalf("re-seed should not overwrite, got %s", url)
	}

	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if sources[1].Locale != "tr_TR" {
		t.Errorf("a2 locale = %q, want tr_TR", sources[1].Locale)
	}
}

func TestGetURL_NotFound(t *testing.T) {
	sdb := tempSourceDB(t)
	if _, err := sdb.GetURL("nonexistent"); err == nil {
		t.Fatal("expected error for unknown adapter")
	}
}

func TestSetURL(t *testing.T) {
	sdb := tempSourceDB(t)

	adapters := []Adapter{
		&fakeAdapter{id: "a1", dictID: "d1", desc: "desc1", url: "https://example.com/original.dic"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if err := sdb.SetURL("a1", "https://example.com/updated.oxt"); err != nil {
		t.Fatalf("SetURL: %v", err)
	}

	url, err := sdb.GetURL("a1")
	if err != nil {
		t.Fatalf("GetURL: %v", err)
	}
	if url != "https://example.com/updated.oxt" {
		t.Fatalf("expected updated URL, got %s", url)
	}
}

func TestSetURL_NotFound(t *testing.T) {
	sdb := tempSourceDB(t)

	err := sdb.SetURL("nonexistent", "https://example.com")
	if err == nil {
		t.Fatal("expected error for nonexistent adapter")
	}
}

func TestUpdateCheck(t *testing.T) {
	sdb := tempSourceDB(t)

	adapters := []Adapter{
		&fakeAdapter{id: "a1", dictID: "d1", desc: "desc1", url: "https://example.com/a1.dic"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if err := sdb.UpdateCheck("a1", 200, ""); err != nil {
		t.Fatalf("UpdateCheck: %v", err)
	}

	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	src := sources[0]
	if src.LastStatus == nil || *src.LastStatus != 200 {
		t.Fatalf("expected last_status=200, got %v", src.LastStatus)
	}
	if src.LastCheck == nil || *src.LastCheck == 0 {
		t.Fatal("expected last_check to be set")
	}
	if src.LastError != nil {
		t.Fatalf("expected nil last_error, got %v", *src.LastError)
	}

	if err := sdb.UpdateCheck("a1", 404, "not found"); err != nil {
		t.Fatalf("UpdateCheck with error: %v", err)
	}

	sources, _ = sdb.ListSources()
	src = sources[0]
	if src.LastStatus == nil || *src.LastStatus != 404 {
		t.Fatalf("expected last_status=404, got %v", src.LastStatus)
	}
	if src.LastError == nil || *src.LastError != "not found" {
		t.Fatalf("expected last_error='not found', got %v", src.LastError)
	}
}

func TestListSources_Order(t *testing.T) {
	sdb := tempSourceDB(t)

	adapters := []Adapter{
		&fakeAdapter{id: "z-last", dictID: "d1", desc: "desc1", url: "https://example.com/z"},
		&fakeAdapter{id: "a-first", dictID: "d2", desc: "desc2", url: "https://example.com/a"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].AdapterID != "a-first" {
		t.Fatalf("expected first source to be 'a-first', got %s", sources[0].AdapterID)
	}
}

func TestRuns(t *testing.T) {
	sdb := tempSourceDB(t)
	if err := sdb.Seed([]Adapter{&fakeAdapter{id: "a1", dictID: "d1", desc: "desc1", url: "https://example.com/a1.dic"}}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	first, err := sdb.StartRun("a1")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := sdb.FinishRun(first, &Result{Entries: 42, Encoding: "ISO8859-1"}, nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	second, err := sdb.StartRun("a1")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := sdb.FinishRun(second, nil, errors.New("HTTP 404")); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if second <= first {
		t.Fatalf("run ids not increasing: %s then %s", first, second)
	}

	runs, err := sdb.ListRuns("a1", 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	failed, ok := runs[0], runs[1]
	if failed.ID != second || failed.Error == nil || *failed.Error != "HTTP 404" || failed.Entries != nil {
		t.Errorf("newest run = %+v, want failed run %s", failed, second)
	}
	if ok.Entries == nil || *ok.Entries != 42 || ok.Encoding == nil || *ok.Encoding != "ISO8859-1" || ok.Error != nil {
		t.Errorf("oldest run = %+v, want 42 ISO8859-1 entries", ok)
	}
	if ok.FinishedAt == nil {
		t.Error("finished_at not set")
	}

	runs, _ = sdb.ListRuns("a1", 1)
	if len(runs) != 1 || runs[0].ID != second {
		t.Errorf("limit 1 = %+v, want only %s", runs, second)
	}
}

func TestRun(t *testing.T) {
	sdb := tempSourceDB(t)
	good := &fakeAdapter{id: "good", dictID: "g", url: "https://example.com/g.dic"}
	bad := &fakeAdapter{id: "bad", dictID: "b", url: "https://example.com/b.dic", err: errors.New("boom")}
	if err := sdb.Seed([]Adapter{good, bad}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	out := t.TempDir()

	res, err := Run(context.Background(), sdb, good, out)
	if err != nil {
		t.Fatalf("Run good: %v", err)
	}
	if res.Entries != 3 || res.Dir != filepath.Join(out, "g") {
		t.Errorf("result = %+v", res)
	}

	if _, err := Run(context.Background(), sdb, bad, out); err == nil {
		t.Fatal("expected error from failing adapter")
	}
	var runs []ImportRun
	runs, _ = sdb.ListRuns("good", 1)
	if len(runs) != 1 || runs[0].AdapterID != "good" || runs[0].Entries == nil || *runs[0].Entries != 3 {
		t.Fatalf("good run not recorded: %+v", runs)
	}
	runs, _ = sdb.ListRuns("bad", 1)
	if len(runs) != 1 || runs[0].Error == nil {
		t.Fatalf("failed run not recorded: %+v", runs)
	}

	// Unknown adapters never reach import_runs.
	unknown := &fakeAdapter{id: "unseeded"}
	if _, err := Run(context.Background(), sdb, unknown, out); err == nil {
		t.Fatal("expected error for unseeded adapter")
	}
	runs, _ = sdb.ListRuns("unseeded", 1)
	if len(runs) != 0 {
		t.Errorf("unexpected runs for unseeded adapter: %+v", runs)
	}
}
