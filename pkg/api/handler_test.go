package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/lexnorm/pkg/lexicon"
	"github.com/hazyhaar/lexnorm/pkg/locale"
)

func setupRegistry(t *testing.T) *lexicon.Registry {
	t.Helper()
	root := t.TempDir()
	write := func(id, manifest string, data []byte) {
		dir := filepath.Join(root, id)
		os.MkdirAll(dir, 0o755)
		os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte("id: "+id+"\n"+manifest), 0o644)
		os.WriteFile(filepath.Join(dir, "words.dic"), data, 0o644)
	}
	// ISO 8859-1: 0xE9 is é.
	write("fr", "locale: fr_FR\nencoding: ISO8859-1\nformat:\n  kind: dic\n", []byte("2\ncaf\xe9/S\nParis\n"))
	write("tr", "locale: tr_TR.UTF-8\nformat:\n  kind: list\n", []byte("istanbul\n"))

	reg := lexicon.NewRegistry(root)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return reg
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(setupRegistry(t), Config{}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestCheckWord(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/check/PARIS")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	result := decode[lexicon.CheckResult](t, resp)
	if !result.Correct || len(result.Matches) != 1 || result.Matches[0].Form != "Paris" {
		t.Errorf("result = %+v, want one match with form Paris", result)
	}
	if result.Casing != "ALL_CAPITAL" {
		t.Errorf("casing = %q, want ALL_CAPITAL", result.Casing)
	}
}

func TestCheckWord_LocaleFilter(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/check/%C4%B0STANBUL?locales=fr-FR")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if result := decode[lexicon.CheckResult](t, resp); result.Correct {
		t.Errorf("İSTANBUL found outside tr: %+v", result)
	}

	resp2, err := http.Get(srv.URL + "/v1/check/%C4%B0STANBUL?locales=tr-TR")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	result := decode[lexicon.CheckResult](t, resp2)
	if !result.Correct || result.Matches[0].Form != "istanbul" {
		t.Errorf("result = %+v, want istanbul", result)
	}
}

func TestCheckBatch(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/check/batch", map[string]any{"words": []string{"café", "CAFÉ", "cafe"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[batchResponse](t, resp)
	want := []bool{true, true, false}
	if len(body.Results) != len(want) {
		t.Fatalf("results = %d, want %d", len(body.Results), len(want))
	}
	for i, w := range want {
		if body.Results[i].Correct != w {
			t.Errorf("result[%d] %q correct = %v, want %v", i, body.Results[i].Word, body.Results[i].Correct, w)
		}
	}
}

func TestCheckBatch_Errors(t *testing.T) {
	srv := newTestServer(t)

	tooMany := make([]string, maxBatch+1)
	for i := range tooMany {
		tooMany[i] = "x"
	}
	tests := []struct {
		name string
		body any
	}{
		{"empty", map[string]any{"words": []string{}}},
		{"too many", map[string]any{"words": tooMany}},
		{"bad json", "not an object"},
	}
	for _, tt := range tests {
		resp := postJSON(t, srv.URL+"/v1/check/batch", tt.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/v1/check/batch")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET batch status = %d, want 405", resp.StatusCode)
	}
}

func TestNormalize(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/normalize", normalizeReq{Word: "istanbul", Locale: "tr_TR"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decode[normalizeResponse](t, resp)
	want := normalizeResponse{
		Word:       "istanbul",
		Locale:     "tr-TR",
		Casing:     locale.Small,
		Upper:      "İSTANBUL",
		Lower:      "istanbul",
		Title:      "İstanbul",
		ASCII:      true,
		BMP:        true,
		UTF16Units: 8,
	}
	if got != want {
		t.Errorf("normalize = %+v, want %+v", got, want)
	}
}

func TestNormalize_AcceptLanguage(t *testing.T) {
	srv := newTestServer(t)

	data, _ := json.Marshal(normalizeReq{Word: "ijsselmeer"})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/normalize", bytes.NewReader(data))
	req.Header.Set("Accept-Language", "nl-NL, en;q=0.5")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := decode[normalizeResponse](t, resp); got.Title != "IJsselmeer" || got.Locale != "nl-NL" {
		t.Errorf("normalize = %+v, want nl-NL title IJsselmeer", got)
	}
}

func TestNormalize_Supplementary(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/normalize", normalizeReq{Word: "𝐀b"})
	got := decode[normalizeResponse](t, resp)
	if got.BMP || got.ASCII || got.UTF16Units != 3 {
		t.Errorf("normalize = %+v, want non-BMP with 3 UTF-16 units", got)
	}
}

func TestNormalize_InvalidLocale(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/normalize", normalizeReq{Word: "a", Locale: "not a locale!"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTranscode(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		req     transcodeReq
		data    string
		outcome locale.Outcome
		errSub  string
	}{
		{"latin1 to utf8", transcodeReq{Data: []byte("caf\xe9"), From: "latin1", To: "utf8"}, "café", locale.Exact, ""},
		{"utf8 to cp1251", transcodeReq{Data: []byte("Да"), From: "UTF-8", To: "windows-1251"}, "\xc4\xe0", locale.Exact, ""},
		{"strict unmappable", transcodeReq{Data: []byte("Да"), From: "UTF-8", To: "ISO8859-1"}, "", locale.Lossy, "unmappable"},
		{"lossy unmappable", transcodeReq{Data: []byte("aДb"), From: "UTF-8", To: "ISO8859-1", Lossy: true}, "a?b", locale.Lossy, ""},
		{"strict illegal", transcodeReq{Data: []byte("a\xffb"), From: "UTF-8", To: "UTF-8"}, "", locale.Failed, "illegal"},
		{"lossy illegal", transcodeReq{Data: []byte("a\xffb"), From: "UTF-8", To: "UTF-8", Lossy: true}, "a\uFFFDb", locale.Lossy, ""},
	}
	for _, tt := range tests {
		resp := postJSON(t, srv.URL+"/v1/transcode", tt.req)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", tt.name, resp.StatusCode)
			continue
		}
		got := decode[transcodeResponse](t, resp)
		if string(got.Data) != tt.data || got.Outcome != tt.outcome {
			t.Errorf("%s: got %q %v, want %q %v", tt.name, got.Data, got.Outcome, tt.data, tt.outcome)
		}
		if !strings.Contains(got.Error, tt.errSub) || (tt.errSub == "") != (got.Error == "") {
			t.Errorf("%s: error = %q, want containing %q", tt.name, got.Error, tt.errSub)
		}
	}
}

func TestTranscode_UnsupportedEncoding(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/transcode", transcodeReq{Data: []byte("a"), From: "Shift_JIS", To: "UTF-8"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestEncoding(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name      string
		canonical string
		utf8      bool
		supported bool
	}{
		{"utf8", "UTF-8", true, true},
		{"windows-1252", "CP1252", false, true},
		{"iso-8859-9", "ISO8859-9", false, true},
		{"Shift_JIS", "SHIFT_JIS", false, false},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + "/v1/encodings/" + tt.name)
		if err != nil {
			t.Fatal(err)
		}
		got := decode[encodingResponse](t, resp)
		resp.Body.Close()
		if got.Canonical != tt.canonical || got.UTF8 != tt.utf8 || got.Supported != tt.supported {
			t.Errorf("%s: got %+v", tt.name, got)
		}
	}
}

func TestListDictsAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/dicts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	dicts := decode[dictsResponse](t, resp)
	if len(dicts.Dictionaries) != 2 || dicts.Dictionaries[0].ID != "fr" {
		t.Errorf("dicts = %+v", dicts)
	}

	resp2, err := http.Get(srv.URL + "/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	health := decode[healthResponse](t, resp2)
	if health.Status != "ok" || health.Dictionaries != 2 || health.TotalEntries != 3 {
		t.Errorf("health = %+v", health)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/v1/normalize", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight = %d %v", resp.StatusCode, resp.Header)
	}
}
