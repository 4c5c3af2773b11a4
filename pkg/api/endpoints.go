package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/lexnorm/pkg/kit"
	"github.com/hazyhaar/lexnorm/pkg/lexicon"
	"github.com/hazyhaar/lexnorm/pkg/locale"
	"golang.org/x/text/transform"
)

// maxBatch bounds the number of words in one batch check.
const maxBatch = 100

var errInvalidRequest = errors.New("invalid request")

// Config carries the settings shared by the HTTP and MCP transports.
type Config struct {
	// DefaultLocale applies when a request names no locale.
	DefaultLocale locale.Locale
	Logger        *slog.Logger
}

// Shared request/response types used by both HTTP and MCP transports.

type checkWordReq struct {
	Word string
	Opts *lexicon.CheckOptions
}

type checkBatchReq struct {
	Words []string
	Opts  *lexicon.CheckOptions
}

type batchResponse struct {
	Results []*lexicon.CheckResult `json:"results"`
}

type dictsResponse struct {
	Dictionaries []lexicon.DictInfo `json:"dictionaries"`
}

type normalizeReq struct {
	Word   string `json:"word"`
	Locale string `json:"locale,omitempty"`
}

type normalizeResponse struct {
	Word       string        `json:"word"`
	Locale     string        `json:"locale"`
	Casing     locale.Casing `json:"casing"`
	Upper      string        `json:"upper"`
	Lower      string        `json:"lower"`
	Title      string        `json:"title"`
	ASCII      bool          `json:"ascii"`
	BMP        bool          `json:"bmp"`
	UTF16Units int           `json:"utf16_units"`
}

type transcodeReq struct {
	Data  []byte `json:"data"`
	From  string `json:"from"`
	To    string `json:"to"`
	Lossy bool   `json:"lossy,omitempty"`
}

type transcodeResponse struct {
	Data    []byte         `json:"data,omitempty"`
	From    string         `json:"from"`
	To      string         `json:"to"`
	Outcome locale.Outcome `json:"outcome"`
	Error   string         `json:"error,omitempty"`
}

type encodingResponse struct {
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	UTF8      bool   `json:"utf8"`
	Supported bool   `json:"supported"`
	Error     string `json:"error,omitempty"`
}

// endpoints holds every action, each wrapped with request IDs and logging.
type endpoints struct {
	checkWord  kit.Endpoint
	checkBatch kit.Endpoint
	normalize  kit.Endpoint
	transcode  kit.Endpoint
	encoding   kit.Endpoint
	listDicts  kit.Endpoint
}

func newEndpoints(reg *lexicon.Registry, cfg Config) *endpoints {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.RequestID(), kit.Logging(logger, name))(ep)
	}
	return &endpoints{
		checkWord:  wrap("check_word", checkWordEndpoint(reg)),
		checkBatch: wrap("check_batch", checkBatchEndpoint(reg)),
		normalize:  wrap("normalize_word", normalizeEndpoint(cfg.DefaultLocale)),
		transcode:  wrap("transcode", transcodeEndpoint()),
		encoding:   wrap("encoding", encodingEndpoint()),
		listDicts:  wrap("list_dicts", listDictsEndpoint(reg)),
	}
}

func checkWordEndpoint(reg *lexicon.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*checkWordReq)
		if req.Word == "" {
			return nil, fmt.Errorf("%w: missing word", errInvalidRequest)
		}
		return reg.Check(req.Word, req.Opts), nil
	}
}

func checkBatchEndpoint(reg *lexicon.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*checkBatchReq)
		if len(req.Words) == 0 {
			return nil, fmt.Errorf("%w: words array is empty", errInvalidRequest)
		}
		if len(req.Words) > maxBatch {
			return nil, fmt.Errorf("%w: too many words (max %d, got %d)", errInvalidRequest, maxBatch, len(req.Words))
		}
		results := make([]*lexicon.CheckResult, len(req.Words))
		for i, word := range req.Words {
			results[i] = reg.Check(word, req.Opts)
		}
		return batchResponse{Results: results}, nil
	}
}

func listDictsEndpoint(reg *lexicon.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return dictsResponse{Dictionaries: reg.ListDicts()}, nil
	}
}

// normalizeEndpoint resolves the locale from the request, then the caller's
// context, then the configured default.
func normalizeEndpoint(def locale.Locale) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*normalizeReq)
		loc := def
		name := req.Locale
		if name == "" {
			name = kit.GetLocale(ctx)
		}
		if name != "" {
			var err error
			if loc, err = locale.ParseLocale(name); err != nil {
				return nil, err
			}
		}
		w := locale.Widen(req.Word)
		return normalizeResponse{
			Word:       req.Word,
			Locale:     loc.String(),
			Casing:     locale.ClassifyCasing(req.Word),
			Upper:      locale.ToUpper(req.Word, loc.Tag),
			Lower:      locale.ToLower(req.Word, loc.Tag),
			Title:      locale.ToTitle(req.Word, loc.Tag),
			ASCII:      locale.IsAllASCII(req.Word),
			BMP:        locale.IsAllBMP(w),
			UTF16Units: len(w),
		}, nil
	}
}

// transcodeEndpoint converts bytes between two encodings through UTF-16.
// In strict mode any loss is reported as an error and no data is returned.
// In lossy mode undecodable input becomes U+FFFD and unencodable
// characters become '?'.
func transcodeEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*transcodeReq)
		from, err := locale.NewEncoding(req.From).Codec()
		if err != nil {
			return nil, err
		}
		to, err := locale.NewEncoding(req.To).Codec()
		if err != nil {
			return nil, err
		}
		resp := &transcodeResponse{From: from.Name(), To: to.Name()}

		dec := locale.Decode(req.Data, from)
		wide, outcome := dec.Wide, dec.Outcome
		if dec.Outcome == locale.Failed {
			if !req.Lossy {
				resp.Outcome, resp.Error = locale.Failed, dec.Err.Error()
				return resp, nil
			}
			b, _, err := transform.Bytes(locale.NewDecoder(from, true), req.Data)
			if err != nil {
				return nil, fmt.Errorf("lossy decode: %w", err)
			}
			wide, outcome = locale.Widen(string(b)), locale.Lossy
		}

		enc := locale.Encode(wide, to)
		switch {
		case enc.Outcome == locale.Failed:
			resp.Outcome, resp.Error = locale.Failed, enc.Err.Error()
			return resp, nil
		case enc.Outcome == locale.Lossy && !req.Lossy:
			resp.Outcome, resp.Error = locale.Lossy, enc.Err.Error()
			return resp, nil
		}
		resp.Data = enc.Bytes
		resp.Outcome = max(outcome, enc.Outcome)
		return resp, nil
	}
}

func encodingEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		name := request.(string)
		enc := locale.NewEncoding(name)
		resp := encodingResponse{
			Name:      name,
			Canonical: enc.Value(),
			UTF8:      enc.IsUTF8(),
		}
		if _, err := enc.Codec(); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Supported = true
		}
		return resp, nil
	}
}
