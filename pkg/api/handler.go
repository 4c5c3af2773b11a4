package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hazyhaar/lexnorm/pkg/kit"
	"github.com/hazyhaar/lexnorm/pkg/lexicon"
	"github.com/hazyhaar/lexnorm/pkg/locale"
	"golang.org/x/text/language"
)

// NewRouter returns an http.Handler with all lexnorm API routes.
func NewRouter(reg *lexicon.Registry, cfg Config) http.Handler {
	mux := http.NewServeMux()
	h := &handler{eps: newEndpoints(reg, cfg), reg: reg}

	mux.HandleFunc("GET /v1/check/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/check/batch", h.handleCheckBatch)
	mux.HandleFunc("GET /v1/check/{word}", h.handleCheckWord)
	mux.HandleFunc("POST /v1/normalize", h.handleNormalize)
	mux.HandleFunc("POST /v1/transcode", h.handleTranscode)
	mux.HandleFunc("GET /v1/encodings/{name}", h.handleEncoding)
	mux.HandleFunc("GET /v1/dicts", h.handleListDicts)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(requestContext(mux))
}

type handler struct {
	eps *endpoints
	reg *lexicon.Registry
}

// --- check single word ---

func (h *handler) handleCheckWord(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.checkWord(r.Context(), &checkWordReq{
		Word: r.PathValue("word"),
		Opts: parseOpts(r),
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- check batch ---

type httpBatchRequest struct {
	Words   []string `json:"words"`
	Dicts   []string `json:"dicts,omitempty"`
	Locales []string `json:"locales,omitempty"`
}

func (h *handler) handleCheckBatch(w http.ResponseWriter, r *http.Request) {
	var req httpBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.eps.checkBatch(r.Context(), &checkBatchReq{
		Words: req.Words,
		Opts:  &lexicon.CheckOptions{Dicts: req.Dicts, Locales: req.Locales},
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- normalize ---

func (h *handler) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeReq
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.eps.normalize(r.Context(), &req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- transcode ---

func (h *handler) handleTranscode(w http.ResponseWriter, r *http.Request) {
	var req transcodeReq
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.eps.transcode(r.Context(), &req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- encodings ---

func (h *handler) handleEncoding(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.encoding(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- list dicts ---

func (h *handler) handleListDicts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.listDicts(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status       string `json:"status"`
	Dictionaries int    `json:"dictionaries"`
	TotalEntries int    `json:"total_entries"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Dictionaries: h.reg.DictCount(),
		TotalEntries: h.reg.TotalEntries(),
	})
}

// --- helpers ---

func parseOpts(r *http.Request) *lexicon.CheckOptions {
	opts := &lexicon.CheckOptions{}
	if v := r.URL.Query().Get("dicts"); v != "" {
		opts.Dicts = strings.Split(v, ",")
	}
	if v := r.URL.Query().Get("locales"); v != "" {
		opts.Locales = strings.Split(v, ",")
	}
	return opts
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, locale.ErrInvalidLocale),
		errors.Is(err, locale.ErrUnsupportedEncoding):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// requestContext tags the request context with a request ID (echoed in
// X-Request-ID) and the preferred locale from Accept-Language.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = kit.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := kit.WithTransport(kit.WithRequestID(r.Context(), id), "http")
		if al := r.Header.Get("Accept-Language"); al != "" {
			if tags, _, err := language.ParseAcceptLanguage(al); err == nil && len(tags) > 0 {
				ctx = kit.WithLocale(ctx, tags[0].String())
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
