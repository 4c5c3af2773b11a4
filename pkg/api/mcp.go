package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hazyhaar/lexnorm/pkg/kit"
	"github.com/hazyhaar/lexnorm/pkg/lexicon"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the lexnorm MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, reg *lexicon.Registry, cfg Config) {
	eps := newEndpoints(reg, cfg)
	registerCheckWord(srv, eps)
	registerNormalizeWord(srv, eps)
	registerTranscode(srv, eps)
	registerListDicts(srv, eps)
}

func registerCheckWord(srv *server.MCPServer, eps *endpoints) {
	tool := mcp.NewTool("check_word",
		mcp.WithDescription("Check a word against the loaded word lists, accepting the casing variants a speller would (PARIS matches Paris)."),
		mcp.WithString("word", mcp.Required(), mcp.Description("The word to check")),
		mcp.WithString("dicts", mcp.Description("Comma-separated dictionary filter (e.g. fr,nl-basis)")),
		mcp.WithString("locales", mcp.Description("Comma-separated locale filter (e.g. tr-TR,nl_NL)")),
	)

	kit.RegisterMCPTool(srv, tool, eps.checkWord, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		word, _ := args["word"].(string)
		opts := &lexicon.CheckOptions{}
		if v, _ := args["dicts"].(string); v != "" {
			opts.Dicts = splitList(v)
		}
		if v, _ := args["locales"].(string); v != "" {
			opts.Locales = splitList(v)
		}
		return &kit.MCPDecodeResult{Request: &checkWordReq{Word: word, Opts: opts}}, nil
	})
}

func registerNormalizeWord(srv *server.MCPServer, eps *endpoints) {
	tool := mcp.NewTool("normalize_word",
		mcp.WithDescription("Classify the casing of a word and return its upper, lower and title forms under a locale's rules (Turkish dotted I, Dutch IJ, Greek sigma)."),
		mcp.WithString("word", mcp.Required(), mcp.Description("The word to normalize")),
		mcp.WithString("locale", mcp.Description("Locale name such as tr_TR or nl-NL; empty uses the server default")),
	)

	kit.RegisterMCPTool(srv, tool, eps.normalize, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: &normalizeReq{
			Word:   req.GetString("word", ""),
			Locale: req.GetString("locale", ""),
		}}, nil
	})
}

func registerTranscode(srv *server.MCPServer, eps *endpoints) {
	tool := mcp.NewTool("transcode",
		mcp.WithDescription("Convert base64-encoded bytes between character encodings (UTF-8, ISO8859-x, CP125x, KOI8) and report whether the conversion was exact, lossy or failed."),
		mcp.WithString("data", mcp.Required(), mcp.Description("Input bytes, base64 encoded")),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source encoding name")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Target encoding name")),
		mcp.WithBoolean("lossy", mcp.Description("Substitute unconvertible characters instead of failing")),
	)

	kit.RegisterMCPTool(srv, tool, eps.transcode, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		data, err := base64.StdEncoding.DecodeString(req.GetString("data", ""))
		if err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
		return &kit.MCPDecodeResult{Request: &transcodeReq{
			Data:  data,
			From:  req.GetString("from", ""),
			To:    req.GetString("to", ""),
			Lossy: req.GetBool("lossy", false),
		}}, nil
	})
}

func registerListDicts(srv *server.MCPServer, eps *endpoints) {
	tool := mcp.NewTool("list_dicts",
		mcp.WithDescription("List all loaded word lists with metadata (locale, encoding, entry count, source)."),
	)

	kit.RegisterMCPTool(srv, tool, eps.listDicts, func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// NewMCPServer builds an MCP server carrying the lexnorm tools. The same
// server backs stdio and MCP-over-QUIC sessions.
func NewMCPServer(reg *lexicon.Registry, cfg Config, version string) *server.MCPServer {
	srv := server.NewMCPServer("lexnorm", version, server.WithToolCapabilities(true), server.WithRecovery())
	RegisterMCPTools(srv, reg, cfg)
	return srv
}

// ServeStdio runs an MCP server exposing the lexnorm tools over in/out
// until ctx is done. Protocol errors go to cfg.Logger; out carries only
// JSON-RPC.
func ServeStdio(ctx context.Context, reg *lexicon.Registry, cfg Config, version string, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(NewMCPServer(reg, cfg, version))
	if cfg.Logger != nil {
		stdio.SetErrorLogger(slog.NewLogLogger(cfg.Logger.Handler(), slog.LevelError))
	}
	return stdio.Listen(ctx, in, out)
}
