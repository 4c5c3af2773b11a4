package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hazyhaar/lexnorm/pkg/mcpquic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urfave/cli/v2"
)

func callCmd() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Call an MCP tool on a server over QUIC",
		ArgsUsage: "<tool> [key=value...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "localhost:8443", Usage: "server QUIC address"},
			&cli.BoolFlag{Name: "insecure", Aliases: []string{"k"}, Usage: "skip certificate verification (self-signed servers)"},
			&cli.BoolFlag{Name: "list", Usage: "list the server's tools"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "overall timeout"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("list") && c.NArg() == 0 {
				return cli.Exit("call: tool name required (or --list)", 1)
			}
			var toolArgs map[string]any
			if c.NArg() > 0 {
				var err error
				if toolArgs, err = parseToolArgs(c.Args().Tail()); err != nil {
					return cli.Exit(fmt.Sprintf("call: %v", err), 1)
				}
			}

			ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()

			client := mcpquic.NewClient(c.String("addr"), mcpquic.ClientTLSConfig(c.Bool("insecure")), "lexnorm-call")
			if err := client.Connect(ctx); err != nil {
				return cli.Exit(fmt.Sprintf("call: %v", err), 1)
			}
			defer client.Close()

			out := c.App.Writer
			if c.Bool("list") {
				tools, err := client.ListTools(ctx)
				if err != nil {
					return cli.Exit(fmt.Sprintf("call: %v", err), 1)
				}
				for _, t := range tools.Tools {
					fmt.Fprintf(out, "%-16s %s\n", t.Name, t.Description)
				}
				return nil
			}

			res, err := client.CallTool(ctx, c.Args().First(), toolArgs)
			if err != nil {
				return cli.Exit(fmt.Sprintf("call: %v", err), 1)
			}
			if printToolResult(out, res) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// parseToolArgs turns key=value pairs into tool arguments. Values that
// parse as JSON scalars (true, 3) keep their type; the rest are strings.
func parseToolArgs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q is not key=value", p)
		}
		var scalar any
		if err := json.Unmarshal([]byte(v), &scalar); err == nil {
			switch scalar.(type) {
			case bool, float64:
				out[k] = scalar
				continue
			}
		}
		out[k] = v
	}
	return out, nil
}

// printToolResult writes the text content of res and reports whether the
// tool returned an error.
func printToolResult(w io.Writer, res *mcp.CallToolResult) bool {
	for _, c := range res.Content {
		if text, ok := mcp.AsTextContent(c); ok {
			fmt.Fprintln(w, text.Text)
		}
	}
	return res.IsError
}
