// CLAUDE:SUMMARY CLI subcommand that downloads upstream word lists through import adapters and records each run.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hazyhaar/lexnorm/pkg/importer"
	"github.com/urfave/cli/v2"
)

func importCmd() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Download word lists from upstream sources",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "adapter ID to import (e.g. hunspell-fr-fr)"},
			&cli.BoolFlag{Name: "all", Usage: "import all available sources"},
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Value: "dicts", Usage: "output directory for dictionaries"},
			&cli.StringFlag{Name: "set-url", Usage: "override the source URL of --source before importing"},
			&cli.BoolFlag{Name: "history", Usage: "show recent runs of --source instead of importing"},
			&cli.DurationFlag{Name: "timeout", Value: 2 * time.Hour, Usage: "overall timeout"},
		},
		Action: runImport,
	}
}

func runImport(c *cli.Context) error {
	outputDir := c.String("output-dir")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return cli.Exit(err, 1)
	}
	sdb, err := importer.OpenSourceDB(filepath.Join(outputDir, "sources.db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer sdb.Close()

	if err := sdb.Seed(importer.All()); err != nil {
		return cli.Exit(err, 1)
	}

	out := c.App.Writer
	if !c.Bool("all") && c.String("source") == "" {
		return listSources(out, sdb)
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	if c.Bool("all") {
		failed := 0
		for _, a := range importer.All() {
			if !importOne(ctx, out, c.App.ErrWriter, sdb, a, outputDir) {
				failed++
			}
		}
		if failed > 0 {
			return cli.Exit(fmt.Sprintf("%d of %d imports failed", failed, len(importer.All())), 1)
		}
		return nil
	}

	a, err := importer.Get(c.String("source"))
	if err != nil {
		msg := err.Error() + "\n\nAvailable sources:"
		for _, a := range importer.All() {
			msg += "\n  " + a.ID()
		}
		return cli.Exit(msg, 1)
	}

	if c.Bool("history") {
		return printHistory(out, sdb, a.ID())
	}
	if u := c.String("set-url"); u != "" {
		if err := sdb.SetURL(a.ID(), u); err != nil {
			return cli.Exit(err, 1)
		}
	}
	if !importOne(ctx, out, c.App.ErrWriter, sdb, a, outputDir) {
		return cli.Exit("", 1)
	}
	return nil
}

func importOne(ctx context.Context, out, errOut io.Writer, sdb *importer.SourceDB, a importer.Adapter, outputDir string) bool {
	fmt.Fprintf(out, "[%s] importing...\n", a.ID())
	start := time.Now()
	res, err := importer.Run(ctx, sdb, a, outputDir)
	if err != nil {
		fmt.Fprintf(errOut, "[%s] ERROR: %v\n", a.ID(), err)
		return false
	}
	fmt.Fprintf(out, "[%s] OK -> %s (%s entries, %s, %s downloaded, %s)\n",
		a.ID(), res.Dir, humanize.Comma(int64(res.Entries)), res.Encoding,
		humanize.Bytes(uint64(res.Bytes)), time.Since(start).Round(time.Millisecond))
	return true
}

func listSources(w io.Writer, sdb *importer.SourceDB) error {
	sources, err := sdb.ListSources()
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintln(w, "Available sources:")
	fmt.Fprintln(w)
	for _, src := range sources {
		status := ""
		if src.LastStatus != nil {
			status = fmt.Sprintf("  [%d", *src.LastStatus)
			if src.LastCheck != nil {
				status += " " + humanize.Time(time.Unix(*src.LastCheck, 0))
			}
			status += "]"
		}
		fmt.Fprintf(w, "  %-22s  %-6s  %s  (-> %s)%s\n", src.AdapterID, src.Locale, src.Description, src.DictID, status)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lexnorm import --source <id> [--output-dir <dir>] [--set-url <url>]")
	fmt.Fprintln(w, "  lexnorm import --source <id> --history")
	fmt.Fprintln(w, "  lexnorm import --all [--output-dir <dir>]")
	return nil
}

func printHistory(w io.Writer, sdb *importer.SourceDB, adapterID string) error {
	runs, err := sdb.ListRuns(adapterID, 20)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if len(runs) == 0 {
		fmt.Fprintf(w, "no runs recorded for %s\n", adapterID)
		return nil
	}
	for _, r := range runs {
		started := humanize.Time(time.Unix(r.StartedAt, 0))
		switch {
		case r.FinishedAt == nil:
			fmt.Fprintf(w, "%s  %-14s  unfinished\n", r.ID, started)
		case r.Error != nil:
			fmt.Fprintf(w, "%s  %-14s  failed: %s\n", r.ID, started, *r.Error)
		default:
			entries, enc := 0, ""
			if r.Entries != nil {
				entries = *r.Entries
			}
			if r.Encoding != nil {
				enc = *r.Encoding
			}
			fmt.Fprintf(w, "%s  %-14s  %s entries  %s\n", r.ID, started, humanize.Comma(int64(entries)), enc)
		}
	}
	return nil
}
