package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hazyhaar/lexnorm/pkg/lexicon"
	"github.com/hazyhaar/lexnorm/pkg/locale"
	"github.com/urfave/cli/v2"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check words read from stdin, one per line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "encoding", Aliases: []string{"e"}, Usage: "byte encoding of stdin and stdout (default: from default_locale, else UTF-8)"},
			&cli.StringFlag{Name: "locale", Aliases: []string{"l"}, Usage: "only check dictionaries with this locale"},
			&cli.StringFlag{Name: "dicts", Aliases: []string{"d"}, Usage: "comma-separated dictionary IDs to check"},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger()
			cfg, err := loadConfig(c.String("config"), logger)
			if err != nil {
				return cli.Exit(err, 1)
			}
			reg, err := loadRegistry(cfg, logger)
			if err != nil {
				return cli.Exit(err, 1)
			}

			enc := locale.NewEncoding(c.String("encoding"))
			if enc.IsZero() {
				enc = cfg.DefaultLocale.Encoding
			}
			if enc.IsZero() {
				enc = locale.NewEncoding("UTF-8")
			}
			codec, err := enc.Codec()
			if err != nil {
				return cli.Exit(fmt.Sprintf("check: %v", err), 1)
			}

			opts := &lexicon.CheckOptions{}
			if l := c.String("locale"); l != "" {
				opts.Locales = []string{l}
			}
			if d := c.String("dicts"); d != "" {
				opts.Dicts = strings.Split(d, ",")
			}

			misses, err := runCheck(reg, opts, codec, os.Stdin, c.App.Writer, c.App.ErrWriter)
			if err != nil {
				return cli.Exit(fmt.Sprintf("check: %v", err), 1)
			}
			if misses > 0 {
				return cli.Exit("", 2)
			}
			return nil
		},
	}
}

// runCheck reads one word per line from in, decoded with codec, and writes
// "word<TAB>dict:form" or "word<TAB>-" to out in the same encoding. Lines
// that do not decode are reported on errOut and counted as misses.
func runCheck(reg *lexicon.Registry, opts *lexicon.CheckOptions, codec locale.Codec, in io.Reader, out, errOut io.Writer) (int, error) {
	sc := bufio.NewScanner(in)
	w := bufio.NewWriter(out)
	var misses, lineNo int
	var narrow []byte
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		dec := locale.Decode([]byte(line), codec)
		if dec.Outcome != locale.Exact {
			fmt.Fprintf(errOut, "line %d: %v\n", lineNo, dec.Err)
			misses++
			continue
		}
		word := strings.TrimSpace(dec.Wide.String())
		if word == "" {
			continue
		}
		res := reg.Check(word, opts)

		var b strings.Builder
		b.WriteString(word)
		b.WriteByte('\t')
		if !res.Correct {
			misses++
			b.WriteByte('-')
		}
		for i, m := range res.Matches {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(m.DictID + ":" + m.Form)
		}
		b.WriteByte('\n')

		// Forms outside the output encoding come out as '?'.
		locale.ToNarrowInto(locale.Widen(b.String()), codec, &narrow)
		if _, err := w.Write(narrow); err != nil {
			return misses, err
		}
	}
	if err := sc.Err(); err != nil {
		return misses, fmt.Errorf("read input: %w", err)
	}
	return misses, w.Flush()
}
