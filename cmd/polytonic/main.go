// Package main provides the polytonic command: Beta-code conversion, source
// ingestion and the live-typing server.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/japaniel/polytonic/pkg/db"
	"github.com/japaniel/polytonic/pkg/document"
	"github.com/japaniel/polytonic/pkg/ingest"
	"github.com/japaniel/polytonic/pkg/lexicon"
	"github.com/japaniel/polytonic/pkg/logging"
	"github.com/japaniel/polytonic/pkg/server"
	"github.com/japaniel/polytonic/pkg/translit"
	"golang.org/x/text/transform"
)

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel     string `name:"log-level" env:"POLYTONIC_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat    string `name:"log-format" env:"POLYTONIC_LOG_FORMAT" default:"text" enum:"text,json" help:"Log format"`
	Koronis      bool   `name:"koronis" help:"Render an apostrophe as koronis (U+1FBD)"`
	RhoBreathing bool   `name:"rho-breathing" help:"Let breathing keys mark rho"`
	FinalSigma   bool   `name:"final-sigma" help:"Give a sigma at the very end of input its final form"`
}

// Options returns the engine options selected by the flags.
func (g *Globals) Options() translit.Options {
	return translit.Options{
		Koronis:         g.Koronis,
		RhoBreathing:    g.RhoBreathing,
		FinalSigmaAtEOF: g.FinalSigma,
	}
}

// CLI defines the command-line interface using Kong
var CLI struct {
	Globals

	Convert       ConvertCmd       `cmd:"" help:"Convert Beta code to polytonic Greek"`
	Trace         TraceCmd         `cmd:"" help:"Show the buffer after every keystroke"`
	Ingest        IngestCmd        `cmd:"" help:"Convert a source and store its lines and words"`
	ImportLexicon ImportLexiconCmd `cmd:"" name:"import-lexicon" help:"Fill in glosses from a lexicon file"`
	Serve         ServeCmd         `cmd:"" help:"Serve conversion and live typing over HTTP"`
	Version       VersionCmd       `cmd:"" help:"Print version information"`
}

// ConvertCmd converts arguments, a file or stdin.
type ConvertCmd struct {
	File string   `name:"file" short:"f" type:"existingfile" help:"Read Beta code from a file"`
	Text []string `arg:"" optional:"" help:"Beta code to convert; stdin when empty"`
}

func (c *ConvertCmd) Run(g *Globals) error {
	opts := g.Options()
	if len(c.Text) > 0 {
		fmt.Println(document.Convert(strings.Join(c.Text, " "), opts).Greek())
		return nil
	}

	var in io.Reader = os.Stdin
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	out := bufio.NewWriter(os.Stdout)
	if _, err := io.Copy(out, transform.NewReader(in, translit.NewTransformer(opts))); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	return out.Flush()
}

// TraceCmd prints the machine state and buffer after every key.
type TraceCmd struct {
	Text string `arg:"" help:"Beta code to trace"`
}

func (c *TraceCmd) Run(g *Globals) error {
	e := translit.NewEngine(g.Options())
	for i := 0; i < len(c.Text); i++ {
		b := c.Text[i]
		ed := e.Feed(b)
		s := e.State()
		fmt.Printf("%-4q -%d +%-8q %-52s %s\n", b, ed.Delete, ed.Insert, fmt.Sprintf("%T%+v", s, s), e.String())
	}
	if ed := e.Close(); !ed.IsZero() {
		fmt.Printf("EOF  -%d +%-8q %-52s %s\n", ed.Delete, ed.Insert, "", e.String())
	}
	return nil
}

// IngestCmd converts a source and stores it.
type IngestCmd struct {
	DB         string `name:"db" env:"POLYTONIC_DB" default:"polytonic.db" help:"Path to SQLite database"`
	File       string `name:"file" type:"existingfile" xor:"source" help:"Plain Beta-code file"`
	URL        string `name:"url" xor:"source" help:"Web page with Beta-code text"`
	TEI        string `name:"tei" xor:"source" help:"TEI XML edition, path or URL"`
	Title      string `name:"title" help:"Title to store when the source has none"`
	Lexicon    string `name:"lexicon" type:"path" help:"Lexicon JSON used for glosses"`
	LexiconURL string `name:"lexicon-url" help:"Download the lexicon from here when it is missing (.json or .json.xz)"`
	Workers    int    `name:"workers" default:"4" help:"Conversion workers"`
}

func (c *IngestCmd) Run(ctx context.Context, g *Globals) error {
	src, err := c.load(ctx)
	if err != nil {
		return err
	}
	if src.text == "" {
		return document.ErrEmptyInput
	}

	conn, err := db.Open(c.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()
	logging.Info("database ready", "path", c.DB)

	var lex *lexicon.Index
	if c.Lexicon != "" {
		if err := lexicon.Ensure(ctx, c.Lexicon, c.LexiconURL); err != nil {
			logging.Warn("lexicon unavailable, continuing without glosses", "path", c.Lexicon, "error", err)
		} else {
			start := time.Now()
			entries, err := lexicon.Load(c.Lexicon)
			if err != nil {
				return fmt.Errorf("load lexicon: %w", err)
			}
			lex = lexicon.NewIndex(entries)
			logging.Info("lexicon loaded", "entries", len(entries), "forms", lex.Len(), "duration", time.Since(start))
		}
	}

	sourceID, err := db.CreateOrGetSource(conn, src.kind, src.title, src.author, src.url, db.Checksum(src.text), "")
	if err != nil {
		return fmt.Errorf("persist source: %w", err)
	}
	logging.Info("source saved", "source_id", sourceID, "title", src.title)

	lines := document.SplitLines(src.text)
	ingester := ingest.NewIngester(conn, lex)
	ingester.Workers = c.Workers
	ingester.Options = g.Options()
	ingester.Logger = logging.Logger()
	ingester.OnProgress = func(current, total int) {
		logging.IngestProgress(sourceID, current, total)
	}

	res, err := ingester.Ingest(ctx, sourceID, lines)
	if err != nil {
		return fmt.Errorf("ingestion failed after storing %d lines: %w", res.Lines, err)
	}
	fmt.Printf("Processing complete. Stored %d lines, linked %d word occurrences.\n", res.Lines, res.Links)
	return nil
}

type source struct {
	kind, title, author, url, text string
}

func (c *IngestCmd) load(ctx context.Context) (source, error) {
	switch {
	case c.File != "":
		data, err := os.ReadFile(c.File)
		if err != nil {
			return source{}, err
		}
		return source{kind: "file", title: c.Title, url: c.File, text: string(data)}, nil

	case c.URL != "":
		body, err := document.Fetch(ctx, nil, c.URL)
		if err != nil {
			return source{}, err
		}
		u, err := url.Parse(c.URL)
		if err != nil {
			return source{}, err
		}
		a, err := document.ExtractHTML(bytes.NewReader(body), u)
		if err != nil {
			return source{}, err
		}
		return source{kind: "website_article", title: firstNonEmpty(a.Title, c.Title), author: a.Byline, url: c.URL, text: a.Text}, nil

	case c.TEI != "":
		var data []byte
		var err error
		if strings.HasPrefix(c.TEI, "http://") || strings.HasPrefix(c.TEI, "https://") {
			data, err = document.Fetch(ctx, nil, c.TEI)
		} else {
			data, err = os.ReadFile(c.TEI)
		}
		if err != nil {
			return source{}, err
		}
		a, err := document.ExtractTEI(bytes.NewReader(data))
		if err != nil {
			return source{}, err
		}
		return source{kind: "tei", title: firstNonEmpty(a.Title, c.Title), author: a.Byline, url: c.TEI, text: a.Text}, nil
	}
	return source{}, errors.New("one of --file, --url or --tei is required")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ImportLexiconCmd fills in glosses for stored words.
type ImportLexiconCmd struct {
	DB   string `name:"db" env:"POLYTONIC_DB" default:"polytonic.db" help:"Path to SQLite database"`
	Path string `arg:"" type:"existingfile" help:"Lexicon JSON file"`
}

func (c *ImportLexiconCmd) Run() error {
	conn, err := db.Open(c.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	entries, err := lexicon.Load(c.Path)
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}
	logging.Info("lexicon loaded", "entries", len(entries))

	count, err := lexicon.NewImporter(conn, lexicon.NewIndex(entries)).ProcessUpdates()
	if err != nil {
		return fmt.Errorf("update glosses: %w", err)
	}
	fmt.Printf("Successfully updated glosses for %d words.\n", count)
	return nil
}

// ServeCmd runs the HTTP server until interrupted.
type ServeCmd struct {
	Addr string `name:"addr" env:"POLYTONIC_ADDR" default:"127.0.0.1:8080" help:"Listen address"`
}

func (c *ServeCmd) Run(ctx context.Context, g *Globals) error {
	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           server.New(g.Options()).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("listening", "addr", c.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("polytonic %s\n", document.Version())
	return nil
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("polytonic"),
		kong.Description("Beta code to polytonic Greek"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	level, err := logging.ParseLevel(CLI.LogLevel)
	kctx.FatalIfErrorf(err)
	format, err := logging.ParseFormat(CLI.LogFormat)
	kctx.FatalIfErrorf(err)
	logging.Init(level, format, os.Stderr)

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(&CLI.Globals)
	kctx.FatalIfErrorf(err)
}
