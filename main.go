// ipftree prints the include tree of an Igor Pro procedure file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phobologic/ipftree/internal/config"
	"github.com/phobologic/ipftree/internal/discover"
	"github.com/phobologic/ipftree/internal/forest"
	"github.com/phobologic/ipftree/internal/graph"
	"github.com/phobologic/ipftree/internal/lang"
	"github.com/phobologic/ipftree/internal/model"
	"github.com/phobologic/ipftree/internal/parse"
	"github.com/phobologic/ipftree/internal/ranking"
	"github.com/phobologic/ipftree/internal/render"
	"github.com/phobologic/ipftree/internal/toon"
)

var version = "dev"

const (
	defaultQuery    = "clusteringPanel v1"
	notFoundMessage = "Node not found"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "init" {
		return runInit(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("ipftree", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  string
		igorDir     string
		userDir     string
		includeDir  string
		format      string
		maxFileSize int64
		workers     int
		list        bool
		maxRows     int
		match       string
		verbose     bool
		showVersion bool
	)

	fs.StringVar(&configPath, "config", "", "YAML config file")
	fs.StringVar(&igorDir, "igor", "", "primary procedure directory (Igor Procedures)")
	fs.StringVar(&userDir, "user", "", "secondary procedure directory (User Procedures)")
	fs.StringVar(&includeDir, "include", "", "directory include targets are resolved in (default: -user)")
	fs.StringVar(&format, "format", "text", "output format: text or toon")
	fs.Int64Var(&maxFileSize, "max-file-size", 0, "skip files larger than this many bytes (0: no limit)")
	fs.IntVar(&workers, "workers", 0, "concurrent file scans (0: GOMAXPROCS)")
	fs.BoolVar(&list, "list", false, "list top-level procedures ranked by include centrality")
	fs.IntVar(&maxRows, "n", 0, "with -list, maximum number of procedures to show")
	fs.StringVar(&match, "match", "", "with -list, keep procedures whose name or functions contain this substring")
	fs.BoolVar(&verbose, "v", false, "log debug output to stderr")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: ipftree [flags] [procedure name]
       ipftree init [flags] [path-to-config]

Print the include tree of one top-level procedure. The name defaults to %q.

Flags:
`, defaultQuery)
		fs.PrintDefaults()
	}

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "ipftree %s\n", version)
		return nil
	}

	if format != "text" && format != "toon" {
		return fmt.Errorf("unsupported format %q", format)
	}

	logger := newLogger(stderr, verbose)

	cfg := config.Default(homeDir())
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath, cfg); err != nil {
			return err
		}
	}

	// Flags given explicitly win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "igor":
			cfg.IgorDir = igorDir
		case "user":
			cfg.UserDir = userDir
		case "include":
			cfg.IncludeDir = includeDir
		case "max-file-size":
			cfg.MaxFileSize = maxFileSize
		case "workers":
			cfg.Workers = workers
		}
	})

	if err := cfg.Validate(); err != nil {
		return err
	}
	if lang.ForExtension(cfg.Extension) == "" {
		logger.Warn("extension is not a known procedure type", "extension", cfg.Extension)
	}

	query := defaultQuery
	if fs.NArg() > 0 {
		query = strings.Join(fs.Args(), " ")
	}

	matcher, err := lang.NewMatcher(cfg.DefinePattern, cfg.IncludePattern)
	if err != nil {
		return err
	}

	// Discover files; the primary group comes first
	var files []discover.FileEntry
	for _, dir := range []string{cfg.IgorDir, cfg.UserDir} {
		found, err := discover.Files(dir, cfg.Extension)
		if err != nil {
			return fmt.Errorf("discovering files in %s: %w", dir, err)
		}
		files = append(files, found...)
	}

	files = filterBySize(files, cfg.MaxFileSize, logger)

	ctx := context.Background()

	// Scan files concurrently
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	cache, err := parse.ScanAll(ctx, matcher, paths, cfg.Workers)
	if err != nil {
		return fmt.Errorf("scanning procedures: %w: %w", forest.ErrFileUnreadable, err)
	}
	logger.Debug("scanned procedures", "files", cache.Len())

	// Resolve includes
	builder := forest.NewBuilder(cache,
		forest.WithIncludeDir(cfg.IncludeDirectory()),
		forest.WithExtension(cfg.Extension),
		forest.WithLogger(logger),
	)
	res, err := builder.Build(ctx, files)
	if err != nil {
		return fmt.Errorf("building forest: %w", err)
	}

	if list {
		return writeList(stdout, res, files, cache, match, maxRows)
	}

	node, err := forest.Find(res.Root, query)
	if errors.Is(err, forest.ErrSubtreeNotFound) {
		logger.Debug("query did not match a top-level procedure", "name", query)
		_, _ = fmt.Fprintln(stdout, notFoundMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if format == "toon" {
		_, err = fmt.Fprintln(stdout, toon.EncodeTree(node))
		return err
	}
	return render.Text(stdout, node)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func filterBySize(files []discover.FileEntry, maxSize int64, logger *slog.Logger) []discover.FileEntry {
	if maxSize <= 0 {
		return files
	}
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(f.Path)
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > maxSize {
			logger.Warn("skipping large file", "path", f.Path, "bytes", fi.Size(), "limit", maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// writeList prints the top-level procedures of res ranked by PageRank over
// the flat include graph of every scanned file.
func writeList(w io.Writer, res *forest.Result, files []discover.FileEntry, cache *parse.Cache, match string, maxRows int) error {
	seen := make(map[string]struct{}, len(files))
	var procs []model.ProcedureInfo
	for _, f := range files {
		if _, dup := seen[f.Name]; dup {
			continue
		}
		seen[f.Name] = struct{}{}
		ds, _ := cache.Lookup(f.Path)
		procs = append(procs, graph.Summarize(f.Name, f.Path, ds))
	}

	deps := graph.BuildGraph(procs)
	graph.Rank(procs, deps)

	l := ranking.SelectTopLevel(&model.Listing{Procedures: procs, Dependencies: deps}, res.Root)
	if match != "" {
		l = ranking.FilterByName(l, match)
	}
	l = ranking.SelectProcedures(l, maxRows)

	_, err := fmt.Fprintln(w, toon.EncodeListing(l))
	return err
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-config": true, "--config": true,
	"-igor": true, "--igor": true,
	"-user": true, "--user": true,
	"-include": true, "--include": true,
	"-format": true, "--format": true,
	"-max-file-size": true, "--max-file-size": true,
	"-workers": true, "--workers": true,
	"-n": true, "--n": true,
	"-match": true, "--match": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	if len(positional) > 0 {
		flags = append(flags, "--")
	}
	return append(flags, positional...)
}
