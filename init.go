package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/phobologic/ipftree/internal/config"
)

const (
	defaultConfigPath = "ipftree.yaml"
	configHeader      = "# ipftree configuration. Command-line flags override these values.\n"
)

// runInit implements the `ipftree init` subcommand, which writes (or updates)
// an ipftree YAML config file.
func runInit(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("ipftree init", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var dryRun bool
	flags.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")

	flags.Usage = func() {
		fmt.Fprintf(stderr, `Usage: ipftree init [flags] [path-to-config]

Write an ipftree config file holding the default procedure directories and
patterns. Values already present in an existing file are kept; missing keys
are filled with defaults.

path-to-config defaults to ./%s.

Flags:
`, defaultConfigPath)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return err
	}

	defaults := config.Default(homeDir())

	// --dry-run with no path: just print the defaults.
	if dryRun && flags.NArg() == 0 {
		out, err := applyDefaults(nil, defaults)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(stdout, string(out))
		return nil
	}

	path := defaultConfigPath
	if flags.NArg() > 0 {
		path = flags.Arg(0)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	updated, err := applyDefaults(existing, defaults)
	if err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}

	if dryRun {
		_, _ = fmt.Fprint(stdout, string(updated))
		return nil
	}

	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote ipftree config to %s\n", path)
	return nil
}

// applyDefaults decodes existing over defaults and renders the merged config.
// It is a pure function for easy testing.
func applyDefaults(existing []byte, defaults config.Config) ([]byte, error) {
	cfg, err := config.Parse(existing, defaults)
	if err != nil {
		return nil, err
	}
	body, err := config.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return append([]byte(configHeader), body...), nil
}
