package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phobologic/allurecheck/internal/config"
)

const configHeader = `# allurecheck configuration.
# root:       directory scanned for test files
# extensions: file extensions to check
# exclude:    gitignore-style patterns, relative to root
# jobs:       files parsed in parallel (0 = GOMAXPROCS)

`

// runInit implements the `allurecheck init` subcommand, which writes a
// default configuration file.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("allurecheck init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dryRun, force bool
	fs.BoolVar(&dryRun, "dry-run", false, "print the configuration instead of writing it")
	fs.BoolVar(&force, "force", false, "overwrite an existing file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: allurecheck init [flags] [path]

Write a default allurecheck configuration file. path defaults to
./%s. An existing file is left alone unless -force is given.

Flags:
`, config.DefaultFile)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	content, err := defaultConfig()
	if err != nil {
		return err
	}

	if dryRun {
		_, _ = fmt.Fprint(stdout, content)
		return nil
	}

	path := config.DefaultFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote allurecheck configuration to %s\n", path)
	return nil
}

// defaultConfig renders the default configuration with an explanatory header.
func defaultConfig() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)
	if err := config.Default().Write(&buf); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return buf.String(), nil
}
