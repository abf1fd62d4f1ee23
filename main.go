// allurecheck checks that pytest test files carry the required allure
// annotations: a unique numeric @allure.id on every test function, an
// owner label on every test class, and no flaky markers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/phobologic/allurecheck/internal/check"
	"github.com/phobologic/allurecheck/internal/config"
	"github.com/phobologic/allurecheck/internal/discover"
	"github.com/phobologic/allurecheck/internal/model"
	"github.com/phobologic/allurecheck/internal/report"
	"github.com/phobologic/allurecheck/internal/syntax"
)

var version = "dev"

// errViolations is returned by run when at least one error-severity
// diagnostic was reported. It maps to exit status 1; any other error is
// fatal and maps to 2.
var errViolations = errors.New("annotation rules violated")

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errViolations):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "init" {
		return runInit(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("allurecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  string
		format      string
		colorMode   string
		jobs        int
		verbose     bool
		showVersion bool
	)

	fs.StringVar(&configPath, "config", "", "config file path (default "+config.DefaultFile+" if present)")
	fs.StringVar(&format, "format", string(report.Text), "output format: text or json")
	fs.StringVar(&colorMode, "color", "auto", "colorize text output: auto, always or never")
	fs.IntVar(&jobs, "j", 0, "number of files parsed in parallel (default GOMAXPROCS)")
	fs.IntVar(&jobs, "jobs", 0, "number of files parsed in parallel (default GOMAXPROCS)")
	fs.BoolVar(&verbose, "v", false, "report each checked file on stderr")
	fs.BoolVar(&verbose, "verbose", false, "report each checked file on stderr")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: allurecheck [flags] [root]
       allurecheck init [flags] [path]

Check every test file under root (default "tests") for allure annotations.
Exit status is 0 when no errors are found, 1 when any rule reports an
error, and 2 when the run could not complete.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "allurecheck %s\n", version)
		return nil
	}

	outFormat, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	useColor, err := resolveColor(colorMode, stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		cfg.Root = fs.Arg(0)
	}
	if jobs > 0 {
		cfg.Jobs = jobs
	}

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", cfg.Root)
	}

	files, err := discover.Files(cfg.Root, discover.Options{
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
	})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(stderr, "Warning: no test files found under %s\n", cfg.Root)
	}

	units, err := parseFiles(context.Background(), cfg.Root, files, cfg.Jobs)
	if err != nil {
		return err
	}

	// The checker must see files one at a time, in discovery order: the
	// registry decides that the later of two equal ids is the duplicate.
	var diags model.Set
	checker := check.New(check.NewRegistry(), &diags)
	for _, u := range units {
		n := checker.Check(u)
		if verbose {
			_, _ = fmt.Fprintf(stderr, "checked %s: %d diagnostics\n", u.Path, n)
		}
	}

	if err := report.Write(stdout, outFormat, diags.Items(), useColor); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if diags.HasAnyError() {
		return errViolations
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load(config.DefaultFile, false)
	}
	return config.Load(path, true)
}

func resolveColor(mode string, stdout io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := stdout.(*os.File)
		return ok && !color.NoColor && term.IsTerminal(int(f.Fd())), nil
	}
	return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
}

// parseFiles reads and parses files in parallel, one parser per worker.
// Units come back in the order of files. The first file that cannot be
// read or parsed aborts the whole run.
func parseFiles(ctx context.Context, root string, files []discover.FileEntry, jobs int) ([]check.SourceUnit, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))

	units := make([]check.SourceUnit, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	work := make(chan int)

	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range jobs {
		g.Go(func() error {
			// Each goroutine gets its own parser
			parser := syntax.NewParser()
			for i := range work {
				path := filepath.Join(root, files[i].Path)
				source, err := os.ReadFile(path)
				if err != nil {
					errs[i] = fmt.Errorf("reading %s: %w", path, err)
					return errs[i]
				}
				tree, err := parser.Parse(gctx, path, source)
				if err != nil {
					// A parse cut short by another file's failure is not this file's fault.
					if gctx.Err() != nil {
						return gctx.Err()
					}
					errs[i] = err
					return err
				}
				units[i] = check.SourceUnit{Path: path, Root: tree}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Report the earliest failing file rather than whichever worker lost the race.
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, err
	}
	return units, nil
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-config": true, "--config": true,
	"-format": true, "--format": true,
	"-color": true, "--color": true,
	"-j": true, "--j": true,
	"-jobs": true, "--jobs": true,
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
	return append(flags, positional...)
}
