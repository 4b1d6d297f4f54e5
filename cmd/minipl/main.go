package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minipl/interpreter-go/pkg/config"
	"minipl/interpreter-go/pkg/driver"
	"minipl/interpreter-go/pkg/lexer"
	"minipl/interpreter-go/pkg/runtime"
	"minipl/interpreter-go/pkg/watch"
)

const cliToolVersion = "minipl 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "check":
		return runCheck(args[1:])
	case "tokens":
		return runTokens(args[1:])
	case "test":
		return runTests(args[1:])
	default:
		return runEntry(args)
	}
}

func runEntry(args []string) int {
	cfg := config.Load()
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	rev := fs.String("rev", cfg.Revision, "read the source as of this git revision")
	dumpTokens := fs.Bool("tokens", cfg.DumpTokens, "print the token stream to stderr before parsing")
	watchMode := fs.Bool("watch", false, "rerun whenever the source file changes")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	path, ok := singleSource(fs.Args())
	if !ok {
		return 1
	}

	if *watchMode {
		if *rev != "" {
			fmt.Fprintln(os.Stderr, "--watch cannot be combined with --rev")
			return 1
		}
		return watchEntry(path, *dumpTokens, cfg.WatchDebounce)
	}
	return executeEntry(path, *rev, *dumpTokens)
}

func executeEntry(path, rev string, dumpTokens bool) int {
	src, ok := loadSource(path, rev)
	if !ok {
		return 1
	}
	console := runtime.NewConsole(os.Stdin, os.Stdout)
	opts := driver.Options{}
	if dumpTokens {
		opts.DumpTokens = os.Stderr
	}
	res := driver.Run(console, bytes.NewReader(src), opts)
	if err := console.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return 1
	}
	if res.Err != nil && res.Status != driver.StatusRuntime {
		fmt.Fprintf(os.Stderr, "%v\n", res.Err)
	}
	if !res.OK() {
		return 1
	}
	return 0
}

// watchEntry runs path once, then again after every change, until the
// process is interrupted. The exit code is that of the last run.
func watchEntry(path string, dumpTokens bool, delay time.Duration) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := make(chan struct{}, 1)
	watcher, err := watch.New(delay, func(string) {
		select {
		case rerun <- struct{}{}:
		default:
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		fmt.Fprintf(os.Stderr, "There were problems with using file %s: %v\n", path, err)
		return 1
	}
	go func() {
		if err := watcher.Watch(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			stop()
		}
	}()

	code := executeEntry(path, "", dumpTokens)
	for {
		select {
		case <-ctx.Done():
			return code
		case <-rerun:
			fmt.Fprintf(os.Stderr, "\n%s changed, rerunning\n", path)
			code = executeEntry(path, "", dumpTokens)
		}
	}
}

func runCheck(args []string) int {
	cfg := config.Load()
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	rev := fs.String("rev", cfg.Revision, "read the source as of this git revision")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	path, ok := singleSource(fs.Args())
	if !ok {
		return 1
	}
	src, ok := loadSource(path, *rev)
	if !ok {
		return 1
	}

	console := runtime.NewConsole(os.Stdin, os.Stdout)
	res := driver.Check(console, bytes.NewReader(src), driver.Options{})
	if err := console.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return 1
	}
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", res.Err)
	}
	if !res.OK() {
		return 1
	}
	return 0
}

func runTokens(args []string) int {
	path, ok := singleSource(args)
	if !ok {
		return 1
	}
	src, ok := loadSource(path, config.Load().Revision)
	if !ok {
		return 1
	}
	lex := lexer.New(lexer.NewCursor(bytes.NewReader(src)))
	lex.LexAll()
	driver.DumpTokens(os.Stdout, lex.Tokens())
	for _, err := range lex.Errors() {
		fmt.Fprintln(os.Stderr, err)
	}
	if lex.Errored() {
		return 1
	}
	return 0
}

func runTests(args []string) int {
	target := config.Load().ScenarioDir
	switch len(args) {
	case 0:
	case 1:
		target = args[0]
	default:
		fmt.Fprintf(os.Stderr, "expected at most 1 scenario path, got %d\n", len(args))
		return 1
	}

	scenarios, err := loadScenarios(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	failed := 0
	for _, scenario := range scenarios {
		res := driver.RunScenario(scenario)
		if res.Passed() {
			fmt.Fprintf(os.Stdout, "PASS %s\n", scenario.Name)
			continue
		}
		failed++
		fmt.Fprintf(os.Stdout, "FAIL %s (%s)\n", scenario.Name, scenario.Path)
		for _, failure := range res.Failures {
			fmt.Fprintf(os.Stdout, "    %s\n", failure)
		}
	}
	fmt.Fprintf(os.Stdout, "%d passed, %d failed\n", len(scenarios)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func loadScenarios(target string) ([]*driver.Scenario, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if info.IsDir() {
		return driver.LoadScenarios(target)
	}
	scenario, err := driver.LoadScenario(target)
	if err != nil {
		return nil, err
	}
	return []*driver.Scenario{scenario}, nil
}

func singleSource(args []string) (string, bool) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "expected 1 source file argument, got %d\n", len(args))
		return "", false
	}
	return args[0], true
}

func loadSource(path, rev string) ([]byte, bool) {
	src, err := driver.LoadSource(path, rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "There were problems with using file %s: %v\n", path, err)
		return nil, false
	}
	return src, true
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  minipl [run] [--rev R] [--tokens] [--watch] <file.mpl>")
	fmt.Fprintln(os.Stderr, "  minipl check [--rev R] <file.mpl>")
	fmt.Fprintln(os.Stderr, "  minipl tokens <file.mpl>")
	fmt.Fprintln(os.Stderr, "  minipl test [dir|scenario.yml]")
	fmt.Fprintln(os.Stderr, "  minipl --version")
}
