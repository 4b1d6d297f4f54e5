package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

// captureCLI runs the CLI with stdin fed from input and returns the exit
// code with everything written to stdout and stderr.
func captureCLI(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()

	stdin := os.Stdin
	stdout := os.Stdout
	stderr := os.Stderr

	inPath := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(inPath, []byte(input), 0o600); err != nil {
		t.Fatalf("stdin file: %v", err)
	}
	inFile, err := os.Open(inPath)
	if err != nil {
		t.Fatalf("stdin open: %v", err)
	}
	defer inFile.Close()

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdin = inFile
	os.Stdout = wOut
	os.Stderr = wErr

	outCh := make(chan []byte, 1)
	errCh := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(rOut)
		outCh <- data
	}()
	go func() {
		data, _ := io.ReadAll(rErr)
		errCh <- data
	}()

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdin = stdin
	os.Stdout = stdout
	os.Stderr = stderr

	outBytes := <-outCh
	errBytes := <-errCh
	rOut.Close()
	rErr.Close()

	return code, string(outBytes), string(errBytes)
}

func TestVersionAndHelp(t *testing.T) {
	code, stdout, _ := captureCLI(t, "", "--version")
	if code != 0 || strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("unexpected version output %d %q", code, stdout)
	}
	code, _, stderr := captureCLI(t, "", "--help")
	if code != 0 || !strings.Contains(stderr, "minipl check") {
		t.Fatalf("unexpected help output %d %q", code, stderr)
	}
	if code, _, _ := captureCLI(t, ""); code != 1 {
		t.Fatalf("no arguments should fail, got %d", code)
	}
}

func TestRunSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.mpl")
	writeFile(t, path, "var x : int := 2+3;\nprint x;")

	for _, args := range [][]string{{path}, {"run", path}} {
		code, stdout, stderr := captureCLI(t, "", args...)
		if code != 0 {
			t.Fatalf("%v: exit %d, stderr %q", args, code, stderr)
		}
		if stdout != "5" {
			t.Fatalf("%v: unexpected stdout %q", args, stdout)
		}
	}
}

func TestRunReadsStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sum.mpl")
	writeFile(t, path, `
var a : int;
var b : int;
read a;
read b;
print a + b;
`)
	code, stdout, stderr := captureCLI(t, "20 22\n", path)
	if code != 0 || stdout != "42" {
		t.Fatalf("unexpected result %d %q %q", code, stdout, stderr)
	}
}

func TestRunArgumentCount(t *testing.T) {
	code, _, stderr := captureCLI(t, "", "run", "a.mpl", "b.mpl")
	if code != 1 || !strings.Contains(stderr, "expected 1 source file argument, got 2") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestRunMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.mpl")
	code, _, stderr := captureCLI(t, "", missing)
	if code != 1 || !strings.HasPrefix(stderr, "There were problems with using file "+missing+": ") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestRunReportsDiagnosticsOnStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mpl")
	writeFile(t, path, `var x : int := "a";`)
	code, stdout, _ := captureCLI(t, "", path)
	if code != 1 {
		t.Fatalf("expected failure, got %d", code)
	}
	if stdout != "Semantic analysis error at 1:1: variable x of type int cannot hold value of type string\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestRunRuntimeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assert.mpl")
	writeFile(t, path, "assert (1 < 0);")
	code, stdout, stderr := captureCLI(t, "", path)
	if code != 1 || stderr != "" {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
	if !strings.Contains(stdout, "(1<0)") || !strings.HasSuffix(stdout, "Interpreter terminated with errors\n") {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestRunDumpsTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.mpl")
	writeFile(t, path, "print 1;")
	code, stdout, stderr := captureCLI(t, "", "run", "--tokens", path)
	if code != 0 || stdout != "1" {
		t.Fatalf("unexpected result %d %q", code, stdout)
	}
	if !strings.HasPrefix(stderr, "KEYWORD \"print\" at 1:1\nNUMBER \"1\" at 1:7\n") {
		t.Fatalf("unexpected token dump %q", stderr)
	}
}

func TestRunWatchRejectsRevision(t *testing.T) {
	code, _, stderr := captureCLI(t, "", "run", "--watch", "--rev", "HEAD", "prog.mpl")
	if code != 1 || !strings.Contains(stderr, "--watch cannot be combined with --rev") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestRunAtRevision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.mpl")
	writeFile(t, path, `print "committed";`)
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add("prog.mpl"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Mini-PL CLI",
			Email: "minipl@example.com",
			When:  time.Now(),
		},
	}); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	writeFile(t, path, `print "edited";`)

	code, stdout, stderr := captureCLI(t, "", "run", "--rev", "HEAD", path)
	if code != 0 || stdout != "committed" {
		t.Fatalf("unexpected result %d %q %q", code, stdout, stderr)
	}
	code, stdout, _ = captureCLI(t, "", path)
	if code != 0 || stdout != "edited" {
		t.Fatalf("working tree run: %d %q", code, stdout)
	}

	t.Setenv("MINIPL_REVISION", "no-such-rev")
	code, _, stderr = captureCLI(t, "", "check", "--rev", "", path)
	if code != 0 {
		t.Fatalf("an explicit empty --rev should read the working tree, got %d %q", code, stderr)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.mpl")
	writeFile(t, good, "var n : int; read n; print n;")
	code, stdout, _ := captureCLI(t, "", "check", good)
	if code != 0 || stdout != "" {
		t.Fatalf("check should not execute, got %d %q", code, stdout)
	}

	bad := filepath.Join(dir, "bad.mpl")
	writeFile(t, bad, "for i in 1..3 do end for;")
	code, stdout, _ = captureCLI(t, "", "check", bad)
	if code != 1 || !strings.Contains(stdout, "Parser error at 1:18: statement expected in for loop") {
		t.Fatalf("unexpected result %d %q", code, stdout)
	}
}

func TestTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.mpl")
	writeFile(t, path, "x := 1; $")
	code, stdout, stderr := captureCLI(t, "", "tokens", path)
	if code != 1 {
		t.Fatalf("expected failure for lexical error, got %d", code)
	}
	want := "IDENTIFIER \"x\" at 1:1\nSEPARATOR \":=\" at 1:3\nNUMBER \"1\" at 1:6\nSEPARATOR \";\" at 1:7\n"
	if stdout != want {
		t.Fatalf("unexpected tokens %q", stdout)
	}
	if !strings.Contains(stderr, "Lexical error at 1:9: unrecognized token '$'") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestScenarioCommand(t *testing.T) {
	code, stdout, stderr := captureCLI(t, "", "test", "../../testdata/scenarios")
	if code != 0 {
		t.Fatalf("scenarios failed: %q %q", stdout, stderr)
	}
	if !strings.HasSuffix(stdout, " passed, 0 failed\n") {
		t.Fatalf("unexpected summary %q", stdout)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "wrong.yml")
	writeFile(t, path, "name: wrong\nsource: print 1;\nexpect:\n  output: \"2\"\n")
	code, stdout, _ = captureCLI(t, "", "test", path)
	if code != 1 || !strings.Contains(stdout, "FAIL wrong") || !strings.Contains(stdout, "0 passed, 1 failed") {
		t.Fatalf("unexpected result %d %q", code, stdout)
	}
}
