package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/medusa-lang/medusa/internal/casefile"
	"github.com/medusa-lang/medusa/internal/config"
	"github.com/medusa-lang/medusa/internal/driver"
)

// TestCase is one case with an execute assertion.
type TestCase struct {
	File     string
	Name     string
	Program  string
	Stdin    string
	Expected string
}

// discoverTests collects the executable cases of every Markdown file in dir.
func discoverTests(dir string) ([]TestCase, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}

	var tests []TestCase
	for _, file := range files {
		cases, err := casefile.Load(file)
		if err != nil {
			return nil, err
		}
		for _, c := range cases {
			for _, a := range c.Assertions {
				if a.Type != casefile.AssertionExecute {
					continue
				}
				tests = append(tests, TestCase{
					File:     file,
					Name:     c.Name,
					Program:  c.Program,
					Stdin:    c.Stdin,
					Expected: a.Content,
				})
			}
		}
	}
	return tests, nil
}

// slug turns a case name into a file name.
func slug(name string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return '_'
	}, name)
}

// runTest executes a built program and returns its standard output.
func runTest(binaryPath, stdin string) (string, error) {
	cmd := exec.Command(binaryPath)
	cmd.Stdin = strings.NewReader(stdin)
	output, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(output), fmt.Errorf("exit status %d", exitErr.ExitCode())
	}
	return string(output), err
}

func cleanupFiles(out driver.Artifacts) {
	for _, file := range []string{out.Assembly, out.Object, out.Listing, out.Executable} {
		os.Remove(file) // Ignore errors - files might not exist
	}
}

// runSingleTest builds and runs a case and returns pass/fail status.
func runSingleTest(cfg *config.Config, test TestCase, workDir string) (bool, string) {
	fmt.Printf("Running test %s... ", test.Name)

	base := filepath.Join(workDir, slug(test.Name))
	out := driver.ArtifactsFor(base)
	if err := driver.Compile(context.Background(), test.Program, base, cfg); err != nil {
		return false, fmt.Sprintf("compilation error: %v", err)
	}

	actual, err := runTest(out.Executable, test.Stdin)
	if err != nil {
		return false, fmt.Sprintf("runtime error: %v", err)
	}
	actual = strings.TrimRight(strings.ReplaceAll(actual, "\r\n", "\n"), "\n")

	if actual == test.Expected {
		cleanupFiles(out)
		return true, ""
	}
	// Leave the files for inspection.
	return false, fmt.Sprintf("output mismatch:\nExpected: %q\nActual:   %q", test.Expected, actual)
}

func main() {
	cfg, err := config.Default(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	testsDir := filepath.Join("internal", "driver", "testdata")
	tests, err := discoverTests(testsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering tests: %v\n", err)
		os.Exit(1)
	}
	if len(tests) == 0 {
		fmt.Printf("No executable tests found in %s\n", testsDir)
		return
	}

	sort.SliceStable(tests, func(i, j int) bool {
		return tests[i].File < tests[j].File
	})

	// An argument selects the cases whose name contains it.
	if len(os.Args) > 1 {
		var selected []TestCase
		for _, test := range tests {
			if strings.Contains(test.Name, os.Args[1]) {
				selected = append(selected, test)
			}
		}
		if len(selected) == 0 {
			fmt.Fprintf(os.Stderr, "Error: test not found: %s\n", os.Args[1])
			os.Exit(1)
		}
		tests = selected
	}
	fmt.Printf("Found %d tests\n", len(tests))

	workDir, err := os.MkdirTemp("", "medusa-tests-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	passed := 0
	failed := 0
	for _, test := range tests {
		success, errorMsg := runSingleTest(cfg, test, workDir)
		if success {
			fmt.Println("PASS")
			passed++
		} else {
			fmt.Printf("FAIL - %s\n", errorMsg)
			failed++
		}
	}

	if failed == 0 {
		fmt.Printf("Test Results: %d passed. All good!\n", passed)
		os.Remove(workDir)
	} else {
		fmt.Printf("Test Results: %d passed, %d failed (files kept in %s)\n", passed, failed, workDir)
		os.Exit(1)
	}
}
