package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/nalgeon/be"

	"github.com/medusa-lang/medusa/internal/config"
	"github.com/medusa-lang/medusa/internal/diag"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	result Result
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (Result, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.result, f.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.ForPlatform("linux")
	be.Err(t, err, nil)
	return cfg
}

func TestNASMArguments(t *testing.T) {
	runner := &fakeRunner{}
	nasm := NewNASM(testConfig(t), runner, nil)

	err := nasm.Assemble(context.Background(), "out.asm", "out.obj", "out.lst")
	be.Err(t, err, nil)
	be.Equal(t, len(runner.calls), 1)
	be.Equal(t, runner.calls[0].name, "nasm")
	be.Equal(t, runner.calls[0].args, []string{"-f", "win64", "out.asm", "-o", "out.obj", "-l", "out.lst"})
}

func TestLinkerArguments(t *testing.T) {
	runner := &fakeRunner{}
	cfg := testConfig(t)
	cfg.Libraries = []string{"kernel32.lib", "user32.lib"}
	linker := NewLLDLink(cfg, runner, nil)

	err := linker.Link(context.Background(), "out.exe", "out.obj")
	be.Err(t, err, nil)
	be.Equal(t, runner.calls[0].name, "lld-link")
	be.Equal(t, runner.calls[0].args, []string{
		"/nologo", "/subsystem:console", "/entry:mainCRTStartup",
		"/out:out.exe", "out.obj", "kernel32.lib", "user32.lib",
	})
}

func TestFlagsAreNotAliased(t *testing.T) {
	runner := &fakeRunner{}
	cfg := testConfig(t)
	cfg.AssemblerFlags = make([]string, 2, 8)
	copy(cfg.AssemblerFlags, []string{"-f", "win64"})
	nasm := NewNASM(cfg, runner, nil)

	be.Err(t, nasm.Assemble(context.Background(), "a.asm", "a.obj", "a.lst"), nil)
	be.Err(t, nasm.Assemble(context.Background(), "b.asm", "b.obj", "b.lst"), nil)
	be.Equal(t, runner.calls[0].args[2], "a.asm")
	be.Equal(t, len(cfg.AssemblerFlags), 2)
}

func TestToolFailure(t *testing.T) {
	testCases := []struct {
		name   string
		result Result
		msg    string
	}{
		{"stderr", Result{Stderr: "out.asm:3: error: parser: instruction expected\n", ExitCode: 1}, "Assembler failed: out.asm:3: error: parser: instruction expected"},
		{"stdout fallback", Result{Stdout: "fatal", ExitCode: 2}, "Assembler failed: fatal"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nasm := NewNASM(testConfig(t), &fakeRunner{result: tc.result}, nil)
			err := nasm.Assemble(context.Background(), "out.asm", "out.obj", "out.lst")
			be.Err(t, err, tc.msg)
			kind, ok := diag.KindOf(err)
			be.True(t, ok)
			be.Equal(t, kind, diag.KindToolchain)
		})
	}
}

func TestLinkerFailure(t *testing.T) {
	runner := &fakeRunner{result: Result{Stderr: "undefined symbol: ExitProcess", ExitCode: 1}}
	linker := NewLLDLink(testConfig(t), runner, nil)
	err := linker.Link(context.Background(), "out.exe", "out.obj")
	be.Err(t, err, "Linker failed: undefined symbol: ExitProcess")
}

func TestStartFailure(t *testing.T) {
	missing := errors.New("executable file not found")
	linker := NewLLDLink(testConfig(t), &fakeRunner{err: missing}, nil)
	err := linker.Link(context.Background(), "out.exe", "out.obj")
	be.Err(t, err, missing)
	kind, _ := diag.KindOf(err)
	be.Equal(t, kind, diag.KindToolchain)
}

func TestWarningsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	runner := &fakeRunner{result: Result{Stderr: "warning: label alone on a line"}}
	nasm := NewNASM(testConfig(t), runner, logger)

	be.Err(t, nasm.Assemble(context.Background(), "out.asm", "out.obj", "out.lst"), nil)
	be.True(t, bytes.Contains(buf.Bytes(), []byte("Assembler reported warnings")))
	be.True(t, bytes.Contains(buf.Bytes(), []byte("label alone on a line")))
}

func TestSuccessIsLogged(t *testing.T) {
	var buf bytes.Buffer
	linker := NewLLDLink(testConfig(t), &fakeRunner{}, log.New(&buf))
	be.Err(t, linker.Link(context.Background(), "out.exe", "out.obj"), nil)
	be.True(t, bytes.Contains(buf.Bytes(), []byte("Linker succeeded")))
}

// TestHelperProcess is not a real test. ExecRunner tests re-run the test
// binary with it selected to get a subprocess with known behavior.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("MEDUSA_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Fprint(os.Stdout, "out")
	fmt.Fprint(os.Stderr, "err")
	if os.Getenv("MEDUSA_HELPER_EXIT") == "1" {
		os.Exit(3)
	}
	os.Exit(0)
}

func TestExecRunner(t *testing.T) {
	t.Setenv("MEDUSA_HELPER_PROCESS", "1")

	result, err := ExecRunner{}.Run(context.Background(), os.Args[0], "-test.run=^TestHelperProcess$")
	be.Err(t, err, nil)
	be.Equal(t, result, Result{Stdout: "out", Stderr: "err", ExitCode: 0})

	t.Setenv("MEDUSA_HELPER_EXIT", "1")
	result, err = ExecRunner{}.Run(context.Background(), os.Args[0], "-test.run=^TestHelperProcess$")
	be.Err(t, err, nil)
	be.Equal(t, result.ExitCode, 3)
	be.Equal(t, result.Stderr, "err")
}

func TestExecRunnerMissingProgram(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "medusa-no-such-tool")
	be.True(t, err != nil)
}
