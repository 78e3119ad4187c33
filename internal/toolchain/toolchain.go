package toolchain

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/medusa-lang/medusa/internal/config"
	"github.com/medusa-lang/medusa/internal/diag"
	"github.com/medusa-lang/medusa/internal/lexer"
)

// Assembler turns a NASM source file into an object file and a listing.
type Assembler interface {
	Assemble(ctx context.Context, source, object, listing string) error
}

// Linker turns object files into an executable.
type Linker interface {
	Link(ctx context.Context, executable string, objects ...string) error
}

// NASM invokes the Netwide Assembler.
type NASM struct {
	Path   string
	Flags  []string
	Runner Runner
	Logger *log.Logger
}

// NewNASM returns an assembler configured from cfg.
func NewNASM(cfg *config.Config, runner Runner, logger *log.Logger) *NASM {
	return &NASM{Path: cfg.Assembler, Flags: cfg.AssemblerFlags, Runner: runner, Logger: orDiscard(logger)}
}

func (n *NASM) Assemble(ctx context.Context, source, object, listing string) error {
	args := append([]string{}, n.Flags...)
	args = append(args, source, "-o", object, "-l", listing)
	return run(ctx, n.Runner, orDiscard(n.Logger), "Assembler", n.Path, args)
}

// LLDLink invokes an MSVC-compatible linker such as lld-link or link.exe.
type LLDLink struct {
	Path       string
	Flags      []string
	OutputFlag string
	Libraries  []string
	Runner     Runner
	Logger     *log.Logger
}

// NewLLDLink returns a linker configured from cfg.
func NewLLDLink(cfg *config.Config, runner Runner, logger *log.Logger) *LLDLink {
	return &LLDLink{
		Path:       cfg.Linker,
		Flags:      cfg.LinkerFlags,
		OutputFlag: cfg.LinkerOutputFlag,
		Libraries:  cfg.Libraries,
		Runner:     runner,
		Logger:     orDiscard(logger),
	}
}

func (l *LLDLink) Link(ctx context.Context, executable string, objects ...string) error {
	args := append([]string{}, l.Flags...)
	args = append(args, l.OutputFlag+executable)
	args = append(args, objects...)
	args = append(args, l.Libraries...)
	return run(ctx, l.Runner, orDiscard(l.Logger), "Linker", l.Path, args)
}

func run(ctx context.Context, runner Runner, logger *log.Logger, tool, path string, args []string) error {
	logger.Debug("running", "tool", strings.ToLower(tool), "cmd", path, "args", strings.Join(args, " "))
	result, err := runner.Run(ctx, path, args...)
	if err != nil {
		return diag.Wrap(diag.KindToolchain, fmt.Errorf("%s %s: %w", tool, path, err))
	}
	stderr := strings.TrimSpace(result.Stderr)
	if result.ExitCode != 0 {
		if stderr == "" {
			stderr = strings.TrimSpace(result.Stdout)
		}
		return diag.Errorf(diag.KindToolchain, lexer.Location{}, nil, "%s failed: %s", tool, stderr)
	}
	if stderr != "" {
		logger.Warn(tool+" reported warnings", "output", stderr)
	} else {
		logger.Info(tool+" succeeded", "cmd", path)
	}
	return nil
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
