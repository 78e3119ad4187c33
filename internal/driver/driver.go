// Package driver runs the whole compilation pipeline: source text to
// assembly, object file and executable.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/medusa-lang/medusa/internal/codegen"
	"github.com/medusa-lang/medusa/internal/config"
	"github.com/medusa-lang/medusa/internal/diag"
	"github.com/medusa-lang/medusa/internal/parser"
	"github.com/medusa-lang/medusa/internal/toolchain"
)

// CompileToAssembly parses source and returns the generated NASM text.
func CompileToAssembly(source io.Reader, filename string, opts codegen.Options) (string, error) {
	program, err := parser.Parse(source, filename)
	if err != nil {
		return "", err
	}
	return codegen.Generate(program, opts)
}

// Artifacts are the files produced for an output base name.
type Artifacts struct {
	Assembly   string
	Object     string
	Listing    string
	Executable string
}

func ArtifactsFor(outputBase string) Artifacts {
	return Artifacts{
		Assembly:   outputBase + ".asm",
		Object:     outputBase + ".obj",
		Listing:    outputBase + ".lst",
		Executable: outputBase + ".exe",
	}
}

type Driver struct {
	Config    *config.Config
	Logger    *log.Logger
	Assembler toolchain.Assembler
	Linker    toolchain.Linker
}

// New returns a driver whose toolchain steps run through runner.
func New(cfg *config.Config, runner toolchain.Runner, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		Config:    cfg,
		Logger:    logger,
		Assembler: toolchain.NewNASM(cfg, runner, logger),
		Linker:    toolchain.NewLLDLink(cfg, runner, logger),
	}
}

// Compile writes <outputBase>.asm, assembles it and links <outputBase>.exe.
// Files written before a failing step are left in place.
func (d *Driver) Compile(ctx context.Context, source io.Reader, filename, outputBase string) (Artifacts, error) {
	out := ArtifactsFor(outputBase)
	logger := d.Logger.With("source", filename)

	text, err := CompileToAssembly(source, filename, codegen.Options{
		AllowRedeclaration: d.Config.AllowRedeclaration,
		Logger:             logger,
	})
	if err != nil {
		return out, err
	}

	if err := os.WriteFile(out.Assembly, []byte(text), 0o644); err != nil {
		return out, fmt.Errorf("writing assembly: %w", err)
	}
	logger.Debug("wrote assembly", "path", out.Assembly, "bytes", len(text))

	if err := d.Assembler.Assemble(ctx, out.Assembly, out.Object, out.Listing); err != nil {
		return out, err
	}
	if err := d.Linker.Link(ctx, out.Executable, out.Object); err != nil {
		return out, err
	}
	logger.Info("built", "executable", out.Executable)
	return out, nil
}

// Compile builds the program in source into <outputBase>.exe using the
// installed toolchain described by cfg.
func Compile(ctx context.Context, source, outputBase string, cfg *config.Config) error {
	return compileWith(ctx, toolchain.ExecRunner{}, source, outputBase, cfg)
}

func compileWith(ctx context.Context, runner toolchain.Runner, source, outputBase string, cfg *config.Config) error {
	d := New(cfg, runner, nil)
	_, err := d.Compile(ctx, strings.NewReader(source), outputBase+".med", outputBase)
	return err
}

// IsUserError reports whether err is caused by the program being compiled
// rather than by the compiler or its environment.
func IsUserError(err error) bool {
	kind, ok := diag.KindOf(err)
	return ok && (kind == diag.KindSyntax || kind == diag.KindSemantic)
}
