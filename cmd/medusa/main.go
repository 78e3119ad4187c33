package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/medusa-lang/medusa/internal/codegen"
	"github.com/medusa-lang/medusa/internal/config"
	"github.com/medusa-lang/medusa/internal/driver"
	"github.com/medusa-lang/medusa/internal/parser"
	"github.com/medusa-lang/medusa/internal/toolchain"
)

var (
	verbose        bool
	allowRedeclare bool
	buildOutput    string
	asmOutput      string

	logger = log.New(io.Discard)
)

var rootCmd = &cobra.Command{
	Use:   "medusa",
	Short: "Medusa compiler",
	Long:  "Compiles Medusa programs into Win64 executables via NASM.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <file.med>",
	Short: "Build a Medusa program",
	Long:  "Compile a Medusa source file to <base>.asm, assemble it to <base>.obj and link <base>.exe.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Default(os.Getenv)
		if err != nil {
			return fmt.Errorf("failed to get compilation config: %w", err)
		}
		cfg.AllowRedeclaration = allowRedeclare

		base := buildOutput
		if base == "" {
			base = trimExt(args[0])
		}
		base = strings.TrimSuffix(base, ".exe")

		source, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer source.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		d := driver.New(cfg, toolchain.ExecRunner{}, logger)
		if _, err := d.Compile(ctx, source, args[0], base); err != nil {
			cmd.SilenceUsage = true
			return err
		}
		return nil
	},
}

var asmCmd = &cobra.Command{
	Use:   "asm <file.med>",
	Short: "Generate NASM assembly",
	Long:  "Compile a Medusa source file to NASM assembly without running the assembler. Use -o - to write to standard output.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer source.Close()

		text, err := driver.CompileToAssembly(source, args[0], codegen.Options{
			AllowRedeclaration: allowRedeclare,
			Logger:             logger,
		})
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}

		output := asmOutput
		if output == "" {
			output = trimExt(args[0]) + ".asm"
		}
		if output == "-" {
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		}
		if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("error creating output file: %w", err)
		}
		logger.Info("wrote assembly", "path", output)
		return nil
	},
}

var astCmd = &cobra.Command{
	Use:   "ast <file.med>",
	Short: "Print the syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer source.Close()

		program, err := parser.Parse(source, args[0])
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), program)
		return nil
	},
}

var postfixCmd = &cobra.Command{
	Use:   "postfix <file.med>",
	Short: "Print every expression in postfix order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer source.Close()

		program, err := parser.Parse(source, args[0])
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
		for _, line := range codegen.ProgramPostfix(program) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	buildCmd.Flags().StringVarP(&buildOutput, "o", "o", "", "output base name (default: source name without extension)")
	buildCmd.Flags().BoolVar(&allowRedeclare, "allow-redeclare", false, "allow declaring a variable again with a new type")
	asmCmd.Flags().StringVarP(&asmOutput, "o", "o", "", "output file name, - for standard output")
	asmCmd.Flags().BoolVar(&allowRedeclare, "allow-redeclare", false, "allow declaring a variable again with a new type")

	rootCmd.AddCommand(buildCmd, asmCmd, astCmd, postfixCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a logger tagged with an identifier unique to this invocation.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "medusa",
	})
	return l.With("build", ulid.Make().String())
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
