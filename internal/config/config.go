// Package config holds the toolchain and compiler settings used by a build.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Environment variables that override the platform defaults.
const (
	EnvAssembler = "MEDUSA_ASSEMBLER"
	EnvLinker    = "MEDUSA_LINKER"
	EnvLibraries = "MEDUSA_LIBS"
)

// Config holds platform-specific build settings.
type Config struct {
	Assembler      string
	AssemblerFlags []string
	Linker         string
	LinkerFlags    []string
	// LinkerOutputFlag is prepended to the executable path, e.g. "/out:".
	LinkerOutputFlag string
	Libraries        []string
	// AllowRedeclaration lets a variable be declared again with a new type.
	AllowRedeclaration bool
}

// ForPlatform returns the default configuration for goos.
// Output is always a Win64 executable; other hosts cross-link with lld-link.
func ForPlatform(goos string) (*Config, error) {
	base := Config{
		Assembler:        "nasm",
		AssemblerFlags:   []string{"-f", "win64"},
		LinkerFlags:      []string{"/nologo", "/subsystem:console", "/entry:mainCRTStartup"},
		LinkerOutputFlag: "/out:",
		Libraries:        []string{"kernel32.lib"},
	}
	switch goos {
	case "windows":
		base.Assembler = "nasm.exe"
		base.Linker = "lld-link.exe"
		return &base, nil
	case "linux", "darwin", "freebsd":
		base.Linker = "lld-link"
		return &base, nil
	}
	return nil, fmt.Errorf("unsupported platform: %s", goos)
}

// Default returns the configuration for the current platform with
// environment overrides applied.
func Default(getenv func(string) string) (*Config, error) {
	cfg, err := ForPlatform(runtime.GOOS)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(getenv)
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables that are set and non-empty.
// MEDUSA_LIBS is a list separated by the OS path list separator.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAssembler)); v != "" {
		c.Assembler = v
	}
	if v := strings.TrimSpace(getenv(EnvLinker)); v != "" {
		c.Linker = v
	}
	if v := strings.TrimSpace(getenv(EnvLibraries)); v != "" {
		var libs []string
		for _, lib := range filepath.SplitList(v) {
			if lib = strings.TrimSpace(lib); lib != "" {
				libs = append(libs, lib)
			}
		}
		c.Libraries = libs
	}
}
