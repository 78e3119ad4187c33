package config

import (
	"os"
	"testing"

	"github.com/nalgeon/be"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestForPlatform(t *testing.T) {
	cfg, err := ForPlatform("windows")
	be.Err(t, err, nil)
	be.Equal(t, cfg.Assembler, "nasm.exe")
	be.Equal(t, cfg.AssemblerFlags, []string{"-f", "win64"})
	be.Equal(t, cfg.Linker, "lld-link.exe")
	be.Equal(t, cfg.LinkerOutputFlag, "/out:")
	be.Equal(t, cfg.Libraries, []string{"kernel32.lib"})
	be.True(t, !cfg.AllowRedeclaration)

	cfg, err = ForPlatform("linux")
	be.Err(t, err, nil)
	be.Equal(t, cfg.Assembler, "nasm")
	be.Equal(t, cfg.Linker, "lld-link")
	be.Equal(t, cfg.LinkerFlags, []string{"/nologo", "/subsystem:console", "/entry:mainCRTStartup"})

	_, err = ForPlatform("plan9")
	be.Err(t, err, "unsupported platform")
}

func TestApplyEnv(t *testing.T) {
	cfg, err := ForPlatform("linux")
	be.Err(t, err, nil)

	sep := string(os.PathListSeparator)
	cfg.ApplyEnv(env(map[string]string{
		EnvAssembler: "/opt/nasm/bin/nasm",
		EnvLibraries: "kernel32.lib" + sep + " user32.lib " + sep,
	}))
	be.Equal(t, cfg.Assembler, "/opt/nasm/bin/nasm")
	be.Equal(t, cfg.Linker, "lld-link")
	be.Equal(t, cfg.Libraries, []string{"kernel32.lib", "user32.lib"})
}

func TestApplyEnvIgnoresEmptyValues(t *testing.T) {
	cfg, err := ForPlatform("linux")
	be.Err(t, err, nil)
	cfg.ApplyEnv(env(map[string]string{EnvLinker: "  ", EnvLibraries: ""}))
	be.Equal(t, cfg.Linker, "lld-link")
	be.Equal(t, cfg.Libraries, []string{"kernel32.lib"})
}

func TestDefault(t *testing.T) {
	cfg, err := Default(env(map[string]string{EnvLinker: "link.exe"}))
	if err != nil {
		t.Skipf("no default configuration for this platform: %v", err)
	}
	be.Equal(t, cfg.Linker, "link.exe")
}
