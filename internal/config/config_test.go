package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("exifsidecar", pflag.ContinueOnError)
	fs.StringSlice("formats", nil, "")
	fs.BoolP("verbose", "v", false, "")
	fs.Bool("tui", false, "")
	fs.String("log-file", "", "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

// emptyEnvFile avoids picking up a .env from the working directory.
func emptyEnvFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{EnvFile: emptyEnvFile(t), FS: afero.NewMemMapFs()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.SupportedFormats.List(); !reflect.DeepEqual(got, []string{".jpeg", ".jpg"}) {
		t.Fatalf("unexpected default formats %v", got)
	}
	if cfg.Verbose || cfg.TUI || cfg.LogFile != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigFileThenEnvThenFlags(t *testing.T) {
	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, "/etc/exifsidecar.yaml", []byte("supported_formats:\n  - .JPG\n  - .png\nverbose: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(Options{ConfigFile: "/etc/exifsidecar.yaml", EnvFile: emptyEnvFile(t), FS: mem})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.SupportedFormats.List(); !reflect.DeepEqual(got, []string{".jpg", ".png"}) {
		t.Fatalf("unexpected formats from file %v", got)
	}
	if !cfg.Verbose || cfg.ConfigFileUsed != "/etc/exifsidecar.yaml" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	t.Setenv("EXIFSIDECAR_SUPPORTED_FORMATS", ".tif, .tiff")
	cfg, err = Load(Options{ConfigFile: "/etc/exifsidecar.yaml", EnvFile: emptyEnvFile(t), FS: mem})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.SupportedFormats.List(); !reflect.DeepEqual(got, []string{".tif", ".tiff"}) {
		t.Fatalf("env must override file, got %v", got)
	}

	flags := newFlags(t, "--formats", ".jpeg", "--tui", "--log-file", "run.log")
	cfg, err = Load(Options{ConfigFile: "/etc/exifsidecar.yaml", EnvFile: emptyEnvFile(t), FS: mem, Flags: flags})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.SupportedFormats.List(); !reflect.DeepEqual(got, []string{".jpeg"}) {
		t.Fatalf("flags must override env, got %v", got)
	}
	if !cfg.TUI || cfg.LogFile != "run.log" {
		t.Fatalf("unexpected flag values %+v", cfg)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.env")
	if err := os.WriteFile(path, []byte("EXIFSIDECAR_VERBOSE=true\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("EXIFSIDECAR_VERBOSE", "")
	os.Unsetenv("EXIFSIDECAR_VERBOSE")

	cfg, err := Load(Options{EnvFile: path, FS: afero.NewMemMapFs()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Verbose {
		t.Fatalf("expected verbose from env file")
	}
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, "/bad.yaml", []byte("supported_formats: [jpg]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(Options{ConfigFile: "/bad.yaml", EnvFile: emptyEnvFile(t), FS: mem}); err == nil {
		t.Fatalf("expected error for extension without dot")
	}
	if _, err := Load(Options{ConfigFile: "/missing.yaml", EnvFile: emptyEnvFile(t), FS: mem}); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
	if _, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env"), FS: mem}); err == nil {
		t.Fatalf("expected error for missing explicit env file")
	}
}

func TestParseFormats(t *testing.T) {
	set, err := ParseFormats([]string{".JPG,.jpeg", " .Png "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := set.List(); !reflect.DeepEqual(got, []string{".jpeg", ".jpg", ".png"}) {
		t.Fatalf("unexpected formats %v", got)
	}

	for _, bad := range [][]string{nil, {""}, {"jpg"}, {"."}, {".tar.gz"}, {"./jpg"}} {
		if _, err := ParseFormats(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
