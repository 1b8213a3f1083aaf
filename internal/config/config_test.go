package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// fakeBinder wraps a pflag.FlagSet to satisfy the flagBinder interface.
type fakeBinder struct {
	fs *pflag.FlagSet
}

func (f *fakeBinder) Flags() *pflag.FlagSet { return f.fs }

// chdir changes into dir for the duration of the test. It stands in for
// testing.T.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

// newFlagBinder creates a FlagSet with all config flags registered at their defaults.
func newFlagBinder(defaults Config) *fakeBinder {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	return &fakeBinder{fs: fs}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "info")
	}

	if cfg.Paths.DiphoneDir != "diphones" {
		t.Errorf("Paths.DiphoneDir = %q; want %q", cfg.Paths.DiphoneDir, "diphones")
	}

	if cfg.Paths.LexiconPath != "cmudict.dict" {
		t.Errorf("Paths.LexiconPath = %q; want %q", cfg.Paths.LexiconPath, "cmudict.dict")
	}

	if cfg.Audio.OutputRate != 16000 {
		t.Errorf("Audio.OutputRate = %d; want 16000", cfg.Audio.OutputRate)
	}

	if cfg.Audio.Channels != 1 {
		t.Errorf("Audio.Channels = %d; want 1", cfg.Audio.Channels)
	}

	if cfg.Audio.ChunkFrames != 256 {
		t.Errorf("Audio.ChunkFrames = %d; want 256", cfg.Audio.ChunkFrames)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("Server.ListenAddr = %q; want %q", cfg.Server.ListenAddr, ":8080")
	}

	if cfg.Server.Workers != 2 {
		t.Errorf("Server.Workers = %d; want 2", cfg.Server.Workers)
	}

	if cfg.Server.ShutdownTimeout != 30 {
		t.Errorf("Server.ShutdownTimeout = %d; want 30", cfg.Server.ShutdownTimeout)
	}

	if cfg.Server.MaxTextBytes != 4096 {
		t.Errorf("Server.MaxTextBytes = %d; want 4096", cfg.Server.MaxTextBytes)
	}

	if cfg.Server.RequestTimeout != 60 {
		t.Errorf("Server.RequestTimeout = %d; want 60", cfg.Server.RequestTimeout)
	}
}

func TestLoadDefaultsWithoutSources(t *testing.T) {
	// Run from an empty directory so no stray diphonetts.yaml is picked up.
	chdir(t, t.TempDir())

	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("Load without sources = %+v; want defaults", cfg)
	}
}

func TestLoadFlagOverride(t *testing.T) {
	chdir(t, t.TempDir())

	defaults := DefaultConfig()
	binder := newFlagBinder(defaults)
	if err := binder.fs.Parse([]string{"--paths-diphone-dir", "/assets/diphones", "--audio-output-rate", "48000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(LoadOptions{Cmd: binder, Defaults: defaults})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Paths.DiphoneDir != "/assets/diphones" {
		t.Errorf("Paths.DiphoneDir = %q; want flag override", cfg.Paths.DiphoneDir)
	}
	if cfg.Audio.OutputRate != 48000 {
		t.Errorf("Audio.OutputRate = %d; want 48000", cfg.Audio.OutputRate)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DIPHONETTS_PATHS_LEXICON_PATH", "/dict/cmudict.dict")

	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Paths.LexiconPath != "/dict/cmudict.dict" {
		t.Errorf("Paths.LexiconPath = %q; want env override", cfg.Paths.LexiconPath)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diphonetts.yaml")
	content := []byte("log_level: debug\npaths:\n  diphone_dir: /srv/diphones\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "debug")
	}
	if cfg.Paths.DiphoneDir != "/srv/diphones" {
		t.Errorf("Paths.DiphoneDir = %q; want file value", cfg.Paths.DiphoneDir)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Audio.OutputRate != 16000 {
		t.Errorf("Audio.OutputRate = %d; want default 16000", cfg.Audio.OutputRate)
	}
}

func TestLoadMissingConfigFileFails(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: "/does/not/exist.yaml", Defaults: DefaultConfig()})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
