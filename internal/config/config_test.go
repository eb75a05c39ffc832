package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
}

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	opts := Default()

	if opts.DetectUpdatedRegion {
		t.Fatal("DetectUpdatedRegion default should be false")
	}
	if !opts.DisableEffects {
		t.Fatal("DisableEffects default should be true")
	}
	if opts.PreferCursorEmbedded {
		t.Fatal("PreferCursorEmbedded default should be false")
	}
	if !opts.EnumerateCurrentProcessWindows {
		t.Fatal("EnumerateCurrentProcessWindows default should be true")
	}
	if opts.BlankDetectorSampleStride != 105 {
		t.Fatalf("BlankDetectorSampleStride default = %d, want 105", opts.BlankDetectorSampleStride)
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "traacapture.yaml")
	contents := "detect_updated_region: true\nlog_level: debug\n"
	if err := os.WriteFile(cfgPath, []byte(contents), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !opts.DetectUpdatedRegion {
		t.Fatal("expected DetectUpdatedRegion true from file")
	}
	if opts.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", opts.LogLevel)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	resetViper(t)

	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file should not error: %v", err)
	}
	if opts.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info (default)", opts.LogLevel)
	}
}

func TestLoadRejectsFatalValidationErrors(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "traacapture.yaml")
	if err := os.WriteFile(cfgPath, []byte("width_hint: -1\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("expected error for fatal validation failure")
	}
}

func TestSaveToThenLoadRoundTrips(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "roundtrip.yaml")

	opts := Default()
	opts.DetectUpdatedRegion = true
	opts.LogLevel = "warn"

	if err := SaveTo(opts, cfgPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	resetViper(t)
	loaded, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.DetectUpdatedRegion {
		t.Fatal("expected DetectUpdatedRegion true after round trip")
	}
	if loaded.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn after round trip", loaded.LogLevel)
	}
}
