// Package config holds the capturer-construction option bag (spec §6.1)
// and loads it the way the teacher agent loads its own configuration: via
// viper, with file, environment and flag precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/opentraa/traa-sub001/internal/logging"
)

// Options is the configuration bag passed to the three capturer factories
// (screen, window, generic). Platform-toggle fields that this module's
// single cross-platform producer can't act on are kept as named no-op
// fields, preserved for wire/config-file compatibility with the system
// this was distilled from.
type Options struct {
	DetectUpdatedRegion            bool `mapstructure:"detect_updated_region"`
	DisableEffects                 bool `mapstructure:"disable_effects"`
	PreferCursorEmbedded           bool `mapstructure:"prefer_cursor_embedded"`
	UseUpdateNotifications         bool `mapstructure:"use_update_notifications"`
	EnumerateCurrentProcessWindows bool `mapstructure:"enumerate_current_process_windows"`

	// Windows platform toggles, preserved as no-ops: this module's
	// GenericCapturer has no DXGI/WGC backend to select between.
	AllowDirectXCapturer        bool `mapstructure:"allow_directx_capturer"`
	AllowWGCScreenCapturer      bool `mapstructure:"allow_wgc_screen_capturer"`
	AllowWGCWindowCapturer      bool `mapstructure:"allow_wgc_window_capturer"`
	AllowWGCCapturerFallback    bool `mapstructure:"allow_wgc_capturer_fallback"`
	AllowWGCZeroHertz           bool `mapstructure:"allow_wgc_zero_hertz"`
	AllowCroppingWindowCapturer bool `mapstructure:"allow_cropping_window_capturer"`

	// macOS platform toggles, preserved as no-ops.
	AllowIOSurface   bool `mapstructure:"allow_iosurface"`
	AllowSCKCapturer bool `mapstructure:"allow_sck_capturer"`

	// Linux platform toggles, preserved as no-ops.
	AllowPipewire           bool `mapstructure:"allow_pipewire"`
	PipewireUseDamageRegion bool `mapstructure:"pipewire_use_damage_region"`
	WidthHint               int `mapstructure:"width_hint"`
	HeightHint              int `mapstructure:"height_hint"`

	// FullScreenWindowDetectorEnabled wires a fullscreen.Detector into the
	// constructed capturer when true (spec §6.1's
	// `full_screen_window_detector: Option<Arc<...>>`, represented here as
	// a toggle rather than a shared pointer since Go callers construct and
	// own their own Detector).
	FullScreenWindowDetectorEnabled bool `mapstructure:"full_screen_window_detector_enabled"`

	BlankDetectorSampleStride int `mapstructure:"blank_detector_sample_stride"`

	// ScaleFactor downscales every captured frame by this factor in
	// (0, 1.0]; 1.0 (the default) disables scaling. Mirrors the teacher's
	// CaptureConfig.ScaleFactor from its remote-desktop streamer config.
	ScaleFactor float64 `mapstructure:"scale_factor"`

	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
}

// Default returns the spec-documented defaults (§6.1).
func Default() *Options {
	return &Options{
		DetectUpdatedRegion:             false,
		DisableEffects:                  true,
		PreferCursorEmbedded:            false,
		UseUpdateNotifications:          false,
		EnumerateCurrentProcessWindows:  true,
		AllowCroppingWindowCapturer:     true,
		BlankDetectorSampleStride:       105,
		ScaleFactor:                     1.0,
		LogLevel:                        "info",
		LogFormat:                       "text",
		LogMaxSizeMB:                    50,
		LogMaxBackups:                   3,
	}
}

// Load reads options from cfgFile (or the platform default search path
// when empty), environment variables prefixed TRAACAPTURE_, and whatever
// the caller has already Set on viper (typically CLI flags bound via
// viper.BindPFlag), in that increasing precedence order.
func Load(cfgFile string) (*Options, error) {
	opts := Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("traacapture")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TRAACAPTURE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(opts); err != nil {
		return nil, err
	}

	result := opts.Validate()
	log := logging.L("config")
	for _, w := range result.Warnings {
		log.Warn("config validation", logging.KeyError, w)
	}
	if result.HasFatals() {
		for _, f := range result.Fatals {
			log.Error("config validation fatal", logging.KeyError, f)
		}
		return nil, fmt.Errorf("config has fatal validation errors: %v", result.Fatals[0])
	}

	return opts, nil
}

// Save writes opts to the platform default config path.
func Save(opts *Options) error { return SaveTo(opts, "") }

// SaveTo writes opts to cfgFile, or the platform default path when empty.
func SaveTo(opts *Options, cfgFile string) error {
	viper.Set("detect_updated_region", opts.DetectUpdatedRegion)
	viper.Set("disable_effects", opts.DisableEffects)
	viper.Set("prefer_cursor_embedded", opts.PreferCursorEmbedded)
	viper.Set("use_update_notifications", opts.UseUpdateNotifications)
	viper.Set("enumerate_current_process_windows", opts.EnumerateCurrentProcessWindows)
	viper.Set("blank_detector_sample_stride", opts.BlankDetectorSampleStride)
	viper.Set("scale_factor", opts.ScaleFactor)
	viper.Set("log_level", opts.LogLevel)
	viper.Set("log_format", opts.LogFormat)

	var cfgPath string
	if cfgFile != "" {
		cfgPath = cfgFile
		if dir := filepath.Dir(cfgPath); dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return err
			}
		}
	} else {
		cfgPath = filepath.Join(configDir(), "traacapture.yaml")
		if err := os.MkdirAll(configDir(), 0700); err != nil {
			return err
		}
	}

	return viper.WriteConfigAs(cfgPath)
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "traacapture")
	case "darwin":
		return filepath.Join(string(os.PathSeparator), "Library", "Application Support", "traacapture")
	default:
		return "/etc/traacapture"
	}
}
