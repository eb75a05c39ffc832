package config

import "fmt"

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// ValidationResult splits validation issues into Fatals (the options
// cannot be used as given) and Warnings (a value was out of range and
// has been clamped to a safe default).
type ValidationResult struct {
	Fatals   []error
	Warnings []error
}

// HasFatals reports whether any fatal issue was found.
func (r ValidationResult) HasFatals() bool {
	return len(r.Fatals) > 0
}

// AllErrors returns Fatals followed by Warnings as a single flat slice.
func (r ValidationResult) AllErrors() []error {
	all := make([]error, 0, len(r.Fatals)+len(r.Warnings))
	all = append(all, r.Fatals...)
	all = append(all, r.Warnings...)
	return all
}

// Validate checks o for invalid or out-of-range values, clamping
// anything recoverable in place and reporting it as a warning. Values
// that cannot be defaulted away are reported as Fatals.
func (o *Options) Validate() ValidationResult {
	var result ValidationResult

	if o.BlankDetectorSampleStride <= 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("blank_detector_sample_stride %d is invalid, clamping to 105", o.BlankDetectorSampleStride))
		o.BlankDetectorSampleStride = 105
	}

	if o.LogMaxSizeMB <= 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("log_max_size_mb %d is invalid, clamping to 50", o.LogMaxSizeMB))
		o.LogMaxSizeMB = 50
	}

	if o.LogMaxBackups < 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("log_max_backups %d is invalid, clamping to 3", o.LogMaxBackups))
		o.LogMaxBackups = 3
	}

	if o.LogLevel != "" && !validLogLevels[o.LogLevel] {
		result.Warnings = append(result.Warnings, fmt.Errorf("log_level %q is not valid, defaulting to info", o.LogLevel))
		o.LogLevel = "info"
	}

	if o.LogFormat != "" && !validLogFormats[o.LogFormat] {
		result.Warnings = append(result.Warnings, fmt.Errorf("log_format %q is not valid, defaulting to text", o.LogFormat))
		o.LogFormat = "text"
	}

	if o.ScaleFactor <= 0 || o.ScaleFactor > 1.0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("scale_factor %v is invalid, clamping to 1.0", o.ScaleFactor))
		o.ScaleFactor = 1.0
	}

	if o.WidthHint < 0 {
		result.Fatals = append(result.Fatals, fmt.Errorf("width_hint %d must not be negative", o.WidthHint))
	}
	if o.HeightHint < 0 {
		result.Fatals = append(result.Fatals, fmt.Errorf("height_hint %d must not be negative", o.HeightHint))
	}

	return result
}
