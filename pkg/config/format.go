package config

// OutputFormat selects how results are reported.
type OutputFormat string

const (
	OutputText    OutputFormat = "text"
	OutputJSON    OutputFormat = "json"
	OutputDiff    OutputFormat = "diff"
	OutputSummary OutputFormat = "summary"
	OutputTable   OutputFormat = "table"
)

// IsValid reports whether the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputText, OutputJSON, OutputDiff, OutputSummary, OutputTable:
		return true
	default:
		return false
	}
}

// ColorMode controls styled output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the color mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// BackupMode selects how original files are kept when writing in place.
type BackupMode string

const (
	BackupNone    BackupMode = "none"
	BackupSidecar BackupMode = "sidecar"
)

// IsValid reports whether the backup mode is known.
func (m BackupMode) IsValid() bool {
	switch m {
	case BackupNone, BackupSidecar:
		return true
	default:
		return false
	}
}
