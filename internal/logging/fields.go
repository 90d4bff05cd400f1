// Package logging wraps charmbracelet/log with the defaults and field names
// used across gotypstyle.
package logging

// Field names for structured logging.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Formatting.
	FieldWidth      = "width"
	FieldBlankLines = "blank_lines"
	FieldJobs       = "jobs"
	FieldCheck      = "check"
	FieldInplace    = "inplace"
	FieldLanguage   = "language"
	FieldLine       = "line"

	// Statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesChanged    = "files_changed"
	FieldFilesFailed     = "files_failed"
	FieldDuration        = "duration"

	// Server.
	FieldAddr      = "addr"
	FieldMethod    = "method"
	FieldRoute     = "route"
	FieldStatus    = "status"
	FieldRequestID = "request_id"
	FieldCache     = "cache"

	// Version.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
