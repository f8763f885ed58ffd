package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by editors and scripts.
const (
	// Mod and config errors
	ErrModNotFound     = "MOD_NOT_FOUND"
	ErrVanillaNotFound = "VANILLA_NOT_FOUND"
	ErrConfigInvalid   = "CONFIG_INVALID"

	// Schema errors
	ErrSchemaInvalid  = "SCHEMA_INVALID"
	ErrSchemaNotFound = "SCHEMA_PATH_NOT_FOUND"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"
	ErrRunNotFound   = "RUN_NOT_FOUND"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnParseFailed    = "PARSE_FAILED"
	WarnFileSkipped    = "FILE_SKIPPED"
	WarnNoVanilla      = "NO_VANILLA"
	WarnRecordFailed   = "RECORD_FAILED"
)
