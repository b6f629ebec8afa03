// Package errors provides structured error handling for rolodex.
//
// Error codes follow the pattern RDX_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Storage IO errors (file, database)
//   - 3XX: Network errors (HTTP storage backend)
//   - 4XX: Validation and lookup errors
//   - 5XX: Internal, synchronization and concurrency errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryStorage indicates storage backend I/O errors.
	CategoryStorage Category = "STORAGE"
	// CategoryNetwork indicates network-related errors.
	CategoryNetwork Category = "NETWORK"
	// CategoryValidation indicates input validation and lookup errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates synchronization and internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	CodeConfigNotFound = "RDX_101_CONFIG_NOT_FOUND"
	CodeConfigInvalid  = "RDX_102_CONFIG_INVALID"

	// Storage errors (200-299)
	CodeStorageRead    = "RDX_201_STORAGE_READ"
	CodeStorageWrite   = "RDX_202_STORAGE_WRITE"
	CodeStorageCorrupt = "RDX_203_STORAGE_CORRUPT"
	CodeStorageLocked  = "RDX_204_STORAGE_LOCKED"

	// Network errors (300-399)
	CodeNetworkTimeout     = "RDX_301_NETWORK_TIMEOUT"
	CodeNetworkUnavailable = "RDX_302_NETWORK_UNAVAILABLE"
	CodeRemoteStatus       = "RDX_303_REMOTE_STATUS"

	// Validation and lookup errors (400-499)
	CodeInvalidInput = "RDX_401_INVALID_INPUT"
	CodeQueryEmpty   = "RDX_402_QUERY_EMPTY"
	CodeQueryTooLong = "RDX_403_QUERY_TOO_LONG"
	CodeNotFound     = "RDX_404_CONTACT_NOT_FOUND"

	// Internal errors (500-599)
	CodeInternal        = "RDX_501_INTERNAL"
	CodeSynchronization = "RDX_502_SYNC_CONFLICT"
	CodePoisoned        = "RDX_503_WORKER_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryStorage
	case '3':
		return CategoryNetwork
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Synchronization conflicts abort the whole merge, so they are fatal to
// the operation; validation errors are recoverable by the caller.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryValidation:
		return SeverityWarning
	case CategoryInternal:
		return SeverityFatal
	default:
		return SeverityError
	}
}

// isRetryableCode reports whether the failed operation can be retried.
// Only transient network failures qualify.
func isRetryableCode(code string) bool {
	switch code {
	case CodeNetworkTimeout, CodeNetworkUnavailable:
		return true
	default:
		return false
	}
}
