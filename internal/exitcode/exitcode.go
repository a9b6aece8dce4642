package exitcode

import (
	"os"
	"strings"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationFailed indicates a generated module failed blueprint validation
	ValidationFailed = 3

	// IncompleteSchema indicates a resolved tree still contains unresolved references
	IncompleteSchema = 4

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "failed validation") {
		return ValidationFailed
	}
	if strings.Contains(errMsg, "unresolved reference") {
		return IncompleteSchema
	}
	if strings.Contains(errMsg, "usage") || strings.Contains(errMsg, "unknown flag") {
		return UsageError
	}

	return GeneralError
}
