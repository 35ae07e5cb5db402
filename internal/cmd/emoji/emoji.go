// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols printed by commands next to user-facing messages.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Stop marks a shutdown in progress.
	Stop = "■"

	// Warning marks a non-fatal problem.
	Warning = "!"

	// Rocket marks a server that is up.
	Rocket = "🚀"
)
