// Package exitcode defines named exit codes for ai-task-notify.
//
// Agent tools only distinguish zero from non-zero, so the set is small.
package exitcode

const (
	Success = 0 // At least one channel delivered, or nothing to do
	Failure = 1 // No input, bad configuration, or every channel failed
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	default:
		return "unknown"
	}
}
