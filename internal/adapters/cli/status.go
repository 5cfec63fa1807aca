// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing and output
// formatting, but delegate business logic to services.
package cli

import "github.com/fatih/color"

var (
	pendingColor    = color.New(color.FgYellow)
	resolvedColor   = color.New(color.FgGreen)
	unresolvedColor = color.New(color.FgRed)
)

// colorStatus renders an escalation status for terminal output.
func colorStatus(status string) string {
	switch status {
	case "PENDING":
		return pendingColor.Sprint(status)
	case "RESOLVED":
		return resolvedColor.Sprint(status)
	case "UNRESOLVED":
		return unresolvedColor.Sprint(status)
	case "":
		return "-"
	default:
		return status
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
