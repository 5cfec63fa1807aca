// Package member contains the pure business logic for salon membership.
// This is part of the Functional Core - no I/O, only pure functions.
package member

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhone keeps only the digits of a phone number, so "(555) 123-4567"
// and "555.123.4567" identify the same caller. Returns "" when no digits remain.
func NormalizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// RegisterContext provides context for the registration guard.
type RegisterContext struct {
	PhoneNumber   string // normalized
	AlreadyMember bool
}

// CanRegister evaluates whether a phone number can become a member.
// Rules:
// - The number must contain digits
// - The number must not already belong to a member
func CanRegister(ctx RegisterContext) GuardResult {
	if ctx.PhoneNumber == "" {
		return GuardResult{Allowed: false, Reason: "phone number must contain digits"}
	}
	if ctx.AlreadyMember {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s is already a member", ctx.PhoneNumber),
		}
	}
	return GuardResult{Allowed: true}
}
