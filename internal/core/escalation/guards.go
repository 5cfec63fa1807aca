package escalation

import (
	"fmt"
	"strings"
)

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

// ResolveContext provides context for the resolve guard.
type ResolveContext struct {
	SessionID     string
	Answer        string
	HasEscalation bool
	Status        Status // status of the session's latest escalation
}

// CanResolve evaluates whether a supervisor answer can be recorded.
// Rules:
// - The answer must contain non-whitespace text
// - The session must have an escalation
// - PENDING and UNRESOLVED escalations can be resolved; RESOLVED is final
func CanResolve(ctx ResolveContext) GuardResult {
	if strings.TrimSpace(ctx.Answer) == "" {
		return GuardResult{Allowed: false, Reason: "answer is required"}
	}
	if !ctx.HasEscalation {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("session %s has no escalation to resolve", ctx.SessionID),
		}
	}
	if ctx.Status == StatusResolved {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("escalation for session %s is already resolved", ctx.SessionID),
		}
	}
	if _, ok := ParseStatus(string(ctx.Status)); !ok {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("escalation for session %s has unknown status %q", ctx.SessionID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// ExpireContext provides context for the aging guard.
type ExpireContext struct {
	EscalationID int64
	Status       Status
}

// CanExpire evaluates whether an escalation may be marked UNRESOLVED.
// Rule: only PENDING escalations age out; resolved or already expired ones are left alone.
func CanExpire(ctx ExpireContext) GuardResult {
	if ctx.Status != StatusPending {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("escalation %d is %s, only PENDING escalations expire", ctx.EscalationID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// ShouldAnswer reports whether retrieval was confident enough to answer
// without a supervisor. The top score must strictly exceed the threshold.
func ShouldAnswer(hits int, topScore, threshold float64) bool {
	return hits > 0 && topScore > threshold
}
