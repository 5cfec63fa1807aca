package ctxutil

import (
	"context"
	"testing"
)

func TestCallerFromContext(t *testing.T) {
	t.Run("returns embedded caller", func(t *testing.T) {
		ctx := WithCaller(context.Background(), Caller{SessionID: "abc", PhoneNumber: "5559183746"})
		got := CallerFromContext(ctx)
		if got.SessionID != "abc" {
			t.Errorf("SessionID = %q, want %q", got.SessionID, "abc")
		}
		if got.PhoneNumber != "5559183746" {
			t.Errorf("PhoneNumber = %q, want %q", got.PhoneNumber, "5559183746")
		}
	})

	t.Run("returns zero caller when unset", func(t *testing.T) {
		got := CallerFromContext(context.Background())
		if got != (Caller{}) {
			t.Errorf("expected zero Caller, got %+v", got)
		}
	})

	t.Run("nested contexts do not leak between callers", func(t *testing.T) {
		base := context.Background()
		a := WithCaller(base, Caller{SessionID: "a"})
		b := WithCaller(base, Caller{SessionID: "b"})
		if CallerFromContext(a).SessionID != "a" || CallerFromContext(b).SessionID != "b" {
			t.Error("caller identities clobbered each other")
		}
	})
}
