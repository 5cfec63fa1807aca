package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/frontdesk/internal/ports/primary"
)

// MemberAdapter translates CLI operations to MembershipService calls.
type MemberAdapter struct {
	service primary.MembershipService
	out     io.Writer
}

// NewMemberAdapter creates a new MemberAdapter with the given service.
func NewMemberAdapter(service primary.MembershipService, out io.Writer) *MemberAdapter {
	return &MemberAdapter{service: service, out: out}
}

// Check prints whether the phone number belongs to a member.
func (a *MemberAdapter) Check(ctx context.Context, phoneNumber string) (*primary.MemberStatus, error) {
	status, err := a.service.Check(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	if status.Member {
		fmt.Fprintf(a.out, "%s is a member since %s\n", status.PhoneNumber, status.Since)
	} else {
		fmt.Fprintf(a.out, "%s is not a member\n", status.PhoneNumber)
	}
	return status, nil
}

// Add registers a member.
func (a *MemberAdapter) Add(ctx context.Context, phoneNumber string) error {
	status, err := a.service.Register(ctx, phoneNumber)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Registered member %s\n", status.PhoneNumber)
	return nil
}
