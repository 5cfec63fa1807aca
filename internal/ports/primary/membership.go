package primary

import "context"

// MembershipService defines the primary port for salon membership.
type MembershipService interface {
	// Check reports whether the phone number belongs to a member.
	Check(ctx context.Context, phoneNumber string) (*MemberStatus, error)

	// Register adds a member. Returns ErrMemberExists for known numbers.
	Register(ctx context.Context, phoneNumber string) (*MemberStatus, error)
}

// MemberStatus is the membership state of a phone number.
type MemberStatus struct {
	PhoneNumber string `json:"phone_number"`
	Member      bool   `json:"member"`
	Since       string `json:"since,omitempty"`
}
