package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/frontdesk/internal/core/member"
	"github.com/example/frontdesk/internal/ports/primary"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// MembershipServiceImpl implements the MembershipService interface.
type MembershipServiceImpl struct {
	memberRepo secondary.MemberRepository
	logger     *zap.Logger
}

// NewMembershipService creates a new MembershipService with injected dependencies.
func NewMembershipService(memberRepo secondary.MemberRepository, logger *zap.Logger) *MembershipServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipServiceImpl{memberRepo: memberRepo, logger: logger}
}

// Check reports whether the phone number belongs to a member.
func (s *MembershipServiceImpl) Check(ctx context.Context, phoneNumber string) (*primary.MemberStatus, error) {
	phone := member.NormalizePhone(phoneNumber)
	if phone == "" {
		return nil, primary.ErrInvalidPhone
	}

	record, err := s.memberRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	status := &primary.MemberStatus{PhoneNumber: phone}
	if record != nil {
		status.Member = true
		status.Since = record.CreatedAt
	}
	return status, nil
}

// Register adds a member.
func (s *MembershipServiceImpl) Register(ctx context.Context, phoneNumber string) (*primary.MemberStatus, error) {
	phone := member.NormalizePhone(phoneNumber)

	existing, err := s.lookup(ctx, phone)
	if err != nil {
		return nil, err
	}
	guard := member.CanRegister(member.RegisterContext{PhoneNumber: phone, AlreadyMember: existing != nil})
	if !guard.Allowed {
		if phone == "" {
			return nil, primary.ErrInvalidPhone
		}
		return nil, fmt.Errorf("%w: %s", primary.ErrMemberExists, guard.Reason)
	}

	record, err := s.memberRepo.Create(ctx, phone)
	if errors.Is(err, secondary.ErrMemberExists) {
		return nil, primary.ErrMemberExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register member: %w", err)
	}

	s.logger.Info("member registered", zap.String("phone_number", phone))
	return &primary.MemberStatus{PhoneNumber: phone, Member: true, Since: record.CreatedAt}, nil
}

func (s *MembershipServiceImpl) lookup(ctx context.Context, phone string) (*secondary.MemberRecord, error) {
	if phone == "" {
		return nil, nil
	}
	record, err := s.memberRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return record, nil
}

var _ primary.MembershipService = (*MembershipServiceImpl)(nil)
