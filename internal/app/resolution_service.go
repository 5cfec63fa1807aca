package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/frontdesk/internal/core/escalation"
	"github.com/example/frontdesk/internal/metrics"
	"github.com/example/frontdesk/internal/ports/primary"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// Publisher teaches a resolved question/answer pair to the knowledge base.
type Publisher interface {
	Publish(ctx context.Context, question, answer string) error
}

// ResolutionServiceImpl implements the ResolutionService interface.
type ResolutionServiceImpl struct {
	store          secondary.SessionStore
	publisher      Publisher
	publishTimeout time.Duration
	metrics        *metrics.Metrics
	logger         *zap.Logger

	wg sync.WaitGroup
}

// NewResolutionService creates a new ResolutionService with injected dependencies.
func NewResolutionService(
	store secondary.SessionStore,
	publisher Publisher,
	publishTimeout time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ResolutionServiceImpl {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolutionServiceImpl{
		store:          store,
		publisher:      publisher,
		publishTimeout: publishTimeout,
		metrics:        m,
		logger:         logger,
	}
}

// ListSessions lists escalations, newest first, optionally filtered by status.
func (s *ResolutionServiceImpl) ListSessions(ctx context.Context, filters primary.SessionFilters) ([]*primary.SessionSummary, error) {
	if filters.Status != "" {
		if _, ok := escalation.ParseStatus(filters.Status); !ok {
			return nil, primary.ErrInvalidStatus
		}
	}

	records, err := s.store.ListEscalations(ctx, secondary.EscalationFilters{
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]*primary.SessionSummary, len(records))
	for i, r := range records {
		summaries[i] = recordToSummary(r)
	}
	return summaries, nil
}

// GetSession retrieves one session with its latest escalation.
func (s *ResolutionServiceImpl) GetSession(ctx context.Context, sessionID string) (*primary.SessionSummary, error) {
	record, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, secondary.ErrSessionNotFound) {
		return nil, primary.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if record.Escalation != nil {
		return recordToSummary(record.Escalation), nil
	}
	return &primary.SessionSummary{
		SessionID:   record.SessionID,
		PhoneNumber: record.PhoneNumber,
		CreatedAt:   record.CreatedAt,
	}, nil
}

// Resolve stores the supervisor answer on the session's latest escalation and
// publishes it to the knowledge base in the background.
func (s *ResolutionServiceImpl) Resolve(ctx context.Context, req primary.ResolveRequest) (*primary.ResolveResponse, error) {
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, primary.ErrAnswerRequired
	}

	session, err := s.store.GetSession(ctx, req.SessionID)
	if errors.Is(err, secondary.ErrSessionNotFound) {
		return nil, primary.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	guardCtx := escalation.ResolveContext{
		SessionID:     req.SessionID,
		Answer:        answer,
		HasEscalation: session.Escalation != nil,
	}
	if session.Escalation != nil {
		guardCtx.Status = escalation.Status(session.Escalation.Status)
	}
	if guard := escalation.CanResolve(guardCtx); !guard.Allowed {
		switch {
		case !guardCtx.HasEscalation:
			return nil, fmt.Errorf("%w: %s", primary.ErrSessionNotFound, guard.Reason)
		case guardCtx.Status == escalation.StatusResolved:
			return nil, fmt.Errorf("%w: %s", primary.ErrAlreadyResolved, guard.Reason)
		}
		return nil, guard.Error()
	}

	resolved, err := s.store.ResolveEscalation(ctx, req.SessionID, answer)
	switch {
	case errors.Is(err, secondary.ErrSessionNotFound), errors.Is(err, secondary.ErrEscalationNotFound):
		return nil, primary.ErrSessionNotFound
	case errors.Is(err, secondary.ErrEscalationResolved):
		return nil, primary.ErrAlreadyResolved
	case err != nil:
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	s.metrics.EscalationsResolved.Inc()
	s.logger.Info("escalation resolved",
		zap.String("session_id", req.SessionID),
		zap.String("previous_status", string(guardCtx.Status)))

	s.publishAsync(req.SessionID, resolved.Question, answer)

	return &primary.ResolveResponse{
		Message:  fmt.Sprintf("Answer recorded for session %s", req.SessionID),
		Question: resolved.Question,
	}, nil
}

// publishAsync runs the publication detached from the request with its own
// timeout. Failures are logged as warnings.
func (s *ResolutionServiceImpl) publishAsync(sessionID, question, answer string) {
	if s.publisher == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, question, answer); err != nil {
			s.logger.Warn("failed to publish answer to knowledge base",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until every background publication has finished.
func (s *ResolutionServiceImpl) Wait() {
	s.wg.Wait()
}

func recordToSummary(r *secondary.EscalationRecord) *primary.SessionSummary {
	return &primary.SessionSummary{
		ID:          r.ID,
		SessionID:   r.SessionID,
		PhoneNumber: r.PhoneNumber,
		Question:    r.Question,
		Status:      r.Status,
		Answer:      r.Answer,
		CreatedAt:   r.CreatedAt,
	}
}

var _ primary.ResolutionService = (*ResolutionServiceImpl)(nil)
