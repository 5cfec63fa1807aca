package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/frontdesk/internal/core/escalation"
	"github.com/example/frontdesk/internal/core/member"
	"github.com/example/frontdesk/internal/ctxutil"
	"github.com/example/frontdesk/internal/logging"
	"github.com/example/frontdesk/internal/metrics"
	"github.com/example/frontdesk/internal/ports/primary"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// ReceptionistConfig holds the tuning of the live call path.
type ReceptionistConfig struct {
	ConfidenceThreshold float64
	TopK                int
	Namespace           string
	RetrievalTimeout    time.Duration
	SynthesisTimeout    time.Duration
	Greeting            string
	Fallback            string
}

// ReceptionistServiceImpl implements the ReceptionistService interface.
type ReceptionistServiceImpl struct {
	store       secondary.SessionStore
	retriever   secondary.KnowledgeRetriever
	synthesizer secondary.Synthesizer
	metrics     *metrics.Metrics
	logger      *zap.Logger
	cfg         ReceptionistConfig
}

// NewReceptionistService creates a new ReceptionistService with injected dependencies.
func NewReceptionistService(
	store secondary.SessionStore,
	retriever secondary.KnowledgeRetriever,
	synthesizer secondary.Synthesizer,
	m *metrics.Metrics,
	logger *zap.Logger,
	cfg ReceptionistConfig,
) *ReceptionistServiceImpl {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceptionistServiceImpl{
		store:       store,
		retriever:   retriever,
		synthesizer: synthesizer,
		metrics:     m,
		logger:      logger,
		cfg:         cfg,
	}
}

// Greeting returns the opening line spoken when a call connects.
func (s *ReceptionistServiceImpl) Greeting() string {
	return s.cfg.Greeting
}

// StartSession opens a session for an incoming call. The phone number is
// reduced to digits; a number without digits is stored as unknown.
func (s *ReceptionistServiceImpl) StartSession(ctx context.Context, phoneNumber string) (*primary.StartSessionResponse, error) {
	phone := member.NormalizePhone(phoneNumber)

	sessionID, err := s.store.CreateSession(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	logging.ForContext(ctxutil.WithCaller(ctx, ctxutil.Caller{SessionID: sessionID, PhoneNumber: phone}), s.logger).
		Info("session started")

	return &primary.StartSessionResponse{SessionID: sessionID, Greeting: s.cfg.Greeting}, nil
}

// HandleQuery answers from the knowledge base when retrieval is confident and
// the synthesizer produces text; every other outcome escalates the question
// and returns the fallback line.
func (s *ReceptionistServiceImpl) HandleQuery(ctx context.Context, caller primary.Caller, query string) (*primary.QueryResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, primary.ErrQueryRequired
	}

	ctx = ctxutil.WithCaller(ctx, ctxutil.Caller{SessionID: caller.SessionID, PhoneNumber: caller.PhoneNumber})
	log := logging.ForContext(ctx, s.logger)

	results, err := s.retrieve(ctx, query)
	if err != nil {
		log.Warn("knowledge retrieval failed", zap.Error(err))
		return s.escalate(ctx, log, caller, query, 0), nil
	}

	var topScore float64
	if len(results) > 0 {
		topScore = results[0].Score
	}
	if !escalation.ShouldAnswer(len(results), topScore, s.cfg.ConfidenceThreshold) {
		log.Info("retrieval below confidence threshold",
			zap.Int("results", len(results)),
			zap.Float64("top_score", topScore),
			zap.Float64("threshold", s.cfg.ConfidenceThreshold))
		return s.escalate(ctx, log, caller, query, topScore), nil
	}

	answer, err := s.synthesize(ctx, query, results)
	if err != nil {
		log.Warn("answer synthesis failed", zap.Error(err))
		return s.escalate(ctx, log, caller, query, topScore), nil
	}
	if answer == "" {
		log.Info("synthesizer returned no answer", zap.Float64("top_score", topScore))
		return s.escalate(ctx, log, caller, query, topScore), nil
	}

	s.metrics.Queries.WithLabelValues(metrics.OutcomeAnswered).Inc()
	log.Info("query answered", zap.Float64("top_score", topScore))
	return &primary.QueryResponse{Reply: answer, TopScore: topScore}, nil
}

func (s *ReceptionistServiceImpl) retrieve(ctx context.Context, query string) ([]secondary.RetrievalResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
	defer cancel()

	return s.retriever.Retrieve(ctx, secondary.RetrievalRequest{
		Query:     query,
		TopK:      s.cfg.TopK,
		Namespace: s.cfg.Namespace,
	})
}

func (s *ReceptionistServiceImpl) synthesize(ctx context.Context, query string, results []secondary.RetrievalResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SynthesisTimeout)
	defer cancel()

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}

	answer, err := s.synthesizer.Synthesize(ctx, query, strings.Join(contents, "\n\n"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// escalate records the question for a supervisor. A storage failure is
// logged only; the caller still hears the fallback line.
func (s *ReceptionistServiceImpl) escalate(ctx context.Context, log *zap.Logger, caller primary.Caller, query string, topScore float64) *primary.QueryResponse {
	s.metrics.Queries.WithLabelValues(metrics.OutcomeEscalated).Inc()

	if err := s.store.RecordEscalation(ctx, caller.SessionID, query); err != nil {
		log.Error("failed to record escalation", zap.Error(err))
	} else {
		s.metrics.EscalationsRecorded.Inc()
		log.Info("question escalated to supervisor", zap.String("question", query))
	}

	return &primary.QueryResponse{Reply: s.cfg.Fallback, Escalated: true, TopScore: topScore}
}

var _ primary.ReceptionistService = (*ReceptionistServiceImpl)(nil)
