package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/frontdesk/internal/metrics"
	"github.com/example/frontdesk/internal/ports/primary"
	"github.com/example/frontdesk/internal/ports/secondary"
)

const testFallback = "Let me check with my supervisor."

func newTestReceptionistService(store *mockSessionStore, retriever *mockRetriever, synth *mockSynthesizer, m *metrics.Metrics, logger *zap.Logger) *ReceptionistServiceImpl {
	return NewReceptionistService(store, retriever, synth, m, logger, ReceptionistConfig{
		ConfidenceThreshold: 0.7,
		TopK:                3,
		Namespace:           "salon",
		RetrievalTimeout:    time.Second,
		SynthesisTimeout:    time.Second,
		Greeting:            "Hi, this is Bliss Salon.",
		Fallback:            testFallback,
	})
}

func hits(scores ...float64) []secondary.RetrievalResult {
	out := make([]secondary.RetrievalResult, len(scores))
	for i, s := range scores {
		out[i] = secondary.RetrievalResult{ID: string(rune('a' + i)), Score: s, Content: "content " + string(rune('a'+i))}
	}
	return out
}

func TestReceptionistService_StartSession(t *testing.T) {
	store := newMockSessionStore()
	svc := newTestReceptionistService(store, &mockRetriever{}, &mockSynthesizer{}, nil, nil)

	resp, err := svc.StartSession(context.Background(), "+1 (555) 010-2030")
	require.NoError(t, err)

	assert.Equal(t, "Hi, this is Bliss Salon.", resp.Greeting)
	session, err := store.GetSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "15550102030", session.PhoneNumber)
	assert.Nil(t, session.Escalation)
}

func TestReceptionistService_HandleQuery(t *testing.T) {
	tests := []struct {
		name          string
		retriever     *mockRetriever
		synth         *mockSynthesizer
		wantEscalated bool
		wantReply     string
		wantSynthCall bool
	}{
		{
			name:          "confident retrieval is answered",
			retriever:     &mockRetriever{results: hits(0.91, 0.6)},
			synth:         &mockSynthesizer{answer: "  We open at 9am.  "},
			wantReply:     "We open at 9am.",
			wantSynthCall: true,
		},
		{
			name:          "score exactly at threshold escalates",
			retriever:     &mockRetriever{results: hits(0.7)},
			synth:         &mockSynthesizer{answer: "unused"},
			wantEscalated: true,
			wantReply:     testFallback,
		},
		{
			name:          "low score escalates",
			retriever:     &mockRetriever{results: hits(0.52)},
			synth:         &mockSynthesizer{answer: "unused"},
			wantEscalated: true,
			wantReply:     testFallback,
		},
		{
			name:          "no results escalates",
			retriever:     &mockRetriever{},
			synth:         &mockSynthesizer{answer: "unused"},
			wantEscalated: true,
			wantReply:     testFallback,
		},
		{
			name:          "retrieval error escalates",
			retriever:     &mockRetriever{err: errors.New("index unavailable")},
			synth:         &mockSynthesizer{answer: "unused"},
			wantEscalated: true,
			wantReply:     testFallback,
		},
		{
			name:          "empty synthesis escalates",
			retriever:     &mockRetriever{results: hits(0.95)},
			synth:         &mockSynthesizer{answer: "   "},
			wantEscalated: true,
			wantReply:     testFallback,
			wantSynthCall: true,
		},
		{
			name:          "synthesis error escalates",
			retriever:     &mockRetriever{results: hits(0.95)},
			synth:         &mockSynthesizer{err: errors.New("model overloaded")},
			wantEscalated: true,
			wantReply:     testFallback,
			wantSynthCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockSessionStore()
			store.addSession("s1", "5550100")
			m := metrics.NewUnregistered()
			svc := newTestReceptionistService(store, tt.retriever, tt.synth, m, nil)

			resp, err := svc.HandleQuery(context.Background(), primary.Caller{SessionID: "s1", PhoneNumber: "5550100"}, "When do you open?")
			require.NoError(t, err)

			assert.Equal(t, tt.wantReply, resp.Reply)
			assert.Equal(t, tt.wantEscalated, resp.Escalated)
			assert.Equal(t, tt.wantSynthCall, tt.synth.calls > 0)

			esc, escErr := store.GetEscalation(context.Background(), "s1")
			if tt.wantEscalated {
				require.NoError(t, escErr)
				assert.Equal(t, "When do you open?", esc.Question)
				assert.Equal(t, "PENDING", esc.Status)
				assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues(metrics.OutcomeEscalated)))
				assert.Equal(t, 1.0, testutil.ToFloat64(m.EscalationsRecorded))
			} else {
				assert.ErrorIs(t, escErr, secondary.ErrEscalationNotFound)
				assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues(metrics.OutcomeAnswered)))
			}
		})
	}
}

func TestReceptionistService_HandleQuery_RetrievalRequest(t *testing.T) {
	store := newMockSessionStore()
	store.addSession("s1", "")
	retriever := &mockRetriever{results: hits(0.9, 0.8)}
	synth := &mockSynthesizer{answer: "ok"}
	svc := newTestReceptionistService(store, retriever, synth, nil, nil)

	_, err := svc.HandleQuery(context.Background(), primary.Caller{SessionID: "s1"}, "  prices?  ")
	require.NoError(t, err)

	assert.Equal(t, secondary.RetrievalRequest{Query: "prices?", TopK: 3, Namespace: "salon"}, retriever.lastReq)
	assert.Equal(t, "content a\n\ncontent b", synth.grounding)
}

func TestReceptionistService_HandleQuery_RetrievalTimeout(t *testing.T) {
	store := newMockSessionStore()
	store.addSession("s1", "")
	svc := NewReceptionistService(store, &mockRetriever{block: true}, &mockSynthesizer{answer: "unused"}, nil, nil, ReceptionistConfig{
		ConfidenceThreshold: 0.7,
		TopK:                3,
		RetrievalTimeout:    20 * time.Millisecond,
		SynthesisTimeout:    time.Second,
		Fallback:            testFallback,
	})

	resp, err := svc.HandleQuery(context.Background(), primary.Caller{SessionID: "s1"}, "Is parking free?")
	require.NoError(t, err)

	assert.True(t, resp.Escalated)
	assert.Equal(t, "PENDING", store.statusOf("s1"))
}

func TestReceptionistService_HandleQuery_AppendsWithinCycle(t *testing.T) {
	store := newMockSessionStore()
	store.addSession("s1", "")
	svc := newTestReceptionistService(store, &mockRetriever{}, &mockSynthesizer{}, nil, nil)
	caller := primary.Caller{SessionID: "s1"}

	_, err := svc.HandleQuery(context.Background(), caller, "Do you do henna?")
	require.NoError(t, err)
	_, err = svc.HandleQuery(context.Background(), caller, "Is parking free?")
	require.NoError(t, err)

	esc, err := store.GetEscalation(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Do you do henna?,Is parking free?", esc.Question)
	assert.Len(t, store.escalations, 1)
}

func TestReceptionistService_HandleQuery_StoreFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := newMockSessionStore()
	store.recordErr = errors.New("database is locked")
	m := metrics.NewUnregistered()
	svc := newTestReceptionistService(store, &mockRetriever{}, &mockSynthesizer{}, m, zap.New(core))

	resp, err := svc.HandleQuery(context.Background(), primary.Caller{SessionID: "s1", PhoneNumber: "5550100"}, "Do you sell gift cards?")
	require.NoError(t, err)

	assert.True(t, resp.Escalated)
	assert.Equal(t, testFallback, resp.Reply)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.EscalationsRecorded))

	failures := logs.FilterMessage("failed to record escalation").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
	assert.Equal(t, "s1", failures[0].ContextMap()["session_id"])
}

func TestReceptionistService_HandleQuery_BlankQuery(t *testing.T) {
	store := newMockSessionStore()
	retriever := &mockRetriever{}
	svc := newTestReceptionistService(store, retriever, &mockSynthesizer{}, nil, nil)

	_, err := svc.HandleQuery(context.Background(), primary.Caller{SessionID: "s1"}, "   ")

	assert.ErrorIs(t, err, primary.ErrQueryRequired)
	assert.Empty(t, retriever.lastReq.Query)
}
