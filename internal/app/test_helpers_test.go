package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/frontdesk/internal/core/escalation"
	"github.com/example/frontdesk/internal/db"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.SessionStore       = (*mockSessionStore)(nil)
	_ secondary.KnowledgeRetriever = (*mockRetriever)(nil)
	_ secondary.Synthesizer        = (*mockSynthesizer)(nil)
	_ secondary.Embedder           = (*mockEmbedder)(nil)
	_ secondary.VectorIndex        = (*mockVectorIndex)(nil)
	_ secondary.CorpusStore        = (*mockCorpus)(nil)
	_ secondary.MemberRepository   = (*mockMemberRepository)(nil)
)

// mockSessionStore implements secondary.SessionStore in memory.
type mockSessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*secondary.SessionRecord
	escalations []*secondary.EscalationRecord
	now         time.Time
	nextID      int

	recordErr error
	listErr   error
	expireErr error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{
		sessions: make(map[string]*secondary.SessionRecord),
		now:      time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockSessionStore) addSession(id, phone string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &secondary.SessionRecord{SessionID: id, PhoneNumber: phone, CreatedAt: db.FormatTime(m.now)}
}

func (m *mockSessionStore) addEscalation(sessionID, question, status string, createdAt time.Time) *secondary.EscalationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &secondary.EscalationRecord{
		ID:        int64(len(m.escalations) + 1),
		SessionID: sessionID,
		Question:  question,
		Status:    status,
		CreatedAt: db.FormatTime(createdAt),
	}
	m.escalations = append(m.escalations, rec)
	return rec
}

func (m *mockSessionStore) latest(sessionID string) *secondary.EscalationRecord {
	for i := len(m.escalations) - 1; i >= 0; i-- {
		if m.escalations[i].SessionID == sessionID {
			return m.escalations[i]
		}
	}
	return nil
}

func (m *mockSessionStore) CreateSession(ctx context.Context, phoneNumber string) (string, error) {
	m.mu.Lock()
	m.nextID++
	id := fmt.Sprintf("session-%d", m.nextID)
	m.mu.Unlock()
	m.addSession(id, phoneNumber)
	return id, nil
}

func (m *mockSessionStore) GetSession(ctx context.Context, sessionID string) (*secondary.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, secondary.ErrSessionNotFound
	}
	copied := *s
	if e := m.latest(sessionID); e != nil {
		esc := *e
		copied.Escalation = &esc
	}
	return &copied, nil
}

func (m *mockSessionStore) RecordEscalation(ctx context.Context, sessionID, question string) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return secondary.ErrSessionNotFound
	}

	var pending *secondary.EscalationRecord
	if e := m.latest(sessionID); e != nil && e.Status == string(escalation.StatusPending) {
		pending = e
	}
	in := escalation.RecordInput{Question: question, HasPending: pending != nil}
	if pending != nil {
		in.PendingQuestion = pending.Question
	}
	plan := escalation.PlanRecord(in)
	if plan.Action == escalation.ActionAppend {
		pending.Question = plan.Question
		return nil
	}
	m.escalations = append(m.escalations, &secondary.EscalationRecord{
		ID:          int64(len(m.escalations) + 1),
		SessionID:   sessionID,
		PhoneNumber: m.sessions[sessionID].PhoneNumber,
		Question:    plan.Question,
		Status:      string(plan.Status),
		CreatedAt:   db.FormatTime(m.now),
	})
	return nil
}

func (m *mockSessionStore) GetEscalation(ctx context.Context, sessionID string) (*secondary.EscalationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.latest(sessionID); e != nil {
		esc := *e
		return &esc, nil
	}
	return nil, secondary.ErrEscalationNotFound
}

func (m *mockSessionStore) ResolveEscalation(ctx context.Context, sessionID, answer string) (*secondary.EscalationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return nil, secondary.ErrSessionNotFound
	}
	e := m.latest(sessionID)
	if e == nil {
		return nil, secondary.ErrEscalationNotFound
	}
	if e.Status == string(escalation.StatusResolved) {
		return nil, secondary.ErrEscalationResolved
	}
	e.Status = string(escalation.StatusResolved)
	e.Answer = answer
	esc := *e
	return &esc, nil
}

func (m *mockSessionStore) ExpireEscalation(ctx context.Context, escalationID int64) (bool, error) {
	if m.expireErr != nil {
		return false, m.expireErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.escalations {
		if e.ID == escalationID && e.Status == string(escalation.StatusPending) {
			e.Status = string(escalation.StatusUnresolved)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSessionStore) ListEscalations(ctx context.Context, filters secondary.EscalationFilters) ([]*secondary.EscalationRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.EscalationRecord
	for i := len(m.escalations) - 1; i >= 0; i-- {
		e := m.escalations[i]
		if filters.Status != "" && e.Status != filters.Status {
			continue
		}
		esc := *e
		out = append(out, &esc)
	}
	return out, nil
}

func (m *mockSessionStore) CountEscalations(ctx context.Context, status string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.escalations {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockSessionStore) statusOf(sessionID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.latest(sessionID); e != nil {
		return e.Status
	}
	return ""
}

// mockRetriever returns canned results.
type mockRetriever struct {
	results []secondary.RetrievalResult
	err     error
	block   bool // wait for ctx cancellation
	lastReq secondary.RetrievalRequest
}

func (m *mockRetriever) Retrieve(ctx context.Context, req secondary.RetrievalRequest) ([]secondary.RetrievalResult, error) {
	m.lastReq = req
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.results, m.err
}

// mockSynthesizer returns a canned answer and records its inputs.
type mockSynthesizer struct {
	answer    string
	err       error
	calls     int
	grounding string
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, question, grounding string) (string, error) {
	m.calls++
	m.grounding = grounding
	return m.answer, m.err
}

// mockEmbedder returns fixed-size vectors derived from text length.
type mockEmbedder struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

// mockVectorIndex stores vectors per namespace.
type mockVectorIndex struct {
	mu        sync.Mutex
	vectors   map[string]map[string]secondary.VectorRecord
	upserts   int
	resets    int
	upsertErr error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{vectors: make(map[string]map[string]secondary.VectorRecord)}
}

func (m *mockVectorIndex) Upsert(ctx context.Context, namespace string, vectors []secondary.VectorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	if m.vectors[namespace] == nil {
		m.vectors[namespace] = make(map[string]secondary.VectorRecord)
	}
	for _, v := range vectors {
		m.vectors[namespace][v.ID] = v
	}
	return nil
}

func (m *mockVectorIndex) Query(ctx context.Context, namespace string, embedding []float32, topK int) ([]secondary.ScoredVector, error) {
	return nil, errors.New("not implemented")
}

func (m *mockVectorIndex) Reset(ctx context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	delete(m.vectors, namespace)
	return nil
}

func (m *mockVectorIndex) Count(ctx context.Context, namespace string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vectors[namespace]), nil
}

// mockCorpus is an in-memory corpus.
type mockCorpus struct {
	mu        sync.Mutex
	text      string
	appends   []string
	appendErr error
}

func (m *mockCorpus) Read(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *mockCorpus) Append(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appends = append(m.appends, text)
	m.text += text
	return nil
}

// mockMemberRepository implements secondary.MemberRepository in memory.
type mockMemberRepository struct {
	members map[string]*secondary.MemberRecord
	getErr  error
}

func newMockMemberRepository() *mockMemberRepository {
	return &mockMemberRepository{members: make(map[string]*secondary.MemberRecord)}
}

func (m *mockMemberRepository) GetByPhone(ctx context.Context, phoneNumber string) (*secondary.MemberRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.members[phoneNumber], nil
}

func (m *mockMemberRepository) Create(ctx context.Context, phoneNumber string) (*secondary.MemberRecord, error) {
	if _, ok := m.members[phoneNumber]; ok {
		return nil, secondary.ErrMemberExists
	}
	rec := &secondary.MemberRecord{ID: int64(len(m.members) + 1), PhoneNumber: phoneNumber, CreatedAt: "2024-06-01T09:00:00.000000000Z"}
	m.members[phoneNumber] = rec
	return rec, nil
}

// mockPublisher records publications.
type mockPublisher struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (m *mockPublisher) Publish(ctx context.Context, question, answer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, [2]string{question, answer})
	return m.err
}
