package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/frontdesk/internal/adapters/filesystem"
	"github.com/example/frontdesk/internal/adapters/offline"
	"github.com/example/frontdesk/internal/adapters/sqlite"
	"github.com/example/frontdesk/internal/app"
	"github.com/example/frontdesk/internal/db"
	"github.com/example/frontdesk/internal/ports/primary"
	"github.com/example/frontdesk/internal/ports/secondary"
)

const salonCorpus = `Bliss Salon is a full service hair and beauty salon downtown.

=== Hours ===
We are open 9am to 7pm, Monday to Saturday.

=== Nails ===
Classic manicures start at $25 and gel manicures at $40.
`

// TestEscalationLifecycle walks a question from escalation through
// supervisor resolution to being answered from learned knowledge.
func TestEscalationLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	conn, err := db.Open(db.DriverPure, db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	corpusPath := filepath.Join(t.TempDir(), "salon_data.txt")
	require.NoError(t, os.WriteFile(corpusPath, []byte(salonCorpus), 0644))
	corpusFile := filesystem.NewCorpusFile(corpusPath)

	embedder, err := offline.NewHashingEmbedder(1024)
	require.NoError(t, err)
	store := sqlite.NewSessionRepository(conn, clock)
	index := sqlite.NewVectorIndex(conn, db.DriverPure, clock)

	ingest := app.NewIngestService(
		func(string) secondary.CorpusStore { return corpusFile },
		embedder, index,
		app.IngestConfig{CorpusPath: corpusPath, Namespace: "salon"}, nil)
	ingested, err := ingest.Ingest(ctx, primary.IngestRequest{})
	require.NoError(t, err)
	require.Equal(t, 3, ingested.Inserted)

	receptionist := app.NewReceptionistService(store,
		app.NewVectorRetriever(embedder, index),
		offline.NewExtractiveSynthesizer(),
		nil, nil,
		app.ReceptionistConfig{
			ConfidenceThreshold: 0.7,
			TopK:                3,
			Namespace:           "salon",
			RetrievalTimeout:    time.Second,
			SynthesisTimeout:    time.Second,
			Greeting:            "Hi, this is Bliss Salon.",
			Fallback:            "Let me check with my supervisor.",
		})
	publisher := app.NewKnowledgePublisher(corpusFile, embedder, index, "salon", nil, nil)
	resolution := app.NewResolutionService(store, publisher, time.Second, nil, nil)

	question := "What are your opening hours on weekends?"

	// First caller: nothing in the corpus covers weekends.
	first, err := receptionist.StartSession(ctx, "555-0100")
	require.NoError(t, err)
	firstCaller := primary.Caller{SessionID: first.SessionID, PhoneNumber: "5550100"}

	reply, err := receptionist.HandleQuery(ctx, firstCaller, question)
	require.NoError(t, err)
	assert.True(t, reply.Escalated)
	assert.Equal(t, "Let me check with my supervisor.", reply.Reply)

	pending, err := resolution.ListSessions(ctx, primary.SessionFilters{Status: "PENDING"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, question, pending[0].Question)

	// Supervisor answers; the answer is learned in the background.
	answer := "Weekend opening hours are 10am to 4pm."
	_, err = resolution.Resolve(ctx, primary.ResolveRequest{SessionID: first.SessionID, Answer: answer})
	require.NoError(t, err)
	resolution.Wait()

	session, err := resolution.GetSession(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "RESOLVED", session.Status)
	assert.Equal(t, answer, session.Answer)

	text, err := corpusFile.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Q: "+question+"\nA: "+answer+"\n\n")

	count, err := index.Count(ctx, "salon")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// A second answer for the same escalation is refused and teaches nothing.
	_, err = resolution.Resolve(ctx, primary.ResolveRequest{SessionID: first.SessionID, Answer: "Correction: closed on weekends."})
	assert.ErrorIs(t, err, primary.ErrAlreadyResolved)
	resolution.Wait()

	after, err := corpusFile.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, text, after)
	count, err = index.Count(ctx, "salon")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// Second caller asks the same thing and is answered directly.
	second, err := receptionist.StartSession(ctx, "555-0199")
	require.NoError(t, err)

	reply, err = receptionist.HandleQuery(ctx, primary.Caller{SessionID: second.SessionID}, question)
	require.NoError(t, err)
	assert.False(t, reply.Escalated)
	assert.Equal(t, answer, reply.Reply)
	assert.Greater(t, reply.TopScore, 0.7)

	secondSession, err := resolution.GetSession(ctx, second.SessionID)
	require.NoError(t, err)
	assert.Empty(t, secondSession.Status, "answered call records no escalation")
}

// TestEscalationAgesOut checks that an unanswered question becomes
// UNRESOLVED once the sweeper sees it past the timeout.
func TestEscalationAgesOut(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	conn, err := db.Open(db.DriverPure, db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	store := sqlite.NewSessionRepository(conn, clock)
	sessionID, err := store.CreateSession(ctx, "5550100")
	require.NoError(t, err)
	require.NoError(t, store.RecordEscalation(ctx, sessionID, "Do you do henna?"))

	sweeper := app.NewSweeper(store, 60*time.Second, time.Second, clock, nil, nil)

	now = now.Add(59 * time.Second)
	report, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Expired)

	now = now.Add(2 * time.Second)
	report, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Expired)

	esc, err := store.GetEscalation(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "UNRESOLVED", esc.Status)
	assert.NotEmpty(t, esc.ClosedAt)

	// A late supervisor answer still resolves it.
	resolution := app.NewResolutionService(store, nil, time.Second, nil, nil)
	_, err = resolution.Resolve(ctx, primary.ResolveRequest{SessionID: sessionID, Answer: "Yes, on Fridays."})
	require.NoError(t, err)

	esc, err = store.GetEscalation(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "RESOLVED", esc.Status)
}
