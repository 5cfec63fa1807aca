package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/frontdesk/internal/db"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// VectorIndex implements secondary.VectorIndex on the knowledge_vectors table.
// When the sqlite-vec extension is compiled in and the cgo driver is in use,
// similarity is computed in SQL; otherwise rows are scored in Go.
type VectorIndex struct {
	db     *sql.DB
	now    func() time.Time
	useVec bool
}

// NewVectorIndex creates a vector index over conn opened with driver.
func NewVectorIndex(conn *sql.DB, driver string, clock func() time.Time) *VectorIndex {
	if clock == nil {
		clock = time.Now
	}
	return &VectorIndex{
		db:     conn,
		now:    clock,
		useVec: vecEnabled && driver == db.DriverCGO,
	}
}

// Upsert inserts or replaces vectors by (namespace, id) in one transaction.
func (x *VectorIndex) Upsert(ctx context.Context, namespace string, vectors []secondary.VectorRecord) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO knowledge_vectors (namespace, id, title, category, content, embedding, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(namespace, id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			content = excluded.content,
			embedding = excluded.embedding,
			dimensions = excluded.dimensions`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	createdAt := db.FormatTime(x.now())
	for _, v := range vectors {
		if len(v.Embedding) == 0 {
			return fmt.Errorf("vector %s has no embedding", v.ID)
		}
		if _, err := stmt.ExecContext(ctx,
			namespace, v.ID, v.Title, v.Category, v.Content,
			encodeFloat32SliceToBlob(v.Embedding), len(v.Embedding), createdAt,
		); err != nil {
			return fmt.Errorf("failed to upsert vector %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vectors: %w", err)
	}
	return nil
}

// Query returns the topK most similar vectors in namespace, best first.
// Scores map cosine similarity onto [0,1] as (1+cos)/2.
func (x *VectorIndex) Query(ctx context.Context, namespace string, embedding []float32, topK int) ([]secondary.ScoredVector, error) {
	if topK <= 0 || len(embedding) == 0 {
		return nil, nil
	}
	if x.useVec {
		return x.queryVec(ctx, namespace, embedding, topK)
	}
	return x.queryScan(ctx, namespace, embedding, topK)
}

func (x *VectorIndex) queryVec(ctx context.Context, namespace string, embedding []float32, topK int) ([]secondary.ScoredVector, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT id, title, category, content, vec_distance_cosine(embedding, ?) AS distance
		FROM knowledge_vectors
		WHERE namespace = ? AND dimensions = ?
		ORDER BY distance ASC
		LIMIT ?`,
		encodeFloat32SliceToBlob(embedding), namespace, len(embedding), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var hits []secondary.ScoredVector
	for rows.Next() {
		var (
			hit             secondary.ScoredVector
			title, category sql.NullString
			distance        float64
		)
		if err := rows.Scan(&hit.ID, &title, &category, &hit.Content, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan vector: %w", err)
		}
		hit.Title = title.String
		hit.Category = category.String
		// cosine distance is 1 - similarity
		hit.Score = normalizeCosine(1 - distance)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vectors: %w", err)
	}
	return hits, nil
}

func (x *VectorIndex) queryScan(ctx context.Context, namespace string, embedding []float32, topK int) ([]secondary.ScoredVector, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT id, title, category, content, embedding
		FROM knowledge_vectors
		WHERE namespace = ? AND dimensions = ?`,
		namespace, len(embedding),
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var hits []secondary.ScoredVector
	for rows.Next() {
		var (
			hit             secondary.ScoredVector
			title, category sql.NullString
			blob            []byte
		)
		if err := rows.Scan(&hit.ID, &title, &category, &hit.Content, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan vector: %w", err)
		}
		stored, err := decodeBlobToFloat32Slice(blob)
		if err != nil {
			return nil, fmt.Errorf("vector %s: %w", hit.ID, err)
		}
		hit.Title = title.String
		hit.Category = category.String
		hit.Score = normalizeCosine(cosineSimilarity(embedding, stored))
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vectors: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Reset removes every vector in the namespace.
func (x *VectorIndex) Reset(ctx context.Context, namespace string) error {
	if _, err := x.db.ExecContext(ctx, `DELETE FROM knowledge_vectors WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("failed to reset namespace %s: %w", namespace, err)
	}
	return nil
}

// Count returns the number of vectors in the namespace.
func (x *VectorIndex) Count(ctx context.Context, namespace string) (int, error) {
	var count int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge_vectors WHERE namespace = ?`, namespace).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vectors: %w", err)
	}
	return count, nil
}

// encodeFloat32SliceToBlob encodes a float32 slice as a little-endian blob,
// the layout sqlite-vec reads.
func encodeFloat32SliceToBlob(vec []float32) []byte {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, vec); err != nil {
		return nil
	}
	return buf.Bytes()
}

func decodeBlobToFloat32Slice(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, vec); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}
	return vec, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func normalizeCosine(cos float64) float64 {
	score := (1 + cos) / 2
	return math.Max(0, math.Min(1, score))
}

var _ secondary.VectorIndex = (*VectorIndex)(nil)
