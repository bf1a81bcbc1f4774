package store

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/veredicto/veredicto/internal/embed"
)

// EncodeVector serializes an embedding as little-endian float32 bytes.
func EncodeVector(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeVector deserializes an embedding written by EncodeVector.
func DecodeVector(buf []byte) []float32 {
	if len(buf) == 0 || len(buf)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}

// ClaimMatch is a claim paired with its cosine similarity to a query vector.
type ClaimMatch struct {
	ClaimID    string
	ClaimText  string
	Similarity float64
}

// NearestClaims returns up to k claims whose embeddings have cosine
// similarity >= minSimilarity with the query vector, most similar first.
// The scan is in-process; claim corpora this pipeline serves stay well
// inside sub-second territory for top-10 retrieval.
func (s *Store) NearestClaims(query []float32, k int, minSimilarity float64) ([]ClaimMatch, error) {
	if len(query) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`SELECT id, claim_text, embedding FROM claims WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("querying claim embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []ClaimMatch
	for rows.Next() {
		var (
			id, text string
			blob     []byte
		)
		if err := rows.Scan(&id, &text, &blob); err != nil {
			return nil, fmt.Errorf("scanning claim embedding: %w", err)
		}
		sim := embed.Cosine(query, DecodeVector(blob))
		if sim >= minSimilarity {
			matches = append(matches, ClaimMatch{ClaimID: id, ClaimText: text, Similarity: sim})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating claim embeddings: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
