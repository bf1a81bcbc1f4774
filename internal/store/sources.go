package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/veredicto/veredicto/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// InsertSource appends a scraped source. Sources with no id or content are
// rejected here rather than silently stored.
func (s *Store) InsertSource(src model.Source) error {
	if src.ID == "" {
		return fmt.Errorf("source id is required")
	}
	if src.Content == "" {
		return fmt.Errorf("source %s: content is required", src.ID)
	}

	ts := src.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO sources (id, platform, content, author, url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		src.ID, src.Platform, src.Content, nullString(src.Author), nullString(src.URL), ts.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting source %s: %w", src.ID, err)
	}
	return nil
}

// SourceByID fetches a single source.
func (s *Store) SourceByID(id string) (*model.Source, error) {
	row := s.db.QueryRow(
		`SELECT id, platform, content, author, url, created_at FROM sources WHERE id = ?`, id)
	src, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %s: %w", id, ErrNotFound)
	}
	return src, err
}

// PendingSources returns up to limit unprocessed sources, oldest first.
// This is the durable work queue the run loop pulls from.
func (s *Store) PendingSources(limit int) ([]model.Source, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, platform, content, author, url, created_at
		 FROM sources WHERE processed_at IS NULL ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pending sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []model.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *src)
	}
	return sources, rows.Err()
}

// MarkSourceProcessed records that a source ran through the pipeline,
// whether or not it produced a claim.
func (s *Store) MarkSourceProcessed(id string) error {
	_, err := s.db.Exec(
		`UPDATE sources SET processed_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("marking source %s processed: %w", id, err)
	}
	return nil
}

// ClaimIDForSource returns the claim a source is linked to, either as the
// originating source or as a deduplicated duplicate. The second return is
// false when the source produced no claim.
func (s *Store) ClaimIDForSource(sourceID string) (string, bool, error) {
	var claimID string
	err := s.db.QueryRow(`SELECT claim_id FROM claim_sources WHERE source_id = ?`, sourceID).Scan(&claimID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up claim for source %s: %w", sourceID, err)
	}
	return claimID, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*model.Source, error) {
	var (
		src         model.Source
		author, url sql.NullString
		createdAt   string
	)
	if err := row.Scan(&src.ID, &src.Platform, &src.Content, &author, &url, &createdAt); err != nil {
		return nil, err
	}
	src.Author = author.String
	src.URL = url.String
	src.Timestamp, _ = time.Parse(time.RFC3339, createdAt)
	return &src, nil
}
