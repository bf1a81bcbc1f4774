// Package store persists the knowledge base: sources, claims, entities,
// entity facts, source credibility, and corrections, with vector
// similarity search over claim and fact embeddings.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/veredicto/veredicto/internal/model"
)

// Store manages the SQLite knowledge base.
type Store struct {
	db *sql.DB
}

// Open opens or creates the knowledge base at path, creating the schema
// if it does not exist. Use ":memory:" for tests.
func Open(cfg model.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "veredicto.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			platform TEXT NOT NULL,
			content TEXT NOT NULL,
			author TEXT,
			url TEXT,
			created_at TEXT NOT NULL,
			processed_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sources_pending ON sources(processed_at) WHERE processed_at IS NULL`,
		`CREATE TABLE IF NOT EXISTS claims (
			id TEXT PRIMARY KEY,
			claim_text TEXT NOT NULL,
			original_text TEXT,
			status TEXT NOT NULL,
			confidence REAL NOT NULL,
			evidence_strength TEXT NOT NULL,
			explanation TEXT,
			key_evidence_points TEXT,
			embedding BLOB,
			needs_review INTEGER NOT NULL DEFAULT 0,
			review_priority TEXT NOT NULL DEFAULT 'none',
			agent_findings TEXT,
			source_id TEXT NOT NULL REFERENCES sources(id),
			mined_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_status ON claims(status)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_review ON claims(needs_review, review_priority)`,
		`CREATE TABLE IF NOT EXISTS claim_sources (
			claim_id TEXT NOT NULL REFERENCES claims(id),
			source_id TEXT NOT NULL REFERENCES sources(id),
			PRIMARY KEY (claim_id, source_id)
		)`,
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			entity_type TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS claim_entities (
			claim_id TEXT NOT NULL REFERENCES claims(id),
			entity_id TEXT NOT NULL REFERENCES entities(id),
			PRIMARY KEY (claim_id, entity_id)
		)`,
		`CREATE TABLE IF NOT EXISTS entity_facts (
			id TEXT PRIMARY KEY,
			entity_id TEXT NOT NULL REFERENCES entities(id),
			fact_text TEXT NOT NULL,
			embedding BLOB,
			source_claim_id TEXT NOT NULL REFERENCES claims(id),
			confidence REAL NOT NULL,
			verified_at TEXT NOT NULL,
			UNIQUE (entity_id, fact_text)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entity_facts_claim ON entity_facts(source_claim_id)`,
		`CREATE TABLE IF NOT EXISTS source_credibility (
			domain TEXT PRIMARY KEY,
			total_claims INTEGER NOT NULL DEFAULT 0,
			verified_count INTEGER NOT NULL DEFAULT 0,
			debunked_count INTEGER NOT NULL DEFAULT 0,
			credibility_score REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS corrections (
			id TEXT PRIMARY KEY,
			claim_id TEXT NOT NULL REFERENCES claims(id),
			original_status TEXT NOT NULL,
			corrected_status TEXT NOT NULL,
			reason TEXT,
			corrector_id TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_corrections_claim ON corrections(claim_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
