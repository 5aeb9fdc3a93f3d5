// Package db persists generated documents to PostgreSQL. The archive is
// optional: the analysis path only ever writes to it, the history endpoints
// only ever read from it.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/zombar/llmstxt/models"
)

// DB wraps the database connection and provides data access methods
type DB struct {
	conn *sql.DB
}

// Config contains database configuration
type Config struct {
	DSN string // PostgreSQL connection string
}

// New creates a new database connection
func New(config Config) (*DB, error) {
	conn, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// DB returns the underlying database connection for metrics collection
func (db *DB) DB() *sql.DB {
	return db.conn
}

// SaveDocument records a generated document. Re-generating the same URL
// with the same pipeline replaces the previous row.
func (db *DB) SaveDocument(doc *models.GeneratedDocument) error {
	query := `
		INSERT INTO llmstxt_documents (id, url, pipeline, title, slug, content, quality_score, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT(url, pipeline) DO UPDATE SET
			id = excluded.id,
			title = excluded.title,
			slug = excluded.slug,
			content = excluded.content,
			quality_score = excluded.quality_score,
			file_path = excluded.file_path,
			created_at = excluded.created_at
	`

	_, err := db.conn.Exec(
		query,
		doc.ID,
		doc.URL,
		doc.Pipeline,
		doc.Title,
		doc.Slug,
		doc.Content,
		doc.QualityScore,
		doc.FilePath,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// GetByID retrieves a generated document by ID. Returns nil when no row
// matches.
func (db *DB) GetByID(id string) (*models.GeneratedDocument, error) {
	query := `
		SELECT id, url, pipeline, title, slug, content, quality_score, file_path, created_at
		FROM llmstxt_documents
		WHERE id = $1
	`

	doc := &models.GeneratedDocument{}
	err := db.conn.QueryRow(query, id).Scan(
		&doc.ID,
		&doc.URL,
		&doc.Pipeline,
		&doc.Title,
		&doc.Slug,
		&doc.Content,
		&doc.QualityScore,
		&doc.FilePath,
		&doc.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// List returns generated documents ordered newest first.
func (db *DB) List(limit, offset int) ([]*models.GeneratedDocument, error) {
	query := `
		SELECT id, url, pipeline, title, slug, content, quality_score, file_path, created_at
		FROM llmstxt_documents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.GeneratedDocument
	for rows.Next() {
		doc := &models.GeneratedDocument{}
		if err := rows.Scan(
			&doc.ID,
			&doc.URL,
			&doc.Pipeline,
			&doc.Title,
			&doc.Slug,
			&doc.Content,
			&doc.QualityScore,
			&doc.FilePath,
			&doc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// Count returns the total number of archived documents.
func (db *DB) Count() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM llmstxt_documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}
