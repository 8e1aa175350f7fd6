package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/project-hub/internal/model"
)

// CreateDocument inserts a new document at version 1.
func (s *SQLiteStore) CreateDocument(ctx context.Context, doc model.Document) error {
	if strings.TrimSpace(doc.Title) == "" {
		return fmt.Errorf("document title must not be empty")
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Version == 0 {
		doc.Version = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (
			id, project_id, title, content, version, updated_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.ProjectID, doc.Title, doc.Content, doc.Version,
		doc.UpdatedBy, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	return nil
}

// UpdateDocument replaces a document's content and bumps its version.
func (s *SQLiteStore) UpdateDocument(ctx context.Context, doc model.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE documents SET
			title = ?, content = ?, version = version + 1,
			updated_by = ?, updated_at = ?
		WHERE id = ?`,
		doc.Title, doc.Content, doc.UpdatedBy, doc.UpdatedAt, doc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating document %s: %w", doc.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("document %s not found", doc.ID)
	}
	return nil
}

// GetDocumentByID retrieves a single document by its ID.
func (s *SQLiteStore) GetDocumentByID(
	ctx context.Context,
	id string,
) (*model.Document, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM documents WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("document %s not found", id)
	}

	doc, err := scanDocument(rows)
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}
	return &doc, rows.Err()
}

// GetDocuments retrieves a project's documents ordered by title.
func (s *SQLiteStore) GetDocuments(
	ctx context.Context,
	projectID string,
) ([]model.Document, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM documents WHERE project_id = ? ORDER BY title", projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying documents for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// scanDocument scans a document row from a sqlx.Rows result set.
func scanDocument(rows *sqlx.Rows) (model.Document, error) {
	var doc model.Document
	err := rows.Scan(
		&doc.ID, &doc.ProjectID, &doc.Title, &doc.Content, &doc.Version,
		&doc.UpdatedBy, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return model.Document{}, fmt.Errorf("scanning document row: %w", err)
	}
	return doc, nil
}
