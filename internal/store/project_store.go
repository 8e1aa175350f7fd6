package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/project-hub/internal/model"
)

// CreateProject inserts a new project.
func (s *SQLiteStore) CreateProject(ctx context.Context, project model.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, owner_id, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description, project.OwnerID,
		project.Color, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

// UpdateProject updates an existing project.
func (s *SQLiteStore) UpdateProject(ctx context.Context, project model.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("project name must not be empty")
	}
	project.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE projects SET
			name = ?, description = ?, owner_id = ?, color = ?, updated_at = ?
		WHERE id = ?`,
		project.Name, project.Description, project.OwnerID, project.Color,
		project.UpdatedAt, project.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", project.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", project.ID)
	}
	return nil
}

// GetProjectByID retrieves a single project with its shares.
func (s *SQLiteStore) GetProjectByID(
	ctx context.Context,
	id string,
) (*model.Project, error) {
	var project model.Project

	err := s.db.QueryRowxContext(ctx, "SELECT * FROM projects WHERE id = ?", id).Scan(
		&project.ID, &project.Name, &project.Description,
		&project.OwnerID, &project.Color,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}

	shares, err := s.GetShares(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Shares = shares

	return &project, nil
}

// GetProjects retrieves all projects ordered by name. Shares are not
// populated; use GetProjectByID for the full record.
func (s *SQLiteStore) GetProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Color,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpsertShare grants or updates a user's role on a project.
func (s *SQLiteStore) UpsertShare(ctx context.Context, share model.Share) error {
	if share.CreatedAt.IsZero() {
		share.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shares (project_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id, user_id) DO UPDATE SET role = excluded.role`,
		share.ProjectID, share.UserID, share.Role, share.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting share for %s on %s: %w", share.UserID, share.ProjectID, err)
	}
	return nil
}

// GetShares retrieves all shares for a project.
func (s *SQLiteStore) GetShares(
	ctx context.Context,
	projectID string,
) ([]model.Share, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM shares WHERE project_id = ? ORDER BY created_at", projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying shares for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var shares []model.Share
	for rows.Next() {
		var sh model.Share
		if err := rows.Scan(&sh.ProjectID, &sh.UserID, &sh.Role, &sh.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning share row: %w", err)
		}
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}
