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

// CreateBoard inserts a new board column. When SortOrder is zero the board
// is placed after the project's existing boards.
func (s *SQLiteStore) CreateBoard(ctx context.Context, board model.Board) error {
	if strings.TrimSpace(board.Title) == "" {
		return fmt.Errorf("board title must not be empty")
	}
	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	if board.CreatedAt.IsZero() {
		board.CreatedAt = time.Now().UTC()
	}

	if board.SortOrder == 0 {
		var maxOrder int
		_ = s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM boards WHERE project_id = ?",
			board.ProjectID)
		board.SortOrder = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO boards (id, project_id, title, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		board.ID, board.ProjectID, board.Title, board.SortOrder, board.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating board: %w", err)
	}
	return nil
}

// GetBoards retrieves a project's boards in column order.
func (s *SQLiteStore) GetBoards(
	ctx context.Context,
	projectID string,
) ([]model.Board, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM boards WHERE project_id = ? ORDER BY sort_order", projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying boards for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var boards []model.Board
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Title, &b.SortOrder, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning board row: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// CreateCard inserts a new card. When SortOrder is zero the card is placed
// at the bottom of its board.
func (s *SQLiteStore) CreateCard(ctx context.Context, card model.Card) error {
	if strings.TrimSpace(card.Title) == "" {
		return fmt.Errorf("card title must not be empty")
	}
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now

	if card.SortOrder == 0 {
		var maxOrder int
		_ = s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM cards WHERE board_id = ?",
			card.BoardID)
		card.SortOrder = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (
			id, project_id, board_id, title, description,
			assignee_id, sort_order, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.ProjectID, card.BoardID, card.Title, card.Description,
		card.AssigneeID, card.SortOrder, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating card: %w", err)
	}
	return nil
}

// UpdateCard updates an existing card, including board placement.
func (s *SQLiteStore) UpdateCard(ctx context.Context, card model.Card) error {
	if strings.TrimSpace(card.Title) == "" {
		return fmt.Errorf("card title must not be empty")
	}
	card.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards SET
			board_id = ?, title = ?, description = ?,
			assignee_id = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		card.BoardID, card.Title, card.Description,
		card.AssigneeID, card.SortOrder, card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("updating card %s: %w", card.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("card %s not found", card.ID)
	}
	return nil
}

// GetCardByID retrieves a single card by its ID.
func (s *SQLiteStore) GetCardByID(
	ctx context.Context,
	id string,
) (*model.Card, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM cards WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting card %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("card %s not found", id)
	}

	card, err := scanCard(rows)
	if err != nil {
		return nil, fmt.Errorf("getting card %s: %w", id, err)
	}
	return &card, rows.Err()
}

// GetCards retrieves a project's cards matching the filter, ordered by
// board and position.
func (s *SQLiteStore) GetCards(
	ctx context.Context,
	projectID string,
	filter CardFilter,
) ([]model.Card, error) {
	conditions := []string{"project_id = ?"}
	args := []interface{}{projectID}

	if filter.BoardID != nil {
		conditions = append(conditions, "board_id = ?")
		args = append(args, *filter.BoardID)
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, "assignee_id = ?")
		args = append(args, *filter.AssigneeID)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT * FROM cards WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY board_id, sort_order"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// scanCard scans a card row from a sqlx.Rows result set.
func scanCard(rows *sqlx.Rows) (model.Card, error) {
	var card model.Card
	err := rows.Scan(
		&card.ID, &card.ProjectID, &card.BoardID, &card.Title, &card.Description,
		&card.AssigneeID, &card.SortOrder, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return model.Card{}, fmt.Errorf("scanning card row: %w", err)
	}
	return card, nil
}
