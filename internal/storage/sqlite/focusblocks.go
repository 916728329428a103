package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

func scanFocusBlock(row interface{ Scan(...any) error }) (models.FocusBlock, error) {
	var b models.FocusBlock
	var status, createdAt string
	var completedAt sql.NullString

	err := row.Scan(&b.ID, &b.IntentionID, &b.Description, &b.DurationMin, &status, &createdAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FocusBlock{}, storage.ErrNotFound
		}
		return models.FocusBlock{}, err
	}

	b.Status = models.FocusBlockStatus(status)
	b.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.FocusBlock{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return models.FocusBlock{}, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		b.CompletedAt = &t
	}

	return b, nil
}

const focusBlockColumns = "id, intention_id, description, duration_min, status, created_at, completed_at"

func (s *Store) AddFocusBlock(block models.FocusBlock) error {
	_, err := s.db.Exec(`
		INSERT INTO focus_blocks (id, intention_id, description, duration_min, status, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		block.ID, block.IntentionID, block.Description, block.DurationMin,
		string(block.Status), block.CreatedAt.Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetFocusBlock(id string) (models.FocusBlock, error) {
	row := s.db.QueryRow(
		"SELECT "+focusBlockColumns+" FROM focus_blocks WHERE id = ?", id)
	return scanFocusBlock(row)
}

func (s *Store) GetFocusBlocks(intentionID string) ([]models.FocusBlock, error) {
	rows, err := s.db.Query(
		"SELECT "+focusBlockColumns+" FROM focus_blocks WHERE intention_id = ? ORDER BY created_at",
		intentionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.FocusBlock
	for rows.Next() {
		b, err := scanFocusBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}

	return blocks, rows.Err()
}

func (s *Store) GetPendingFocusBlock(intentionID string) (models.FocusBlock, error) {
	row := s.db.QueryRow(
		"SELECT "+focusBlockColumns+" FROM focus_blocks WHERE intention_id = ? AND status = ?",
		intentionID, string(models.FocusBlockPending))
	return scanFocusBlock(row)
}

func (s *Store) CompleteFocusBlock(block models.FocusBlock, stats models.CharacterStats) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var completedAt any
	if block.CompletedAt != nil {
		completedAt = block.CompletedAt.Format(time.RFC3339)
	}

	res, err := tx.Exec(`
		UPDATE focus_blocks SET status = ?, completed_at = ? WHERE id = ?`,
		string(block.Status), completedAt, block.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if err := saveStatsTx(tx, stats); err != nil {
		return err
	}

	return tx.Commit()
}
