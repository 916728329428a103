package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

func scanIntention(row interface{ Scan(...any) error }) (models.DailyIntention, error) {
	var in models.DailyIntention
	var status, createdAt, updatedAt string

	err := row.Scan(&in.ID, &in.UserID, &in.Day, &in.Description, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DailyIntention{}, storage.ErrNotFound
		}
		return models.DailyIntention{}, err
	}

	in.Status = models.IntentionStatus(status)
	in.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.DailyIntention{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	in.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.DailyIntention{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return in, nil
}

func (s *Store) GetIntention(userID, day string) (models.DailyIntention, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, day, description, status, created_at, updated_at
		FROM daily_intentions WHERE user_id = ? AND day = ?`, userID, day)
	return scanIntention(row)
}

func (s *Store) GetIntentionByID(id string) (models.DailyIntention, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, day, description, status, created_at, updated_at
		FROM daily_intentions WHERE id = ?`, id)
	return scanIntention(row)
}

func (s *Store) GetIntentions(userID, startDay, endDay string) ([]models.DailyIntention, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, day, description, status, created_at, updated_at
		FROM daily_intentions
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, userID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intentions []models.DailyIntention
	for rows.Next() {
		in, err := scanIntention(rows)
		if err != nil {
			return nil, err
		}
		intentions = append(intentions, in)
	}

	return intentions, rows.Err()
}

func (s *Store) CreateIntention(intention models.DailyIntention, stats models.CharacterStats) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertIntentionTx(tx, intention); err != nil {
		return err
	}
	if err := saveStatsTx(tx, stats); err != nil {
		return err
	}

	return tx.Commit()
}

func insertIntentionTx(e execer, in models.DailyIntention) error {
	_, err := e.Exec(`
		INSERT INTO daily_intentions (id, user_id, day, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Day, in.Description, string(in.Status),
		in.CreatedAt.Format(time.RFC3339), in.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil && isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	return err
}

func (s *Store) UpdateIntention(intention models.DailyIntention) error {
	return updateIntentionTx(s.db, intention)
}

func updateIntentionTx(e execer, in models.DailyIntention) error {
	res, err := e.Exec(`
		UPDATE daily_intentions
		SET description = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		in.Description, string(in.Status), in.UpdatedAt.Format(time.RFC3339), in.ID,
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
	return nil
}
