package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

func scanResolution(row interface{ Scan(...any) error }) (models.Resolution, error) {
	var r models.Resolution
	var path, createdAt string

	err := row.Scan(&r.ID, &r.UserID, &r.Day, &path, &r.XPAwarded, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Resolution{}, storage.ErrNotFound
		}
		return models.Resolution{}, err
	}

	r.Path = models.ResolutionPath(path)
	r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Resolution{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return r, nil
}

func (s *Store) GetResolution(userID, day string) (models.Resolution, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, day, path, xp_awarded, created_at
		FROM resolutions WHERE user_id = $1 AND day = $2`, userID, day)
	return scanResolution(row)
}

func (s *Store) GetResolutions(userID string) ([]models.Resolution, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, day, path, xp_awarded, created_at
		FROM resolutions WHERE user_id = $1 ORDER BY day`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resolutions []models.Resolution
	for rows.Next() {
		r, err := scanResolution(rows)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, r)
	}

	return resolutions, rows.Err()
}

// ApplyResolution commits one resolved day: ledger mutation, resolution
// record, streak fields and stats in a single transaction. The UNIQUE
// (user_id, day) index on resolutions is the backstop against double
// resolution.
func (s *Store) ApplyResolution(update storage.ResolutionUpdate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if update.Intention != nil {
		if err := updateIntentionTx(tx, *update.Intention); err != nil {
			return err
		}
	}
	if update.Quest != nil {
		if err := updateQuestTx(tx, *update.Quest); err != nil {
			return err
		}
	}

	r := update.Resolution
	if _, err := tx.Exec(`
		INSERT INTO resolutions (id, user_id, day, path, xp_awarded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.UserID, r.Day, string(r.Path), r.XPAwarded, r.CreatedAt.Format(time.RFC3339),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return err
	}

	if err := updateUserTx(tx, update.User); err != nil {
		return err
	}
	if err := saveStatsTx(tx, update.Stats); err != nil {
		return err
	}

	return tx.Commit()
}
