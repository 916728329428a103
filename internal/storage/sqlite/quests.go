package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

func scanQuest(row interface{ Scan(...any) error }) (models.RecoveryQuest, error) {
	var q models.RecoveryQuest
	var status, createdAt string
	var completedAt sql.NullString

	err := row.Scan(&q.ID, &q.UserID, &q.SourceIntentionID, &q.Day, &q.Prompt, &q.Response, &status, &createdAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RecoveryQuest{}, storage.ErrNotFound
		}
		return models.RecoveryQuest{}, err
	}

	q.Status = models.QuestStatus(status)
	q.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.RecoveryQuest{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return models.RecoveryQuest{}, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		q.CompletedAt = &t
	}

	return q, nil
}

const questColumns = "id, user_id, source_intention_id, day, prompt, response, status, created_at, completed_at"

func (s *Store) GetQuest(id string) (models.RecoveryQuest, error) {
	row := s.db.QueryRow(
		"SELECT "+questColumns+" FROM recovery_quests WHERE id = ?", id)
	return scanQuest(row)
}

func (s *Store) GetQuestByIntention(intentionID string) (models.RecoveryQuest, error) {
	row := s.db.QueryRow(
		"SELECT "+questColumns+" FROM recovery_quests WHERE source_intention_id = ?", intentionID)
	return scanQuest(row)
}

func (s *Store) GetPendingQuests(userID string) ([]models.RecoveryQuest, error) {
	rows, err := s.db.Query(
		"SELECT "+questColumns+" FROM recovery_quests WHERE user_id = ? AND status = ? ORDER BY day",
		userID, string(models.QuestPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quests []models.RecoveryQuest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}

	return quests, rows.Err()
}

// FailIntention flips the intention to failed and creates its recovery quest
// as one unit. A failed intention without a quest must never be observable.
func (s *Store) FailIntention(intention models.DailyIntention, quest models.RecoveryQuest) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateIntentionTx(tx, intention); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO recovery_quests (id, user_id, source_intention_id, day, prompt, response, status, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		quest.ID, quest.UserID, quest.SourceIntentionID, quest.Day, quest.Prompt,
		quest.Response, string(quest.Status), quest.CreatedAt.Format(time.RFC3339),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return err
	}

	return tx.Commit()
}

func (s *Store) UpdateQuest(quest models.RecoveryQuest) error {
	return updateQuestTx(s.db, quest)
}

func updateQuestTx(e execer, q models.RecoveryQuest) error {
	var completedAt any
	if q.CompletedAt != nil {
		completedAt = q.CompletedAt.Format(time.RFC3339)
	}

	res, err := e.Exec(`
		UPDATE recovery_quests
		SET response = ?, status = ?, completed_at = ?
		WHERE id = ?`,
		q.Response, string(q.Status), completedAt, q.ID,
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
