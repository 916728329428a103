package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	var createdAt string
	var lastResolved sql.NullString

	err := row.Scan(&u.ID, &u.Name, &u.Timezone, &u.CurrentStreak, &u.LongestStreak, &lastResolved, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}

	u.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lastResolved.Valid {
		u.LastResolvedDay = &lastResolved.String
	}

	return u, nil
}

func (s *Store) AddUser(user models.User) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (id, name, timezone, current_streak, longest_streak, last_resolved_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Timezone, user.CurrentStreak, user.LongestStreak,
		nullableDay(user.LastResolvedDay), user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return err
	}

	// Every user gets a stats row from day one
	if _, err := tx.Exec(`
		INSERT INTO character_stats (user_id, xp, clarity, discipline, resilience)
		VALUES (?, 0, 0, 0, 0)`, user.ID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetUser(id string) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, timezone, current_streak, longest_streak, last_resolved_day, created_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *Store) GetUserByName(name string) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, timezone, current_streak, longest_streak, last_resolved_day, created_at
		FROM users WHERE name = ?`, name)
	return scanUser(row)
}

func (s *Store) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT id, name, timezone, current_streak, longest_streak, last_resolved_day, created_at
		FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *Store) UpdateUser(user models.User) error {
	return updateUserTx(s.db, user)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func updateUserTx(e execer, user models.User) error {
	res, err := e.Exec(`
		UPDATE users
		SET name = ?, timezone = ?, current_streak = ?, longest_streak = ?, last_resolved_day = ?
		WHERE id = ?`,
		user.Name, user.Timezone, user.CurrentStreak, user.LongestStreak,
		nullableDay(user.LastResolvedDay), user.ID,
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

func (s *Store) GetStats(userID string) (models.CharacterStats, error) {
	row := s.db.QueryRow(`
		SELECT user_id, xp, clarity, discipline, resilience
		FROM character_stats WHERE user_id = ?`, userID)

	var st models.CharacterStats
	err := row.Scan(&st.UserID, &st.XP, &st.Clarity, &st.Discipline, &st.Resilience)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CharacterStats{}, storage.ErrNotFound
		}
		return models.CharacterStats{}, err
	}
	return st, nil
}

func (s *Store) SaveStats(stats models.CharacterStats) error {
	return saveStatsTx(s.db, stats)
}

func saveStatsTx(e execer, stats models.CharacterStats) error {
	_, err := e.Exec(`
		INSERT INTO character_stats (user_id, xp, clarity, discipline, resilience)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			xp = excluded.xp,
			clarity = excluded.clarity,
			discipline = excluded.discipline,
			resilience = excluded.resilience`,
		stats.UserID, stats.XP, stats.Clarity, stats.Discipline, stats.Resilience,
	)
	return err
}

func nullableDay(day *string) any {
	if day == nil {
		return nil
	}
	return *day
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}
