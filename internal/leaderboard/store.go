package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/proximity/internal/category"
)

// DefaultLimit is used when Top is called without a positive limit.
const DefaultLimit = 20

// ErrInvalidSubmission is returned for tuples the table would reject.
var ErrInvalidSubmission = errors.New("leaderboard: invalid submission")

// Submission is the completed-session tuple handed over by the game.
// An empty UserID stores a guest score.
type Submission struct {
	SessionID   string      `json:"sessionId"`
	Category    category.ID `json:"category"`
	Mode        string      `json:"mode"`
	Score       int         `json:"score"`
	TimeSeconds int         `json:"timeSeconds"`
	UserID      string      `json:"userId,omitempty"`
}

// Row is one leaderboard line.
type Row struct {
	Rank        int       `json:"rank"`
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	TimeSeconds int       `json:"timeSeconds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store reads and writes the scores table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Submit records s. A session is stored at most once; resubmitting it is a no-op.
func (s *Store) Submit(ctx context.Context, sub Submission) error {
	if sub.SessionID == "" || sub.Category == "" || sub.Score < 0 || sub.TimeSeconds < 0 {
		return ErrInvalidSubmission
	}
	if sub.Mode != "classic" && sub.Mode != "speedrun" {
		return fmt.Errorf("%w: mode %q", ErrInvalidSubmission, sub.Mode)
	}
	var userID any
	if sub.UserID != "" {
		userID = sub.UserID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO scores (session_id, category_id, mode, score, time_seconds, user_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sub.SessionID, string(sub.Category), sub.Mode, sub.Score, sub.TimeSeconds, userID,
	)
	return err
}

// Top returns the best scores for a category and mode, highest score first,
// then fastest, then earliest. Guest rows have username "guest".
func (s *Store) Top(ctx context.Context, cat category.ID, mode string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(u.username, 'guest'), s.score, s.time_seconds, s.created_at
		FROM scores s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.category_id = ? AND s.mode = ?
		ORDER BY s.score DESC, s.time_seconds ASC, s.created_at ASC, s.id ASC
		LIMIT ?`, string(cat), mode, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		var created string
		if err := rows.Scan(&r.Username, &r.Score, &r.TimeSeconds, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		r.Rank = len(out) + 1
		out = append(out, r)
	}
	return out, rows.Err()
}
