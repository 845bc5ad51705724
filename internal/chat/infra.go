package chat

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

// GetUser returns (nil, nil) when the user has no row yet.
func (r *repo) GetUser(ctx context.Context, userID string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, name, email
		FROM users
		WHERE user_id = $1
	`, userID)

	var u User
	if err := row.Scan(&u.UserID, &u.Name, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select user")
	}

	return &u, nil
}

func (r *repo) SaveUser(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, name, email)
		VALUES ($1, $2, $3)
	`,
		u.UserID,
		u.Name,
		u.Email,
	)
	return errors.Wrap(err, "insert user")
}

func (r *repo) SaveChat(ctx context.Context, msg *ChatMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chats (user_id, message, reply)
		VALUES ($1, $2, $3)
	`,
		msg.UserID,
		msg.Message,
		msg.Reply,
	)
	return errors.Wrap(err, "insert chat")
}

func (r *repo) GetHistory(ctx context.Context, userID string) ([]ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, message, reply, extract(epoch from created_at)::bigint
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "select history")
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Message,
			&m.Reply,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan chat row")
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
