package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/infrastructure/database"
	"github.com/taskmaster/kanban/internal/ports"
)

// SessionRepositoryImpl implements the SessionStorage interface on sqlite
type SessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) ports.SessionStorage {
	return &SessionRepositoryImpl{db: db}
}

type stateRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

func (r *SessionRepositoryImpl) Load(ctx context.Context) (*entities.Session, error) {
	query := `SELECT key, value FROM client_state WHERE key IN (?, ?)`

	var rows []stateRow
	if err := r.db.DB.SelectContext(ctx, &rows, query, ports.KeyAuthToken, ports.KeyAuthUser); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var token, rawUser string
	for _, row := range rows {
		switch row.Key {
		case ports.KeyAuthToken:
			token = row.Value
		case ports.KeyAuthUser:
			rawUser = row.Value
		}
	}

	if token == "" && rawUser == "" {
		return nil, nil
	}

	// a lone half, or a user entry that no longer decodes, is no session
	var user entities.User
	if token == "" || rawUser == "" || json.Unmarshal([]byte(rawUser), &user) != nil {
		if err := r.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear incomplete session: %w", err)
		}
		return nil, nil
	}

	return &entities.Session{Token: token, User: user}, nil
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, session entities.Session) error {
	rawUser, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	query := `
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, ports.KeyAuthToken, session.Token); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, ports.KeyAuthUser, string(rawUser)); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return nil
	})
}

func (r *SessionRepositoryImpl) Clear(ctx context.Context) error {
	query := `DELETE FROM client_state WHERE key IN (?, ?)`

	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, ports.KeyAuthToken, ports.KeyAuthUser); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	})
}
