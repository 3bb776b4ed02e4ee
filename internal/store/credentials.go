package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JamissonSilvaTico/LavaJato/internal/auth"
	"github.com/JamissonSilvaTico/LavaJato/internal/database"
)

// Credentials is the auth.CredentialStore backed by the credentials table.
type Credentials struct {
	store *Store
}

func (s *Store) Credentials() *Credentials {
	return &Credentials{store: s}
}

func (c *Credentials) Get(ctx context.Context, role auth.Role) (string, error) {
	var hash string
	err := c.store.db.QueryRowxContext(ctx,
		`SELECT password_hash FROM credentials WHERE role = $1`, role).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", database.ErrCredentialNotSet
		}
		return "", fmt.Errorf("get credential: %w", err)
	}
	return hash, nil
}

func (c *Credentials) Set(ctx context.Context, role auth.Role, hash string) error {
	_, err := c.store.db.ExecContext(ctx,
		`INSERT INTO credentials (role, password_hash, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (role) DO UPDATE
		 SET password_hash = EXCLUDED.password_hash, updated_at = NOW()`,
		role, hash)
	if err != nil {
		return fmt.Errorf("set credential: %w", database.ConstraintError(err))
	}
	return nil
}
