package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// ListUsers retrieves all users ordered by id.
func (m *SQLiteDataManager) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, m.fail("list_users", storageErr("query users", err))
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, m.fail("list_users", storageErr("scan user", err))
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, m.fail("list_users", storageErr("iterate users", err))
	}

	return users, nil
}

// GetUser retrieves a user by id.
func (m *SQLiteDataManager) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User

	err := m.db.QueryRowContext(ctx, `SELECT id, name FROM users WHERE id = ?`, id).Scan(&u.ID, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, m.fail("get_user", fmt.Errorf("%w: %d", shared.ErrUserNotFound, id))
	}
	if err != nil {
		return models.User{}, m.fail("get_user", storageErr("query user", err))
	}

	return u, nil
}

// AddUser inserts a new user and returns it with its generated id.
func (m *SQLiteDataManager) AddUser(ctx context.Context, name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, m.fail("add_user", fmt.Errorf("%w: user name is required", shared.ErrInvalidInput))
	}

	user := models.User{Name: name}
	err := m.withTx(ctx, "add_user", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO users (name) VALUES (?)`, name)
		if err != nil {
			return storageErr("insert user", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return storageErr("read user id", err)
		}
		user.ID = id
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	m.logger.Debug("user added", "id", user.ID)
	return user, nil
}
