package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
	"github.com/samihashehatta/leovegs-task/internal/core/ports"
)

// MySQL error number for a unique-constraint violation.
const errDuplicateEntry = 1062

const selectUserByID = "SELECT id, name, email, password, role, access_token, created_at, updated_at FROM user WHERE id = ?"

// UserRepository persists users in the `user` table.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO user (name, email, password, role) VALUES (?, ?, ?, ?)",
		user.Name, user.Email, user.PasswordDigest, user.Role)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user id: %w", err)
	}

	// read back so the caller sees the database-assigned timestamps
	return r.FindByID(ctx, id)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var (
		u     domain.User
		token sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectUserByID, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordDigest, &u.Role, &token, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.AccessToken = token.String
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, patch ports.UserPatch) error {
	if patch.Empty() {
		return nil
	}

	// fixed column order keeps the generated statement deterministic
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.PasswordDigest != nil {
		sets = append(sets, "password = ?")
		args = append(args, *patch.PasswordDigest)
	}
	if patch.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *patch.Role)
	}
	args = append(args, id)

	query := "UPDATE user SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) SetAccessToken(ctx context.Context, id int64, token string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE user SET access_token = ? WHERE id = ?", token, id); err != nil {
		return fmt.Errorf("set access token: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM user WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func isDuplicateEntry(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}
