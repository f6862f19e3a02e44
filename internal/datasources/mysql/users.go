package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/toolgrove/marketplace/internal/domain"
)

func (r *Repository) GetUserRole(ctx context.Context, userID string) (domain.UserRole, error) {
	var role string
	err := r.db.QueryRowContext(ctx,
		"SELECT role FROM users WHERE id = ?", userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoleNone, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.RoleNone, fmt.Errorf("fetching user role: %w", err)
	}
	return domain.UserRole(role), nil
}
