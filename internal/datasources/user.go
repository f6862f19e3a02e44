package datasources

import (
	"context"

	"github.com/toolgrove/marketplace/internal/domain"
)

// UserRoleGetter resolves the role a user holds. Callers are expected to
// wrap it with a TTL cache; the raw lookup hits the users table.
type UserRoleGetter interface {
	GetUserRole(ctx context.Context, userID string) (domain.UserRole, error)
}
