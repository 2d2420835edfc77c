package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// UserIDKey carries the authenticated staff user's id through the request
// context.
const UserIDKey contextKey = "user_id"

// GetUserIDFromContext extracts the user ID from request context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
