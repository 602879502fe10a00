package interfaces

import "context"

// SessionProviderInterface yields the authenticated user id, if a user is signed in.
type SessionProviderInterface interface {
	UserID(ctx context.Context) (string, bool)
}
