package remote

import (
	"context"
	"strings"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
	remoteInterfaces "vivafit/internal/remote/interfaces"
)

// AuthUserIDKey is where the sign-in flow stores the authenticated user id.
const AuthUserIDKey = "authUserId"

// KVSessionProvider reads the signed-in user from the local key-value store.
type KVSessionProvider struct {
	kv     interfaces.KeyValueStoreInterface
	logger providers.Logger
}

func NewKVSessionProvider(kv interfaces.KeyValueStoreInterface, logger providers.Logger) remoteInterfaces.SessionProviderInterface {
	return &KVSessionProvider{kv: kv, logger: logger}
}

func (p *KVSessionProvider) UserID(ctx context.Context) (string, bool) {
	v, ok, err := p.kv.Get(ctx, AuthUserIDKey)
	if err != nil {
		p.logger.Warnf(providers.TypeWorkout, "Cannot read session: %s", err)
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
