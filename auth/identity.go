package auth

import "context"

// Identity is the opaque user handed out by the identity provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Anonymous reports whether no user is signed in.
func (i Identity) Anonymous() bool {
	return i.ID == ""
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the current user, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.Anonymous() {
		return Identity{}, false
	}
	return id, true
}
