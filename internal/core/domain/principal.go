package domain

import "context"

// Principal is the resolved identity of the caller, attached to the request
// context after successful authentication and discarded with the request.
type Principal struct {
	ID         string
	Email      string
	Username   string
	Name       string
	Role       Role
	Department string
}

// Claims returns a fresh claim set for reissuing a token to p.
func (p Principal) Claims() Claims {
	return Claims{
		ID:         p.ID,
		Email:      p.Email,
		Username:   p.Username,
		Name:       p.Name,
		Role:       p.Role,
		Department: p.Department,
	}
}

// IsAdmin reports whether p holds the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type principalContextKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFrom returns the principal attached to ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
