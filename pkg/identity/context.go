package identity

import (
	"context"
	"errors"
	"strings"
)

type contextKey string

const identityKey contextKey = "identity"

// Role is the coarse authorization label attached to an identity.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Errors for identity context operations
var (
	ErrNoIdentity = errors.New("no identity resolved for request")
	ErrForbidden  = errors.New("forbidden: insufficient role")
)

// Identity is the caller's resolved identity as reported by the upstream
// identity provider. The provider is opaque to this service; we only see
// its forwarded id, email and role.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// NormalizeRole uppercases a raw role string and maps anything that is
// not exactly ADMIN to the least-privileged role.
func NormalizeRole(raw string) Role {
	if strings.ToUpper(strings.TrimSpace(raw)) == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// NormalizeEmail trims and lowercases an email for comparison purposes.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == RoleAdmin
}

// IsAnonymous reports whether no usable identity was resolved.
func (id *Identity) IsAnonymous() bool {
	return id == nil || (id.UserID == "" && id.Email == "")
}

// ToContext attaches the identity to a context.Context.
func ToContext(ctx context.Context, id *Identity) context.Context {
	if id == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the identity from a context.Context. Returns
// ErrNoIdentity when the request is anonymous.
func FromContext(ctx context.Context) (*Identity, error) {
	id := FromContextOptional(ctx)
	if id.IsAnonymous() {
		return nil, ErrNoIdentity
	}
	return id, nil
}

// FromContextOptional extracts the identity, returning nil for
// anonymous requests instead of an error.
func FromContextOptional(ctx context.Context) *Identity {
	if v := ctx.Value(identityKey); v != nil {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}

// Scope is the visibility filter derived from an identity. Non-admin
// identities only see records they own; an identity with neither a user
// id nor an email matches nothing (the filter fails closed).
type Scope struct {
	Admin  bool
	UserID string
	Email  string
}

// ScopeFor derives the visibility scope for an identity.
func ScopeFor(id *Identity) Scope {
	if id == nil {
		return Scope{}
	}
	return Scope{
		Admin:  id.IsAdmin(),
		UserID: id.UserID,
		Email:  NormalizeEmail(id.Email),
	}
}

// Unrestricted reports whether the scope sees the full collection.
func (s Scope) Unrestricted() bool {
	return s.Admin
}

// Empty reports whether the scope can never match any record. List and
// search queries must return zero results for an empty scope rather
// than widening to the full collection.
func (s Scope) Empty() bool {
	return !s.Admin && s.UserID == "" && s.Email == ""
}
