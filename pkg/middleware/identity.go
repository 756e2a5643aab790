package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
)

// Headers forwarded by the upstream identity provider. The provider itself
// is opaque to this service; it terminates authentication at the edge and
// forwards the resolved principal.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

const contextKeyIdentity = "requestIdentity"

// ResolveIdentity extracts the caller identity from the forwarded headers
// and attaches it to both the Gin context and the request context. Requests
// without identity headers pass through anonymous; the Require* gates
// decide whether that is acceptable per route.
func ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := SanitizeString(c.GetHeader(HeaderUserID))
		email := SanitizeString(c.GetHeader(HeaderUserEmail))
		role := c.GetHeader(HeaderUserRole)

		if userID == "" && email == "" {
			c.Next()
			return
		}

		id := &identity.Identity{
			UserID: userID,
			Email:  identity.NormalizeEmail(email),
			Role:   identity.NormalizeRole(role),
		}

		ctx := identity.ToContext(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextKeyIdentity, id)

		c.Next()
	}
}

// RequireIdentity rejects anonymous requests with 401
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id.IsAnonymous() {
			AbortWithAppError(c, errors.ErrUnauthorized("authentication required"))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous requests with 401 and authenticated
// non-admin requests with 403
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id.IsAnonymous() {
			AbortWithAppError(c, errors.ErrUnauthorized("authentication required"))
			return
		}
		if !id.IsAdmin() {
			AbortWithAppError(c, errors.ErrForbidden("administrator role required"))
			return
		}
		c.Next()
	}
}

// GetIdentity retrieves the resolved identity from the Gin context.
// Returns nil for anonymous requests.
func GetIdentity(c *gin.Context) *identity.Identity {
	if val, exists := c.Get(contextKeyIdentity); exists {
		if id, ok := val.(*identity.Identity); ok {
			return id
		}
	}
	return identity.FromContextOptional(c.Request.Context())
}
