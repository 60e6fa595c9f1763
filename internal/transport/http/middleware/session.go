package middleware

import (
	"github.com/gin-gonic/gin"

	"metra-backend/internal/core/session"
	"metra-backend/internal/domain"
	"metra-backend/internal/transport/http/response"
)

// HeaderSessionToken carries the opaque bearer credential on every
// authenticated call.
const HeaderSessionToken = "X-Session-Token"

const ctxUserKey = "currentUser"

// RequireSession resolves the X-Session-Token header into a live user and
// stores it in the context. Tokens that resolve but point at a deleted or
// deactivated account are invalidated on the spot, so stale sessions purge
// themselves on first use.
func RequireSession(store *session.Store, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderSessionToken)
		if token == "" {
			response.Unauthorized(c, "Geçersiz veya süresi dolmuş oturum anahtarı.")
			return
		}
		sess, err := store.Resolve(token)
		if err != nil {
			response.Unauthorized(c, "Geçersiz veya süresi dolmuş oturum anahtarı.")
			return
		}
		user, err := users.FindByID(c.Request.Context(), sess.UserID)
		if err != nil {
			response.Internal(c, "Oturum doğrulanamadı.")
			return
		}
		if user == nil || !user.IsActive {
			store.Invalidate(token)
			response.Unauthorized(c, "Oturum sahibi bulunamadı veya pasif durumda.")
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// OptionalSession is RequireSession without the abort: anonymous or
// unresolvable callers simply proceed with no user in context. Stale tokens
// are still purged.
func OptionalSession(store *session.Store, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderSessionToken)
		if token == "" {
			c.Next()
			return
		}
		sess, err := store.Resolve(token)
		if err != nil {
			c.Next()
			return
		}
		user, err := users.FindByID(c.Request.Context(), sess.UserID)
		if err == nil && (user == nil || !user.IsActive) {
			store.Invalidate(token)
		}
		if err == nil && user != nil && user.IsActive {
			c.Set(ctxUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by the session
// middleware, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
