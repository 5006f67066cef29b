package middleware

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/services"
)

// ActorKey is the gin context key holding the authenticated actor id.
const ActorKey = "actorID"

// IdentityMiddleware resolves the caller identity from the X-User-Id header.
// The service sits behind a session layer that already authenticated the id,
// so the header is the trust boundary, not a credential.
type IdentityMiddleware struct {
  log    *logger.Logger
  admins services.AdminChecker
}

func NewIdentityMiddleware(log *logger.Logger, admins services.AdminChecker) *IdentityMiddleware {
  return &IdentityMiddleware{log: log.With("middleware", "IdentityMiddleware"), admins: admins}
}

func (im *IdentityMiddleware) RequireActor() gin.HandlerFunc {
  return func(c *gin.Context) {
    raw := c.GetHeader("X-User-Id")
    if raw == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id header"})
      return
    }
    actorID, err := uuid.Parse(raw)
    if err != nil || actorID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-User-Id header"})
      return
    }
    c.Set(ActorKey, actorID)
    c.Next()
  }
}

func (im *IdentityMiddleware) RequireAdmin() gin.HandlerFunc {
  return func(c *gin.Context) {
    actorID, ok := Actor(c)
    if !ok {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id header"})
      return
    }
    if !im.admins.IsAdmin(c.Request.Context(), actorID) {
      im.log.Debug("Admin access denied", "actor_id", actorID, "path", c.FullPath())
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
      return
    }
    c.Next()
  }
}

// Actor returns the actor id set by RequireActor.
func Actor(c *gin.Context) (uuid.UUID, bool) {
  val, exists := c.Get(ActorKey)
  if !exists {
    return uuid.Nil, false
  }
  actorID, ok := val.(uuid.UUID)
  return actorID, ok && actorID != uuid.Nil
}
