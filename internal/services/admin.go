package services

import (
  "context"
  "strings"

  "github.com/google/uuid"

  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/utils"
)

// AdminChecker answers whether a user holds the admin role. Authentication
// itself lives outside this engine; this is the one hook arbitration needs.
type AdminChecker interface {
  IsAdmin(ctx context.Context, userID uuid.UUID) bool
}

type envAdminChecker struct {
  admins map[uuid.UUID]bool
  log    *logger.Logger
}

// NewEnvAdminChecker reads ADMIN_USER_IDS (comma-separated uuids).
func NewEnvAdminChecker(baseLog *logger.Logger) AdminChecker {
  log := baseLog.With("service", "AdminChecker")
  admins := map[uuid.UUID]bool{}
  raw := utils.GetEnv("ADMIN_USER_IDS", "", log)
  for _, part := range strings.Split(raw, ",") {
    part = strings.TrimSpace(part)
    if part == "" {
      continue
    }
    id, err := uuid.Parse(part)
    if err != nil {
      log.Warn("Ignoring malformed admin id", "value", part, "error", err)
      continue
    }
    admins[id] = true
  }
  log.Info("Admin checker configured", "admin_count", len(admins))
  return &envAdminChecker{admins: admins, log: log}
}

func (c *envAdminChecker) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
  return c.admins[userID]
}
