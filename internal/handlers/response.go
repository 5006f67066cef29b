package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/middleware"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

// RespondError renders a domain error with its taxonomy code and status.
// Errors outside the taxonomy become a generic 500.
func RespondError(c *gin.Context, err error) {
  status := apierr.StatusOf(err)
  code := apierr.CodeOf(err)
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  if status == http.StatusInternalServerError && code == "" {
    msg = "internal error"
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
  c.JSON(http.StatusCreated, payload)
}

// actor pulls the id the identity middleware resolved. Registration of the
// route behind RequireActor makes absence a programming error, answered 401.
func actor(c *gin.Context) (uuid.UUID, bool) {
  actorID, ok := middleware.Actor(c)
  if !ok {
    c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id header"})
    return uuid.Nil, false
  }
  return actorID, true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param(param))
  if err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{
      Error: APIError{Message: "invalid " + param, Code: apierr.CodeValidation},
    })
    return uuid.Nil, false
  }
  return id, true
}
