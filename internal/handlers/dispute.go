package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/services"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type DisputeHandler struct {
  svc services.DisputeService
}

func NewDisputeHandler(svc services.DisputeService) *DisputeHandler {
  return &DisputeHandler{svc: svc}
}

type openDisputeRequest struct {
  FeedbackID           uuid.UUID `json:"feedbackId"`
  JustificativaDisputa string    `json:"justificativaDisputa"`
  EvidenciasPath       string    `json:"evidenciasPath"`
}

type disputeDecisionRequest struct {
  Decisao types.DisputeDecision `json:"decisao"`
}

// POST /api/feedback/disputes (X-User-Id = rated party)
func (h *DisputeHandler) Open(c *gin.Context) {
  userID, ok := actor(c)
  if !ok {
    return
  }
  var req openDisputeRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid request body", Code: apierr.CodeValidation}})
    return
  }

  dispute, err := h.svc.Open(c.Request.Context(), nil, services.OpenDisputeCommand{
    FeedbackID:           req.FeedbackID,
    JustificativaDisputa: req.JustificativaDisputa,
    EvidenciasPath:       req.EvidenciasPath,
  }, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, dispute)
}

// GET /api/feedback/disputes/mine (X-User-Id)
func (h *DisputeHandler) Mine(c *gin.Context) {
  userID, ok := actor(c)
  if !ok {
    return
  }
  disputes, err := h.svc.ListMine(c.Request.Context(), nil, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, disputes)
}

// GET /api/feedback/disputes/open (admin)
func (h *DisputeHandler) ListOpen(c *gin.Context) {
  disputes, err := h.svc.ListOpen(c.Request.Context(), nil)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, disputes)
}

// POST /api/feedback/disputes/:id/decision (admin)
func (h *DisputeHandler) Decide(c *gin.Context) {
  adminID, ok := actor(c)
  if !ok {
    return
  }
  disputeID, ok := parseID(c, "id")
  if !ok {
    return
  }
  var req disputeDecisionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid request body", Code: apierr.CodeValidation}})
    return
  }

  dispute, err := h.svc.Decide(c.Request.Context(), nil, disputeID, req.Decisao, adminID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, dispute)
}
