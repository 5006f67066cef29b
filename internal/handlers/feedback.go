package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/services"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type FeedbackHandler struct {
  svc        services.FeedbackService
  reputation services.ReputationService
}

func NewFeedbackHandler(svc services.FeedbackService, reputation services.ReputationService) *FeedbackHandler {
  return &FeedbackHandler{svc: svc, reputation: reputation}
}

type submitFeedbackRequest struct {
  ProjectID         uuid.UUID          `json:"projectId"`
  RatedID           uuid.UUID          `json:"ratedId"`
  RatedRole         types.FeedbackRole `json:"ratedRole"`
  QualidadeTecnica  int                `json:"qualidadeTecnica"`
  CumprimentoPrazos int                `json:"cumprimentoPrazos"`
  Comunicacao       int                `json:"comunicacao"`
  Colaboracao       int                `json:"colaboracao"`
  Comentario        string             `json:"comentario"`
}

// POST /api/feedback (X-User-Id = rater)
func (h *FeedbackHandler) Submit(c *gin.Context) {
  raterID, ok := actor(c)
  if !ok {
    return
  }
  var req submitFeedbackRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid request body", Code: apierr.CodeValidation}})
    return
  }

  feedback, err := h.svc.Submit(c.Request.Context(), nil, raterID, services.SubmitFeedbackCommand{
    ProjectID:         req.ProjectID,
    RatedID:           req.RatedID,
    RatedRole:         req.RatedRole,
    QualidadeTecnica:  req.QualidadeTecnica,
    CumprimentoPrazos: req.CumprimentoPrazos,
    Comunicacao:       req.Comunicacao,
    Colaboracao:       req.Colaboracao,
    Comentario:        req.Comentario,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, feedback)
}

// GET /api/feedback/eligibility (X-User-Id)
func (h *FeedbackHandler) Eligibility(c *gin.Context) {
  userID, ok := actor(c)
  if !ok {
    return
  }
  entries, err := h.svc.Eligibility(c.Request.Context(), nil, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, entries)
}

// GET /api/feedback/received (X-User-Id)
func (h *FeedbackHandler) Received(c *gin.Context) {
  userID, ok := actor(c)
  if !ok {
    return
  }
  feedbacks, err := h.svc.GetReceived(c.Request.Context(), nil, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, feedbacks)
}

// GET /api/feedback/given (X-User-Id)
func (h *FeedbackHandler) Given(c *gin.Context) {
  userID, ok := actor(c)
  if !ok {
    return
  }
  feedbacks, err := h.svc.GetGiven(c.Request.Context(), nil, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, feedbacks)
}

// GET /api/feedback/summary (X-User-Id)
func (h *FeedbackHandler) Summary(c *gin.Context) {
  userID, ok := actor(c)
  if !ok {
    return
  }
  summary, err := h.svc.Summary(c.Request.Context(), nil, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, summary)
}

// GET /api/feedback/:id (admin)
func (h *FeedbackHandler) GetByID(c *gin.Context) {
  feedbackID, ok := parseID(c, "id")
  if !ok {
    return
  }
  feedback, err := h.svc.GetByID(c.Request.Context(), nil, feedbackID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, feedback)
}

// GET /api/reputation/:userId
func (h *FeedbackHandler) Reputation(c *gin.Context) {
  userID, ok := parseID(c, "userId")
  if !ok {
    return
  }
  rep, err := h.reputation.Get(c.Request.Context(), nil, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  if rep == nil {
    RespondError(c, apierr.NotFound("no reputation recorded for this user"))
    return
  }
  RespondOK(c, rep)
}
