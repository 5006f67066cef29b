package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/services"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type MilestoneHandler struct {
  svc services.MilestoneService
}

func NewMilestoneHandler(svc services.MilestoneService) *MilestoneHandler {
  return &MilestoneHandler{svc: svc}
}

type createMilestoneRequest struct {
  ContractID         uuid.UUID  `json:"contractId"`
  ProjetoID          *uuid.UUID `json:"projetoId"` // legacy alias used by the frontend
  Titulo             string     `json:"titulo"`
  Descricao          string     `json:"descricao"`
  DueDate            *time.Time `json:"dueDate"`
  ValorMilestone     float64    `json:"valorMilestone"`
  CriteriosAceitacao string     `json:"criteriosAceitacao"`
}

// POST /api/milestones (X-User-Id = company)
func (h *MilestoneHandler) Create(c *gin.Context) {
  actingUserID, ok := actor(c)
  if !ok {
    return
  }
  var req createMilestoneRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid request body", Code: apierr.CodeValidation}})
    return
  }
  contractID := req.ContractID
  if contractID == uuid.Nil && req.ProjetoID != nil {
    contractID = *req.ProjetoID
  }

  milestone, err := h.svc.Propose(c.Request.Context(), nil, services.ProposeMilestoneCommand{
    ContractID:         contractID,
    Titulo:             req.Titulo,
    Descricao:          req.Descricao,
    DueDate:            req.DueDate,
    ValorMilestone:     req.ValorMilestone,
    CriteriosAceitacao: req.CriteriosAceitacao,
  }, actingUserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, milestone)
}

type milestoneStatusRequest struct {
  Status types.MilestoneStatus `json:"status"`
}

// PATCH /api/milestones/:id/status (X-User-Id = developer)
func (h *MilestoneHandler) UpdateStatus(c *gin.Context) {
  actingUserID, ok := actor(c)
  if !ok {
    return
  }
  milestoneID, ok := parseID(c, "id")
  if !ok {
    return
  }
  var req milestoneStatusRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid request body", Code: apierr.CodeValidation}})
    return
  }

  milestone, err := h.svc.RespondAsDeveloper(c.Request.Context(), nil, milestoneID, req.Status, actingUserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, milestone)
}

// GET /api/milestones/:id
func (h *MilestoneHandler) GetByID(c *gin.Context) {
  milestoneID, ok := parseID(c, "id")
  if !ok {
    return
  }
  milestone, err := h.svc.GetByID(c.Request.Context(), nil, milestoneID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, milestone)
}

// GET /api/contracts/:id/milestones
func (h *MilestoneHandler) ListForContract(c *gin.Context) {
  contractID, ok := parseID(c, "id")
  if !ok {
    return
  }
  milestones, err := h.svc.ListByContract(c.Request.Context(), nil, contractID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, milestones)
}
