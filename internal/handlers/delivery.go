package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/services"
)

type DeliveryHandler struct {
  svc services.DeliveryService
}

func NewDeliveryHandler(svc services.DeliveryService) *DeliveryHandler {
  return &DeliveryHandler{svc: svc}
}

type submitDeliveryRequest struct {
  DescricaoEntrega string   `json:"descricaoEntrega"`
  ArquivosEntrega  []string `json:"arquivosEntrega"`
  HorasTrabalhadas *float64 `json:"horasTrabalhadas"`
}

// POST /api/milestones/:id/delivery (X-User-Id = developer)
func (h *DeliveryHandler) Submit(c *gin.Context) {
  actingUserID, ok := actor(c)
  if !ok {
    return
  }
  milestoneID, ok := parseID(c, "id")
  if !ok {
    return
  }
  var req submitDeliveryRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid request body", Code: apierr.CodeValidation}})
    return
  }

  delivery, err := h.svc.Submit(c.Request.Context(), nil, services.SubmitDeliveryCommand{
    MilestoneID:      milestoneID,
    DescricaoEntrega: req.DescricaoEntrega,
    ArquivosEntrega:  req.ArquivosEntrega,
    HorasTrabalhadas: req.HorasTrabalhadas,
  }, actingUserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, delivery)
}

type reviewDeliveryRequest struct {
  Approved          bool   `json:"approved"`
  ComentarioRevisao string `json:"comentarioRevisao"`
}

// POST /api/deliveries/:id/review (X-User-Id = company)
func (h *DeliveryHandler) Review(c *gin.Context) {
  actingUserID, ok := actor(c)
  if !ok {
    return
  }
  deliveryID, ok := parseID(c, "id")
  if !ok {
    return
  }
  var req reviewDeliveryRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid request body", Code: apierr.CodeValidation}})
    return
  }

  delivery, err := h.svc.Review(c.Request.Context(), nil, deliveryID, req.Approved, req.ComentarioRevisao, actingUserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, delivery)
}

// GET /api/deliveries/:id
func (h *DeliveryHandler) GetByID(c *gin.Context) {
  deliveryID, ok := parseID(c, "id")
  if !ok {
    return
  }
  delivery, err := h.svc.GetByID(c.Request.Context(), nil, deliveryID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, delivery)
}

// GET /api/milestones/:id/deliveries
func (h *DeliveryHandler) ListForMilestone(c *gin.Context) {
  milestoneID, ok := parseID(c, "id")
  if !ok {
    return
  }
  deliveries, err := h.svc.ListByMilestone(c.Request.Context(), nil, milestoneID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, deliveries)
}

// GET /api/developers/:developerId/deliveries
func (h *DeliveryHandler) ListForDeveloper(c *gin.Context) {
  developerID, ok := parseID(c, "developerId")
  if !ok {
    return
  }
  deliveries, err := h.svc.ListByDeveloper(c.Request.Context(), nil, developerID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, deliveries)
}
