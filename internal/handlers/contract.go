package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/services"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type ContractHandler struct {
  svc services.ContractService
}

func NewContractHandler(svc services.ContractService) *ContractHandler {
  return &ContractHandler{svc: svc}
}

type createContractRequest struct {
  VagaID       uuid.UUID          `json:"vagaId"`
  DeveloperID  uuid.UUID          `json:"developerId"`
  ContractType types.ContractType `json:"contractType"`
}

// POST /api/contracts (X-User-Id = company)
func (h *ContractHandler) Create(c *gin.Context) {
  companyID, ok := actor(c)
  if !ok {
    return
  }
  var req createContractRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid request body", Code: apierr.CodeValidation}})
    return
  }

  contract, err := h.svc.Create(c.Request.Context(), nil, req.VagaID, companyID, req.DeveloperID, req.ContractType)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, contract)
}

// POST /api/contracts/:id/activate
func (h *ContractHandler) Activate(c *gin.Context) {
  contractID, ok := parseID(c, "id")
  if !ok {
    return
  }
  contract, err := h.svc.Activate(c.Request.Context(), nil, contractID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, contract)
}

// POST /api/contracts/:id/finish (X-User-Id = company)
func (h *ContractHandler) Finish(c *gin.Context) {
  actingUserID, ok := actor(c)
  if !ok {
    return
  }
  contractID, ok := parseID(c, "id")
  if !ok {
    return
  }
  contract, err := h.svc.Finish(c.Request.Context(), nil, contractID, actingUserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, contract)
}

// POST /api/contracts/:id/cancel (X-User-Id = either party)
func (h *ContractHandler) Cancel(c *gin.Context) {
  actingUserID, ok := actor(c)
  if !ok {
    return
  }
  contractID, ok := parseID(c, "id")
  if !ok {
    return
  }
  contract, err := h.svc.Cancel(c.Request.Context(), nil, contractID, actingUserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, contract)
}

// GET /api/contracts/:id
func (h *ContractHandler) GetByID(c *gin.Context) {
  contractID, ok := parseID(c, "id")
  if !ok {
    return
  }
  contract, err := h.svc.GetByID(c.Request.Context(), nil, contractID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, contract)
}

// GET /api/contracts/active/company/:companyId
func (h *ContractHandler) ActiveForCompany(c *gin.Context) {
  companyID, ok := parseID(c, "companyId")
  if !ok {
    return
  }
  contracts, err := h.svc.ListActiveForCompany(c.Request.Context(), nil, companyID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, contracts)
}

// GET /api/contracts/active/developer/:developerId
func (h *ContractHandler) ActiveForDeveloper(c *gin.Context) {
  developerID, ok := parseID(c, "developerId")
  if !ok {
    return
  }
  contracts, err := h.svc.ListActiveForDeveloper(c.Request.Context(), nil, developerID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, contracts)
}

// GET /api/contracts/finished/:userId
func (h *ContractHandler) FinishedForUser(c *gin.Context) {
  userID, ok := parseID(c, "userId")
  if !ok {
    return
  }
  contracts, err := h.svc.ListFinishedForUser(c.Request.Context(), nil, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, contracts)
}
