package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/devmatch/devmatch-backend/internal/handlers"
  "github.com/devmatch/devmatch-backend/internal/middleware"
)

type RouterConfig struct {
  Identity         *middleware.IdentityMiddleware
  ContractHandler  *handlers.ContractHandler
  MilestoneHandler *handlers.MilestoneHandler
  DeliveryHandler  *handlers.DeliveryHandler
  FeedbackHandler  *handlers.FeedbackHandler
  DisputeHandler   *handlers.DisputeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("devmatch"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-User-Id"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  api := router.Group("/api")
  api.Use(cfg.Identity.RequireActor())
  // Contracts
  api.POST("/contracts", cfg.ContractHandler.Create)
  api.POST("/contracts/:id/activate", cfg.ContractHandler.Activate)
  api.POST("/contracts/:id/finish", cfg.ContractHandler.Finish)
  api.POST("/contracts/:id/cancel", cfg.ContractHandler.Cancel)
  api.GET("/contracts/:id", cfg.ContractHandler.GetByID)
  api.GET("/contracts/active/company/:companyId", cfg.ContractHandler.ActiveForCompany)
  api.GET("/contracts/active/developer/:developerId", cfg.ContractHandler.ActiveForDeveloper)
  api.GET("/contracts/finished/:userId", cfg.ContractHandler.FinishedForUser)
  // Milestones
  api.POST("/milestones", cfg.MilestoneHandler.Create)
  api.PATCH("/milestones/:id/status", cfg.MilestoneHandler.UpdateStatus)
  api.GET("/milestones/:id", cfg.MilestoneHandler.GetByID)
  api.GET("/contracts/:id/milestones", cfg.MilestoneHandler.ListForContract)
  // Deliveries
  api.POST("/milestones/:id/delivery", cfg.DeliveryHandler.Submit)
  api.POST("/deliveries/:id/review", cfg.DeliveryHandler.Review)
  api.GET("/deliveries/:id", cfg.DeliveryHandler.GetByID)
  api.GET("/milestones/:id/deliveries", cfg.DeliveryHandler.ListForMilestone)
  api.GET("/developers/:developerId/deliveries", cfg.DeliveryHandler.ListForDeveloper)
  // Feedback
  api.POST("/feedback", cfg.FeedbackHandler.Submit)
  api.GET("/feedback/eligibility", cfg.FeedbackHandler.Eligibility)
  api.GET("/feedback/received", cfg.FeedbackHandler.Received)
  api.GET("/feedback/given", cfg.FeedbackHandler.Given)
  api.GET("/feedback/summary", cfg.FeedbackHandler.Summary)
  api.GET("/reputation/:userId", cfg.FeedbackHandler.Reputation)
  // Disputes
  api.POST("/feedback/disputes", cfg.DisputeHandler.Open)
  api.GET("/feedback/disputes/mine", cfg.DisputeHandler.Mine)

// ===============
// || Admin     ||
// ===============
  admin := router.Group("/api")
  admin.Use(cfg.Identity.RequireActor(), cfg.Identity.RequireAdmin())
  admin.GET("/feedback/disputes/open", cfg.DisputeHandler.ListOpen)
  admin.POST("/feedback/disputes/:id/decision", cfg.DisputeHandler.Decide)
  admin.GET("/feedback/:id", cfg.FeedbackHandler.GetByID)

  return router
}
