package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/redis/go-redis/v9"

  "github.com/devmatch/devmatch-backend/internal/db"
  "github.com/devmatch/devmatch-backend/internal/handlers"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/middleware"
  "github.com/devmatch/devmatch-backend/internal/observability"
  "github.com/devmatch/devmatch-backend/internal/repos"
  "github.com/devmatch/devmatch-backend/internal/server"
  "github.com/devmatch/devmatch-backend/internal/services"
  "github.com/devmatch/devmatch-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "devmatch",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownTracing != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownTracing(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  contractRepo := repos.NewContractRepo(thePG, log)
  milestoneRepo := repos.NewMilestoneRepo(thePG, log)
  deliveryRepo := repos.NewDeliveryRepo(thePG, log)
  feedbackRepo := repos.NewFeedbackRepo(thePG, log)
  disputeRepo := repos.NewDisputeRepo(thePG, log)
  reputationRepo := repos.NewReputationRepo(thePG, log)

  // Redis (optional reputation cache)
  var reputationCache services.ReputationCache
  redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
  if redisAddr != "" {
    redisClient := redis.NewClient(&redis.Options{
      Addr:     redisAddr,
      Password: utils.GetEnv("REDIS_PASSWORD", "", log),
    })
    cacheTTL := utils.GetEnvAsInt("REPUTATION_CACHE_TTL", 300, log)
    reputationCache = services.NewRedisReputationCache(redisClient, time.Duration(cacheTTL)*time.Second, log)
  } else {
    reputationCache = services.NewRedisReputationCache(nil, 0, log)
  }

  // Services
  log.Info("Setting up Services from main...")
  adminChecker := services.NewEnvAdminChecker(log)
  reputationService := services.NewReputationService(thePG, log, feedbackRepo, reputationRepo, reputationCache)
  contractService := services.NewContractService(thePG, log, contractRepo)
  milestoneService := services.NewMilestoneService(thePG, log, milestoneRepo, contractRepo)
  deliveryService := services.NewDeliveryService(thePG, log, deliveryRepo, milestoneRepo, contractRepo)
  feedbackService := services.NewFeedbackService(thePG, log, feedbackRepo, contractRepo, disputeRepo, reputationService)
  disputeService := services.NewDisputeService(thePG, log, disputeRepo, feedbackRepo, reputationService, adminChecker)

  // Handlers
  log.Info("Setting up handlers from main...")
  contractHandler := handlers.NewContractHandler(contractService)
  milestoneHandler := handlers.NewMilestoneHandler(milestoneService)
  deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
  feedbackHandler := handlers.NewFeedbackHandler(feedbackService, reputationService)
  disputeHandler := handlers.NewDisputeHandler(disputeService)

  // Middleware
  log.Info("Setting up middleware from main...")
  identity := middleware.NewIdentityMiddleware(log, adminChecker)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    Identity:         identity,
    ContractHandler:  contractHandler,
    MilestoneHandler: milestoneHandler,
    DeliveryHandler:  deliveryHandler,
    FeedbackHandler:  feedbackHandler,
    DisputeHandler:   disputeHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
