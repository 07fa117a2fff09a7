// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"viyarschedule/config"
	"viyarschedule/cron"
	"viyarschedule/database"
	employeeRepo "viyarschedule/database/repository/employee"
	scheduleRepo "viyarschedule/database/repository/schedule"
	"viyarschedule/handlers"
	"viyarschedule/middleware"
	"viyarschedule/routes"
	"viyarschedule/services/archive"
	"viyarschedule/services/importer"
	"viyarschedule/services/intermediate"
	"viyarschedule/services/roster"
	"viyarschedule/services/schedule"
	"viyarschedule/services/tasks"
	"viyarschedule/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitRedis()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, 60*time.Second, utils.RedisClients(), database.MongoClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// repositories.
	db := database.DB()
	empRepo := employeeRepo.NewMongoEmployeeRepo(db, config.AppConfig.StoreTimeout)
	schedRepo := scheduleRepo.NewMongoScheduleRepo(db, config.AppConfig.StoreTimeout)
	for _, ensure := range []func(context.Context) error{empRepo.EnsureIndexes, schedRepo.EnsureIndexes} {
		if err := ensure(rootCtx); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// services.
	cache := schedule.NewRedisCache(utils.CacheClient, config.AppConfig.CacheTTL, logger)
	deps := importer.Dependencies{
		Employees: empRepo,
		Schedules: schedRepo,
		Decoder:   roster.NewDecoder(roster.DefaultLayout(), logger),
		Artifacts: intermediate.NewArtifactWriter(config.AppConfig.IntermediateDir),
		Lock:      importer.NewMutexLocker(),
		Logger:    logger,
	}
	if cache != nil {
		deps.Cache = cache
	}
	if utils.ImportClient != nil {
		deps.Lock = importer.NewRedisLocker(utils.ImportClient, utils.ImportLockKey, config.AppConfig.ImportLockTTL)
	}
	if config.CloudinaryEnabled() {
		arch, err := archive.NewCloudinaryArchiver(
			config.AppConfig.CloudinaryCloudName,
			config.AppConfig.CloudinaryAPIKey,
			config.AppConfig.CloudinaryAPISecret,
			config.AppConfig.CloudinaryFolder,
			logger,
		)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize cloudinary archive: %v", err)
		}
		deps.Archive = arch
	}
	imp := importer.New(deps, importer.Options{
		ReplaceScope: importer.ParseReplaceScope(config.AppConfig.ImportReplaceScope),
		Workers:      config.AppConfig.ImportWorkers,
	})

	var monthCache schedule.MonthCache
	if cache != nil {
		monthCache = cache
	}
	defaultMode, err := schedule.ParseMatchMode(config.AppConfig.MonthFilterMode, scheduleRepo.MatchAny)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	scheduleService := schedule.NewService(empRepo, schedRepo, monthCache, schedule.Options{
		DefaultMode:  defaultMode,
		SuggestLimit: config.AppConfig.SuggestLimit,
	}, logger)

	// queued imports need redis.
	var (
		queue  handlers.ImportQueue
		worker *asynq.Server
	)
	if config.RedisEnabled() {
		q := tasks.NewQueue(cron.RedisOpt())
		defer q.Close()
		queue = q
		worker = cron.InitImportWorker(imp, logger)
	}

	importHandler := handlers.NewImportHandler(imp, queue, config.AppConfig.UploadDir, config.AppConfig.MaxUploadFiles)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UploadHandler:    importHandler.UploadHandler,
		ParseTextHandler: importHandler.ParseTextHandler,

		GetAllByUserHandler:     scheduleHandler.GetAllByUserHandler,
		GetByDepartmentsHandler: scheduleHandler.GetByDepartmentsHandler,
		GetByMonthHandler:       scheduleHandler.GetByMonthHandler,
		FindAllHandler:          scheduleHandler.FindAllHandler,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	utils.CloseRedis()
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
