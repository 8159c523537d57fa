package app

import (
	"context"
	"sync"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/configs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/bus"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/handlers"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/interfaces"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/maintenance"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/presence"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/push"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/servers/database"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/servers/http"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	ctx     context.Context
	configs *configs.Config
	redis   *redis.Client
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

// LetsGo wires every layer and serves until the process is signalled.
// Remote push is optional: without FCM credentials the push queue stays
// nil and delivery runs live-only, so a dev box needs just postgres and
// redis.
func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()

	logger.Init(app.configs.Viper.GetString("app.log_level"))
	defer logger.Sync()

	app.initializeRedis()

	db := database.GetDB(app.configs)
	chatRepo := repositories.NewChatRepository(db)
	userRepo := repositories.NewUserRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	deviceRepo := repositories.NewDeviceRepository(db)
	engagementRepo := repositories.NewEngagementRepository(db)

	registry := presence.NewRegistry()
	liveBus := bus.NewRedisBus(app.redis, registry)
	go func() {
		if err := liveBus.Run(app.ctx); err != nil {
			logger.Error("live event bus stopped", "error", err)
		}
	}()

	redisAddr := app.configs.Viper.GetString("redis.addr")
	pushQueue, pushServer := app.initializePush(redisAddr, deviceRepo)

	// A nil *push.Queue must not become a non-nil PushEnqueuer.
	var pushEnqueuer interfaces.PushEnqueuer
	if pushQueue != nil {
		pushEnqueuer = pushQueue
	}
	deliveryService := services.NewDeliveryService(app.ctx, registry, liveBus, pushEnqueuer)

	chatService := services.NewChatService(chatRepo, userRepo, deliveryService)
	notificationService := services.NewNotificationService(notificationRepo, deliveryService)
	engagementService := services.NewEngagementService(engagementRepo, userRepo, deliveryService)
	callService := services.NewCallService(chatService, chatRepo, userRepo, deliveryService)
	dedupService := services.NewDedupService(chatRepo)
	deviceService := services.NewDeviceService(deviceRepo, app.configs.Viper.GetInt("push.max_devices_per_platform"))

	minioService := services.NewMinioService(app.configs)
	var fileManager interfaces.FileManager
	if minioService != nil {
		fileManager = minioService
	}
	fileManagerService := services.NewFileManagerService(fileManager)

	stopDedupe, err := maintenance.StartDedupeScheduler(app.ctx, app.configs, dedupService)
	if err != nil {
		logger.Fatal("failed to start dedupe scheduler", "error", err)
	}

	restHandler := handlers.NewRestHandler(
		chatService,
		notificationService,
		deviceService,
		engagementService,
		dedupService,
		fileManagerService,
	)
	socketHandler := handlers.NewSocketGatewayHandler(registry, chatService, callService)

	http.NewHttpServer(app.ctx, app.configs, restHandler, socketHandler).Run()

	stopDedupe()
	if pushServer != nil {
		pushServer.Shutdown()
	}
	if pushQueue != nil {
		if err := pushQueue.Close(); err != nil {
			logger.Warn("error closing push queue", "error", err)
		}
	}
	registry.Clear()
	logger.Info("server exiting")
}

// initializePush builds the remote-push pipeline when FCM credentials are
// configured and reachable. Returns nils otherwise; callers treat that as
// push disabled, never as a startup failure.
func (app *App) initializePush(redisAddr string, deviceRepo *repositories.DeviceRepository) (*push.Queue, *push.Server) {
	credentialsFile := app.configs.Viper.GetString("push.credentials_file")
	if credentialsFile == "" {
		logger.Warn("push credentials not configured, remote push disabled")
		return nil, nil
	}

	gateway, err := push.NewFCMGateway(app.ctx, credentialsFile, app.configs.Viper.GetInt("push.rate_per_second"))
	if err != nil {
		logger.Warn("push gateway unavailable, remote push disabled", "error", err)
		return nil, nil
	}

	worker := push.NewWorker(gateway, deviceRepo)
	pushServer := push.NewServer(redisAddr, app.configs.Viper.GetInt("queue.concurrency"), worker)
	if err := pushServer.Start(); err != nil {
		logger.Fatal("failed to start push worker", "error", err)
	}

	return push.NewQueue(redisAddr), pushServer
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.addr"),
	})
}
