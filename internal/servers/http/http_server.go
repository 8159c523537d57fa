package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/configs"
	_ "github.com/FSDTeam-SAA/thekingBackend-sub000/docs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/handlers"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx           context.Context
	config        *configs.Config
	router        *gin.Engine
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketGatewayHandler
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketGatewayHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:           ctx,
			config:        config,
			restHandler:   restHandler,
			socketHandler: socketHandler,
		}
	})
	return httpServer
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests and
// returns so the caller can tear down the rest of the process.
func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRoutes()
	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
}

func (hs *HttpServer) setupRoutes() {
	hs.router.GET("/healthz", hs.restHandler.Health)
	hs.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	hs.router.GET("/ws", hs.socketHandler.HandleSocketRoute)

	v1 := hs.router.Group("/api/v1")
	v1.Use(handlers.MustAuthenticateMiddleware())
	{
		v1.POST("/conversations", hs.restHandler.CreateConversation)
		v1.GET("/conversations", hs.restHandler.GetUserConversations)
		v1.GET("/conversations/:id/messages", hs.restHandler.GetConversationMessages)
		v1.POST("/conversations/:id/messages", hs.restHandler.SendMessage)
		v1.POST("/conversations/:id/seen", hs.restHandler.MarkSeen)
		v1.POST("/attachments", hs.restHandler.UploadChatAttachment)

		v1.GET("/notifications", hs.restHandler.ListNotifications)
		v1.GET("/notifications/unread-count", hs.restHandler.UnreadNotificationsCount)
		v1.PATCH("/notifications/read-all", hs.restHandler.MarkAllNotificationsRead)
		v1.PATCH("/notifications/:id/read", hs.restHandler.MarkNotificationRead)
		v1.DELETE("/notifications/:id", hs.restHandler.DeleteNotification)

		v1.POST("/devices", hs.restHandler.RegisterDevice)
		v1.DELETE("/devices", hs.restHandler.UnregisterDevice)

		v1.POST("/posts/:id/like", hs.restHandler.TogglePostLike)
		v1.POST("/posts/:id/comments", hs.restHandler.AddPostComment)
		v1.GET("/posts/:id/comments", hs.restHandler.ListPostComments)
		v1.POST("/reels/:id/like", hs.restHandler.ToggleReelLike)
		v1.POST("/reels/:id/comments", hs.restHandler.AddReelComment)
		v1.GET("/reels/:id/comments", hs.restHandler.ListReelComments)

		v1.POST("/maintenance/dedupe-conversations", hs.restHandler.DedupeConversations)
	}
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		logger.Info("http server started", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down http server")

	if err := server.Shutdown(hs.ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
}
