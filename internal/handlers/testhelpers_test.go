package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/presence"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/services"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv is the full HTTP surface over a throwaway database: real
// services, real presence registry, no cross-process bus and no push
// queue.
type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	registry *presence.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.ConversationMember{},
		&models.Conversation{},
		&models.Message{},
		&models.MessageSeen{},
		&models.Notification{},
		&models.DeviceEndpoint{},
		&models.Post{},
		&models.Reel{},
		&models.Like{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	chatRepo := repositories.NewChatRepository(db)
	userRepo := repositories.NewUserRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	deviceRepo := repositories.NewDeviceRepository(db)
	engagementRepo := repositories.NewEngagementRepository(db)

	registry := presence.NewRegistry()
	delivery := services.NewDeliveryService(context.Background(), registry, nil, nil)
	chatService := services.NewChatService(chatRepo, userRepo, delivery)
	callService := services.NewCallService(chatService, chatRepo, userRepo, delivery)
	notificationService := services.NewNotificationService(notificationRepo, delivery)
	engagementService := services.NewEngagementService(engagementRepo, userRepo, delivery)
	dedupService := services.NewDedupService(chatRepo)
	deviceService := services.NewDeviceService(deviceRepo, 5)
	fileManagerService := services.NewFileManagerService(nil)

	restHandler := NewRestHandler(chatService, notificationService, deviceService,
		engagementService, dedupService, fileManagerService)
	socketHandler := NewSocketGatewayHandler(registry, chatService, callService)

	router := gin.New()
	router.GET("/healthz", restHandler.Health)
	router.GET("/ws", socketHandler.HandleSocketRoute)

	v1 := router.Group("/api/v1")
	v1.Use(MustAuthenticateMiddleware())
	{
		v1.POST("/conversations", restHandler.CreateConversation)
		v1.GET("/conversations", restHandler.GetUserConversations)
		v1.GET("/conversations/:id/messages", restHandler.GetConversationMessages)
		v1.POST("/conversations/:id/messages", restHandler.SendMessage)
		v1.POST("/conversations/:id/seen", restHandler.MarkSeen)
		v1.POST("/attachments", restHandler.UploadChatAttachment)

		v1.GET("/notifications", restHandler.ListNotifications)
		v1.GET("/notifications/unread-count", restHandler.UnreadNotificationsCount)
		v1.PATCH("/notifications/read-all", restHandler.MarkAllNotificationsRead)
		v1.PATCH("/notifications/:id/read", restHandler.MarkNotificationRead)
		v1.DELETE("/notifications/:id", restHandler.DeleteNotification)

		v1.POST("/devices", restHandler.RegisterDevice)
		v1.DELETE("/devices", restHandler.UnregisterDevice)

		v1.POST("/posts/:id/like", restHandler.TogglePostLike)
		v1.POST("/posts/:id/comments", restHandler.AddPostComment)
		v1.GET("/posts/:id/comments", restHandler.ListPostComments)
		v1.POST("/reels/:id/like", restHandler.ToggleReelLike)
		v1.POST("/reels/:id/comments", restHandler.AddReelComment)
		v1.GET("/reels/:id/comments", restHandler.ListReelComments)

		v1.POST("/maintenance/dedupe-conversations", restHandler.DedupeConversations)
	}

	return &testEnv{router: router, db: db, registry: registry}
}

func (env *testEnv) createUser(t *testing.T, firstName, role string) *models.User {
	t.Helper()
	user := &models.User{FirstName: firstName, LastName: "Example", Role: role}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func mintToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.CreateJwtToken(user.ID, user.FirstName, user.LastName, user.Role,
		utils.GetJwtKey(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

// doRequest sends one JSON request through the router and returns the
// recorder. Empty token leaves the Authorization header off.
func (env *testEnv) doRequest(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, request)
	return recorder
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not an envelope: %v: %s", err, recorder.Body.String())
	}
	return body
}

func requireStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Fatalf("got status %d, want %d: %s", recorder.Code, want, recorder.Body.String())
	}
}
