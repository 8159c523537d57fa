package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func createUser(t *testing.T, db *gorm.DB, firstName, role string) *models.User {
	t.Helper()
	user := &models.User{FirstName: firstName, LastName: "Example", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// liveEvent is one recorded fan-out write.
type liveEvent struct {
	UserID  uint
	Event   string
	Payload interface{}
}

// fakeLive stands in for the presence registry.
type fakeLive struct {
	events    []liveEvent
	delivered int
}

func (f *fakeLive) Publish(userID uint, event string, payload interface{}) int {
	f.events = append(f.events, liveEvent{UserID: userID, Event: event, Payload: payload})
	return f.delivered
}

func (f *fakeLive) eventsFor(userID uint, event string) []liveEvent {
	var matched []liveEvent
	for _, recorded := range f.events {
		if recorded.UserID == userID && recorded.Event == event {
			matched = append(matched, recorded)
		}
	}
	return matched
}

// fakeBus stands in for the cross-process event bus.
type fakeBus struct {
	events []liveEvent
	err    error
}

func (f *fakeBus) PublishLiveEvent(_ context.Context, userID uint, event string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, liveEvent{UserID: userID, Event: event, Payload: payload})
	return nil
}

// pushRequest is one recorded enqueue.
type pushRequest struct {
	UserID uint
	Title  string
	Body   string
	Data   map[string]string
}

// fakePushQueue stands in for the asynq-backed push queue.
type fakePushQueue struct {
	pushes []pushRequest
	err    error
}

func (f *fakePushQueue) EnqueuePush(_ context.Context, userID uint, title, body string, data map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.pushes = append(f.pushes, pushRequest{UserID: userID, Title: title, Body: body, Data: data})
	return nil
}

func (f *fakePushQueue) pushesFor(userID uint) []pushRequest {
	var matched []pushRequest
	for _, recorded := range f.pushes {
		if recorded.UserID == userID {
			matched = append(matched, recorded)
		}
	}
	return matched
}

// harness wires the full service stack over a throwaway database with the
// fan-out channels replaced by fakes.
type harness struct {
	db   *gorm.DB
	live *fakeLive
	bus  *fakeBus
	push *fakePushQueue

	chatRepo         *repositories.ChatRepository
	userRepo         *repositories.UserRepository
	notificationRepo *repositories.NotificationRepository
	engagementRepo   *repositories.EngagementRepository

	delivery     *DeliveryService
	chat         *ChatService
	call         *CallService
	notification *NotificationService
	engagement   *EngagementService
	dedup        *DedupService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := newTestDB(t)

	h := &harness{
		db:   db,
		live: &fakeLive{delivered: 1},
		bus:  &fakeBus{},
		push: &fakePushQueue{},
	}
	h.chatRepo = repositories.NewChatRepository(db)
	h.userRepo = repositories.NewUserRepository(db)
	h.notificationRepo = repositories.NewNotificationRepository(db)
	h.engagementRepo = repositories.NewEngagementRepository(db)

	h.delivery = NewDeliveryService(context.Background(), h.live, h.bus, h.push)
	h.chat = NewChatService(h.chatRepo, h.userRepo, h.delivery)
	h.call = NewCallService(h.chat, h.chatRepo, h.userRepo, h.delivery)
	h.notification = NewNotificationService(h.notificationRepo, h.delivery)
	h.engagement = NewEngagementService(h.engagementRepo, h.userRepo, h.delivery)
	h.dedup = NewDedupService(h.chatRepo)
	return h
}
