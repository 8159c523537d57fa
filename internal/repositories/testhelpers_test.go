package repositories

import (
	"path/filepath"
	"testing"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database migrated in the same order
// as production.
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

// sendMessage persists a message through the same path production uses,
// without ledger rows.
func sendMessage(t *testing.T, repo *ChatRepository, conversationID, senderID uint, body string) *models.Message {
	t.Helper()
	message, err := repo.SaveMessage(&models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		Kind:           "text",
	}, nil)
	if err != nil {
		t.Fatalf("failed to save message: %v", err)
	}
	return message
}
