package repositories

import (
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create writes one unread ledger row.
func (nr *NotificationRepository) Create(notification *models.Notification) error {
	notification.Read = false
	return nr.db.Create(notification).Error
}

// CreateTx writes the row inside a caller-owned transaction, for ledger
// writes that must commit with their domain mutation.
func (nr *NotificationRepository) CreateTx(tx *gorm.DB, notification *models.Notification) error {
	notification.Read = false
	return tx.Create(notification).Error
}

// MarkRead flips one row owned by the recipient. Returns the number of
// rows changed; zero means the row does not exist or belongs to someone
// else, which callers surface as not found.
func (nr *NotificationRepository) MarkRead(notificationID, recipientID uint) (int64, error) {
	result := nr.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("read", true)
	if err := result.Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

// MarkAllRead flips every unread row of the recipient. Idempotent; zero
// rows is a successful no-op.
func (nr *NotificationRepository) MarkAllRead(recipientID uint) (int64, error) {
	result := nr.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	if err := result.Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

func (nr *NotificationRepository) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	if err := nr.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List pages through the recipient's rows, newest first, optionally
// filtered to read or unread.
func (nr *NotificationRepository) List(recipientID uint, read *bool, page, size int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	filter := func(tx *gorm.DB) *gorm.DB {
		query := tx.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
		if read != nil {
			query = query.Where("read = ?", *read)
		}
		return query
	}

	transactionErr := nr.db.Transaction(func(tx *gorm.DB) error {
		if err := filter(tx).Count(&total).Error; err != nil {
			return err
		}
		return filter(tx).
			Scopes(utils.Paginate(page, size)).
			Order("created_at DESC, id DESC").
			Find(&notifications).Error
	})
	if transactionErr != nil {
		return nil, 0, transactionErr
	}

	return notifications, total, nil
}

// Delete removes one row owned by the recipient. Returns rows affected so
// the service can distinguish not-found.
func (nr *NotificationRepository) Delete(notificationID, recipientID uint) (int64, error) {
	result := nr.db.
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Delete(&models.Notification{})
	if err := result.Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}
