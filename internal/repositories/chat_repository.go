package repositories

import (
	"errors"
	"time"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

// CreateConversation persists a one-to-one conversation and its two member
// rows in one transaction.
func (chr *ChatRepository) CreateConversation(userIDs []uint) (*models.Conversation, error) {
	conversation := models.Conversation{IsGroup: false}

	err := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}
		for _, userID := range userIDs {
			member := models.ConversationMember{
				ConversationID: conversation.ID,
				UserID:         userID,
				JoinedAt:       time.Now(),
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return chr.GetConversationByID(conversation.ID)
}

func (chr *ChatRepository) GetConversationByID(conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	result := chr.db.
		Preload("Members").
		Where("id = ?", conversationID).
		First(&conversation)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// FindOldestConversationBetween returns the earliest-created one-to-one
// conversation for the unordered pair, or ErrNotFound. When racing writers
// have produced duplicates the oldest wins, matching what the
// deduplicator will later keep.
func (chr *ChatRepository) FindOldestConversationBetween(userID1, userID2 uint) (*models.Conversation, error) {
	var conversationID uint
	err := chr.db.Table("conversation_members AS cm1").
		Select("cm1.conversation_id").
		Joins("INNER JOIN conversation_members AS cm2 ON cm1.conversation_id = cm2.conversation_id").
		Joins("INNER JOIN conversations AS c ON c.id = cm1.conversation_id").
		Where("cm1.user_id = ? AND cm2.user_id = ?", userID1, userID2).
		Where("c.is_group = ? AND c.deleted_at IS NULL", false).
		Where("cm1.deleted_at IS NULL AND cm2.deleted_at IS NULL").
		Order("c.created_at ASC, c.id ASC").
		Limit(1).
		Scan(&conversationID).Error
	if err != nil {
		return nil, err
	}
	if conversationID == 0 {
		return nil, errs.ErrNotFound
	}
	return chr.GetConversationByID(conversationID)
}

func (chr *ChatRepository) CheckConversationExists(conversationID uint) bool {
	var count int64
	chr.db.Model(&models.Conversation{}).Where("id = ?", conversationID).Count(&count)
	return count > 0
}

func (chr *ChatRepository) CheckUserInConversation(userID, conversationID uint) bool {
	var count int64
	chr.db.Model(&models.ConversationMember{}).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Count(&count)
	return count > 0
}

// SaveMessage persists the message, seeds the sender's seen row and writes
// the paired ledger rows, all in one transaction. The conversation's
// last-message pointer is NOT touched here; callers bump it afterwards so
// a crash between the two writes never loses messages, only the pointer.
func (chr *ChatRepository) SaveMessage(message *models.Message, notifications []*models.Notification) (*models.Message, error) {
	err := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		seen := models.MessageSeen{
			MessageID: message.ID,
			UserID:    message.SenderID,
		}
		if err := tx.Create(&seen).Error; err != nil {
			return err
		}
		for _, notification := range notifications {
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chr.GetMessageByID(message.ID)
}

// TouchLastMessage points the conversation at its newest message. This is
// the follow-up write after SaveMessage's transaction.
func (chr *ChatRepository) TouchLastMessage(conversationID, messageID uint) error {
	return chr.db.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_id": messageID,
			"updated_at":      time.Now(),
		}).Error
}

func (chr *ChatRepository) GetMessageByID(messageID uint) (*models.Message, error) {
	var message models.Message
	result := chr.db.
		Preload("Sender").
		Preload("Seen").
		Where("id = ?", messageID).
		First(&message)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (chr *ChatRepository) GetConversationLastMessage(conversationID uint) (*models.Message, error) {
	var message models.Message
	if err := chr.db.
		Preload("Sender").
		Preload("Seen").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (chr *ChatRepository) GetMessagesByConversationID(conversationID uint, page, size int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Preload("Sender").
			Preload("Seen").
			Where("conversation_id = ?", conversationID).
			Order("created_at DESC, id DESC").
			Find(&messages).Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Message{}).
			Where("conversation_id = ?", conversationID).
			Count(&total).Error; err != nil {
			return err
		}
		return nil
	})
	if transactionErr != nil {
		return nil, 0, transactionErr
	}

	return messages, total, nil
}

// MarkSeen appends a seen row for every message of the conversation the
// reader has not seen and did not send. Insert-where-not-exists keeps the
// call idempotent: a repeat run affects zero rows and that is not an error.
func (chr *ChatRepository) MarkSeen(conversationID, readerID uint) (int64, error) {
	result := chr.db.Exec(
		`INSERT INTO message_seens (message_id, user_id, created_at)
		 SELECT m.id, ?, CURRENT_TIMESTAMP
		 FROM messages m
		 WHERE m.conversation_id = ?
		   AND m.sender_id <> ?
		   AND m.deleted_at IS NULL
		   AND NOT EXISTS (
		     SELECT 1 FROM message_seens ms
		     WHERE ms.message_id = m.id AND ms.user_id = ?
		   )`,
		readerID, conversationID, readerID, readerID,
	)
	if err := result.Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

// GetConversationUnreadForUser counts messages the user has not seen and
// did not send. Unread state derives from messages directly, never from
// the conversation's last-message pointer.
func (chr *ChatRepository) GetConversationUnreadForUser(conversationID, userID uint) (int64, error) {
	var count int64
	result := chr.db.Raw(
		`SELECT COUNT(*)
		 FROM messages m
		 WHERE m.conversation_id = ?
		   AND m.sender_id <> ?
		   AND m.deleted_at IS NULL
		   AND NOT EXISTS (
		     SELECT 1 FROM message_seens ms
		     WHERE ms.message_id = m.id AND ms.user_id = ?
		   )`,
		conversationID, userID, userID,
	).Scan(&count)
	if err := result.Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetLastMessageAcross returns the newest message over a set of
// conversation ids, covering both halves of a not-yet-merged duplicate
// pair. gorm.ErrRecordNotFound when the whole set is empty.
func (chr *ChatRepository) GetLastMessageAcross(conversationIDs []uint) (*models.Message, error) {
	var message models.Message
	if err := chr.db.
		Preload("Sender").
		Preload("Seen").
		Where("conversation_id IN ?", conversationIDs).
		Order("created_at DESC, id DESC").
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetUnreadAcrossForUser counts unread messages over a set of
// conversation ids, so duplicate pairs report one truthful total.
func (chr *ChatRepository) GetUnreadAcrossForUser(conversationIDs []uint, userID uint) (int64, error) {
	var count int64
	result := chr.db.Raw(
		`SELECT COUNT(*)
		 FROM messages m
		 WHERE m.conversation_id IN ?
		   AND m.sender_id <> ?
		   AND m.deleted_at IS NULL
		   AND NOT EXISTS (
		     SELECT 1 FROM message_seens ms
		     WHERE ms.message_id = m.id AND ms.user_id = ?
		   )`,
		conversationIDs, userID, userID,
	).Scan(&count)
	if err := result.Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetUserConversations lists every conversation the user belongs to,
// members preloaded, most recently updated first.
func (chr *ChatRepository) GetUserConversations(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := chr.db.
		Preload("Members").
		Where("id IN (SELECT conversation_id FROM conversation_members WHERE user_id = ? AND deleted_at IS NULL)", userID).
		Order("updated_at DESC").
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// AddSeenRow inserts a single seen row, ignoring conflicts so the set
// stays at-most-once per user.
func (chr *ChatRepository) AddSeenRow(messageID, userID uint) error {
	seen := models.MessageSeen{MessageID: messageID, UserID: userID}
	return chr.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seen).Error
}

// --- deduplication queries ---

// FindDuplicatePairGroups groups one-to-one conversations by their sorted
// participant pair and returns only groups holding more than one record,
// each ordered oldest first. Only well-formed two-member conversations
// participate; anything else is left alone.
func (chr *ChatRepository) FindDuplicatePairGroups() ([][]models.Conversation, error) {
	var conversations []models.Conversation
	if err := chr.db.
		Preload("Members").
		Where("is_group = ?", false).
		Order("created_at ASC, id ASC").
		Find(&conversations).Error; err != nil {
		return nil, err
	}

	byPair := make(map[[2]uint][]models.Conversation)
	var order [][2]uint
	for _, conversation := range conversations {
		ids := conversation.MemberIDs()
		if len(ids) != 2 || ids[0] == ids[1] {
			continue
		}
		key := [2]uint{ids[0], ids[1]}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if _, seen := byPair[key]; !seen {
			order = append(order, key)
		}
		byPair[key] = append(byPair[key], conversation)
	}

	var groups [][]models.Conversation
	for _, key := range order {
		if group := byPair[key]; len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// MergeConversationInto re-points every message of the duplicate at the
// canonical conversation, then removes the duplicate and its member rows.
// One transaction per duplicate so a failure never leaves messages split
// between the two.
func (chr *ChatRepository) MergeConversationInto(canonicalID, duplicateID uint) (int64, error) {
	var moved int64
	err := chr.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Message{}).
			Where("conversation_id = ?", duplicateID).
			Update("conversation_id", canonicalID)
		if result.Error != nil {
			return result.Error
		}
		moved = result.RowsAffected

		if err := tx.Where("conversation_id = ?", duplicateID).
			Delete(&models.ConversationMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, duplicateID).Error
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// RefreshLastMessage recomputes the canonical conversation's pointer from
// the merged history. Conversations with no messages keep a nil pointer.
func (chr *ChatRepository) RefreshLastMessage(conversationID uint) error {
	last, err := chr.GetConversationLastMessage(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return chr.db.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_id": last.ID,
			"updated_at":      last.CreatedAt,
		}).Error
}
