package services

import (
	"errors"
	"sort"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/socket"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/telemetry"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/validators"

	"gorm.io/gorm"
)

type ChatService struct {
	chatRepo *repositories.ChatRepository
	userRepo *repositories.UserRepository
	delivery *DeliveryService
}

func NewChatService(
	chatRepo *repositories.ChatRepository,
	userRepo *repositories.UserRepository,
	delivery *DeliveryService,
) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		delivery: delivery,
	}
}

// GetOrCreateConversation returns the oldest existing one-to-one
// conversation for the unordered pair, creating one when none exists.
// Lookup and create are not atomicized against racing callers; duplicates
// that slip through are merged by the deduplicator later.
//
// Pairing policy: a conversation requires at least one doctor. Two
// patients cannot open one with each other.
func (cs *ChatService) GetOrCreateConversation(requesterID, participantID uint) (*models.ConversationResponse, error) {
	if requesterID == participantID || requesterID == 0 || participantID == 0 {
		return nil, errs.ErrInvalidParticipants
	}

	users, err := cs.userRepo.FindByIDs([]uint{requesterID, participantID})
	if err != nil {
		return nil, err
	}
	if len(users) != 2 {
		return nil, errs.ErrNotFound
	}
	if users[0].Role != enums.ROLE_DOCTOR && users[1].Role != enums.ROLE_DOCTOR {
		return nil, errs.ErrInvalidParticipants
	}

	conversation, err := cs.chatRepo.FindOldestConversationBetween(requesterID, participantID)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		conversation, err = cs.chatRepo.CreateConversation([]uint{requesterID, participantID})
		if err != nil {
			return nil, err
		}
	}

	response := conversation.ToConversationResponse(cs.lastMessageOrNil(conversation.ID))
	return &response, nil
}

// SendMessage appends a message to the conversation. The message, the
// sender's seen row and one message_received ledger row per other
// participant commit in a single transaction; the conversation's
// last-message pointer is bumped afterwards and its loss is tolerated.
// Fan-out to the other participants runs strictly after the commit.
func (cs *ChatService) SendMessage(conversationID, senderID uint, body string, attachments []models.Attachment) (*models.MessageResponse, error) {
	conversation, err := cs.chatRepo.GetConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasMember(senderID) {
		return nil, errs.ErrForbidden
	}
	if body == "" && len(attachments) == 0 {
		return nil, errs.ErrEmptyMessage
	}
	for _, attachment := range attachments {
		if attachment.URL == "" || attachment.MimeType == "" {
			return nil, errs.ErrInvalidRequestBody
		}
	}

	kind := enums.MESSAGE_KIND_TEXT
	if len(attachments) > 0 {
		kind = enums.MessageKindFromMime(attachments[0].MimeType)
	}

	sender, err := cs.userRepo.FindByID(senderID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		Kind:           kind,
		Attachments:    attachments,
	}

	recipients := otherMembers(conversation, senderID)
	notifications := make([]*models.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		conversationRef := conversationID
		actorID := senderID
		notifications = append(notifications, &models.Notification{
			RecipientID: recipientID,
			ActorID:     &actorID,
			Kind:        enums.NOTIFICATION_KIND_MESSAGE_RECEIVED,
			Title:       sender.FullName(),
			Body:        message.Preview(),
			EntityID:    &conversationRef,
			Metadata: models.Metadata{
				"type":           "new_message",
				"conversationId": conversationID,
			},
		})
	}

	for _, notification := range notifications {
		if err := validators.ValidateNotification(notification); err != nil {
			return nil, err
		}
	}

	stored, err := cs.chatRepo.SaveMessage(message, notifications)
	if err != nil {
		return nil, err
	}
	for _, notification := range notifications {
		telemetry.NotificationsRecorded.WithLabelValues(notification.Kind).Inc()
	}

	if err := cs.chatRepo.TouchLastMessage(conversationID, stored.ID); err != nil {
		logger.Warn("failed to bump conversation last message", "conversationId", conversationID, "error", err)
	}

	response := stored.ToMessageResponse()
	cs.delivery.Deliver(recipients,
		enums.SOCKET_EVENT_NEW_MESSAGE,
		socket.NewMessagePayload{ConversationID: conversationID, Message: response},
		models.PushContent{
			Title: sender.FullName(),
			Body:  stored.Preview(),
			Data: map[string]string{
				"type":           "new_message",
				"conversationId": utils.StringifyID(conversationID),
				"senderId":       utils.StringifyID(senderID),
			},
		},
	)

	return response, nil
}

// MarkSeen adds the reader to the seen set of every message in the
// conversation they did not send and have not seen. Idempotent: a repeat
// call with nothing new returns 0, not an error.
func (cs *ChatService) MarkSeen(conversationID, readerID uint) (int64, error) {
	if !cs.chatRepo.CheckConversationExists(conversationID) {
		return 0, errs.ErrNotFound
	}
	if !cs.chatRepo.CheckUserInConversation(readerID, conversationID) {
		return 0, errs.ErrForbidden
	}
	return cs.chatRepo.MarkSeen(conversationID, readerID)
}

// GetUserConversations lists the user's conversations, most recently
// updated first, each annotated with its unread count. Conversations
// sharing the same participant pair are collapsed to one entry fronted by
// the oldest record, with unread and last message aggregated over the
// whole group so nothing is hidden before the deduplicator runs.
func (cs *ChatService) GetUserConversations(userID uint) (*models.ConversationListResponse, error) {
	conversations, err := cs.chatRepo.GetUserConversations(userID)
	if err != nil {
		return nil, err
	}

	type pairGroup struct {
		canonical *models.Conversation
		ids       []uint
	}

	groups := make(map[[2]uint]*pairGroup)
	var ordered []*pairGroup
	for i := range conversations {
		conversation := &conversations[i]
		key, ok := pairKey(conversation)
		if !ok {
			// group chats and malformed records keep their own slot
			key = [2]uint{0, conversation.ID}
		}
		group, seen := groups[key]
		if !seen {
			group = &pairGroup{canonical: conversation}
			groups[key] = group
			ordered = append(ordered, group)
			group.ids = append(group.ids, conversation.ID)
			continue
		}
		group.ids = append(group.ids, conversation.ID)
		if olderThan(conversation, group.canonical) {
			group.canonical = conversation
		}
	}

	summaries := make([]models.ConversationSummary, 0, len(ordered))
	for _, group := range ordered {
		unread, err := cs.chatRepo.GetUnreadAcrossForUser(group.ids, userID)
		if err != nil {
			return nil, err
		}

		var last *models.MessageResponse
		lastMessage, err := cs.chatRepo.GetLastMessageAcross(group.ids)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if lastMessage != nil {
			last = lastMessage.ToMessageResponse()
		}

		canonical := group.canonical
		members := []*models.UserResponse{}
		for i := range canonical.Members {
			members = append(members, canonical.Members[i].ToUserResponse())
		}

		updatedAt := canonical.UpdatedAt
		if lastMessage != nil && lastMessage.CreatedAt.After(updatedAt) {
			updatedAt = lastMessage.CreatedAt
		}

		summaries = append(summaries, models.ConversationSummary{
			ID:          canonical.ID,
			IsGroup:     canonical.IsGroup,
			Members:     members,
			LastMessage: last,
			Unread:      unread,
			CreatedAt:   canonical.CreatedAt,
			UpdatedAt:   updatedAt,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})

	return &models.ConversationListResponse{
		Conversations: summaries,
		Total:         len(summaries),
	}, nil
}

// GetConversationMessages pages through the conversation's history,
// newest first. Only participants may read it.
func (cs *ChatService) GetConversationMessages(conversationID, requesterID uint, page, size int) (*models.MessageListResponse, error) {
	if !cs.chatRepo.CheckConversationExists(conversationID) {
		return nil, errs.ErrNotFound
	}
	if !cs.chatRepo.CheckUserInConversation(requesterID, conversationID) {
		return nil, errs.ErrForbidden
	}

	page, size = utils.ClampPage(page, size)
	messages, total, err := cs.chatRepo.GetMessagesByConversationID(conversationID, page, size)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messages[i].ToMessageResponse())
	}

	return &models.MessageListResponse{
		Messages: responses,
		Page:     page,
		Size:     size,
		Total:    total,
	}, nil
}

// RelayTyping forwards a typing indicator to the other participants.
// Live-only: typing never queues a remote push.
func (cs *ChatService) RelayTyping(conversationID, userID uint, stop bool) error {
	conversation, err := cs.chatRepo.GetConversationByID(conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasMember(userID) {
		return errs.ErrForbidden
	}

	event := enums.SOCKET_EVENT_TYPING
	if stop {
		event = enums.SOCKET_EVENT_STOP_TYPING
	}
	cs.delivery.DeliverLive(otherMembers(conversation, userID), event, socket.TypingPayload{
		ConversationID: conversationID,
		UserID:         userID,
	})
	return nil
}

func (cs *ChatService) lastMessageOrNil(conversationID uint) *models.Message {
	lastMessage, err := cs.chatRepo.GetConversationLastMessage(conversationID)
	if err != nil {
		return nil
	}
	return lastMessage
}

func otherMembers(conversation *models.Conversation, userID uint) []uint {
	others := make([]uint, 0, len(conversation.Members))
	for _, memberID := range conversation.MemberIDs() {
		if memberID != userID {
			others = append(others, memberID)
		}
	}
	return others
}

// pairKey builds the sorted participant-pair key for a one-to-one
// conversation; ok is false for groups and malformed records.
func pairKey(conversation *models.Conversation) ([2]uint, bool) {
	if conversation.IsGroup {
		return [2]uint{}, false
	}
	ids := conversation.MemberIDs()
	if len(ids) != 2 || ids[0] == ids[1] {
		return [2]uint{}, false
	}
	if ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return [2]uint{ids[0], ids[1]}, true
}

func olderThan(a, b *models.Conversation) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
