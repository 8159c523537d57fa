package services

import (
	"fmt"
	"time"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/socket"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"

	"github.com/google/uuid"
)

// CallService relays call-lifecycle events between two users. It keeps no
// call state: both ends converge on ringing/accepted/ended themselves, and
// no server-side timeout exists. The one durable thing a call touches is
// the conversation it anchors to, resolved through the chat service so the
// pairing policy applies to calls too.
type CallService struct {
	chatService *ChatService
	chatRepo    *repositories.ChatRepository
	userRepo    *repositories.UserRepository
	delivery    *DeliveryService
}

func NewCallService(
	chatService *ChatService,
	chatRepo *repositories.ChatRepository,
	userRepo *repositories.UserRepository,
	delivery *DeliveryService,
) *CallService {
	return &CallService{
		chatService: chatService,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		delivery:    delivery,
	}
}

// Initiate rings the callee. Without a conversation id it resolves or
// creates one first, so the call has a durable anchor for later history
// display; pairing-policy failures surface to the caller. The callee gets
// a call:incoming live event and a remote push carrying the same
// correlation id, so a device receiving both presents one call.
func (cs *CallService) Initiate(callerID, calleeID uint, conversationID *uint, kind string) (*models.CallSession, error) {
	if kind != enums.CALL_KIND_AUDIO && kind != enums.CALL_KIND_VIDEO {
		return nil, errs.ErrInvalidParams
	}

	caller, err := cs.userRepo.FindByID(callerID)
	if err != nil {
		return nil, err
	}

	var anchorID uint
	if conversationID != nil && cs.chatRepo.CheckConversationExists(*conversationID) {
		anchorID = *conversationID
	} else {
		conversation, err := cs.chatService.GetOrCreateConversation(callerID, calleeID)
		if err != nil {
			return nil, err
		}
		anchorID = conversation.ID
	}

	session := &models.CallSession{
		CorrelationID:  uuid.NewString(),
		CallerID:       callerID,
		CalleeID:       calleeID,
		ConversationID: anchorID,
		Kind:           kind,
	}

	isVideo := kind == enums.CALL_KIND_VIDEO
	callLabel := "voice"
	if isVideo {
		callLabel = "video"
	}

	cs.delivery.Deliver([]uint{calleeID},
		enums.SOCKET_EVENT_CALL_INCOMING,
		socket.CallIncomingPayload{
			FromUserID:     callerID,
			ConversationID: anchorID,
			IsVideo:        isVideo,
			CallerName:     caller.FullName(),
			CallerAvatar:   caller.Avatar,
			CorrelationID:  session.CorrelationID,
			Timestamp:      time.Now().UnixMilli(),
		},
		models.PushContent{
			Title: fmt.Sprintf("Incoming %s call", callLabel),
			Body:  fmt.Sprintf("%s is calling you", caller.FullName()),
			Data: map[string]string{
				"type":           "incoming_call",
				"correlationId":  session.CorrelationID,
				"fromUserId":     utils.StringifyID(callerID),
				"conversationId": utils.StringifyID(anchorID),
				"isVideo":        fmt.Sprintf("%t", isVideo),
				"callerName":     caller.FullName(),
			},
		},
	)

	return session, nil
}

// Accept tells the caller their call was picked up. Live-only: the caller
// is by definition on a live connection, so no push is sent.
func (cs *CallService) Accept(calleeID, callerID uint) error {
	if calleeID == 0 || callerID == 0 {
		return errs.ErrInvalidParams
	}
	cs.delivery.DeliverLive([]uint{callerID},
		enums.SOCKET_EVENT_CALL_ACCEPTED,
		socket.CallAcceptedPayload{
			FromUserID: calleeID,
			Timestamp:  time.Now().UnixMilli(),
		},
	)
	return nil
}

// End tells the other party the call is over. The live event goes out
// under both call:ended and its legacy alias call:end; one best-effort
// push with the same correlation id lets the other device cancel a
// still-pending incoming-call notification.
func (cs *CallService) End(byUserID, otherUserID uint) error {
	if byUserID == 0 || otherUserID == 0 {
		return errs.ErrInvalidParams
	}

	payload := socket.CallEndedPayload{
		FromUserID:    byUserID,
		CorrelationID: uuid.NewString(),
		Timestamp:     time.Now().UnixMilli(),
	}
	cs.delivery.DeliverLive([]uint{otherUserID}, enums.SOCKET_EVENT_CALL_ENDED, payload)
	cs.delivery.DeliverLive([]uint{otherUserID}, enums.SOCKET_EVENT_CALL_END, payload)
	cs.delivery.DeliverPush([]uint{otherUserID}, models.PushContent{
		Title: "Call ended",
		Body:  "The call has ended",
		Data: map[string]string{
			"type":          "call_ended",
			"correlationId": payload.CorrelationID,
			"fromUserId":    utils.StringifyID(byUserID),
		},
	})
	return nil
}
