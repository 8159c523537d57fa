package services

import (
	"fmt"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/socket"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/telemetry"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/validators"
)

// EngagementService handles likes and comments on posts and reels. The
// domain mutation (like/comment row plus counter) and its notification
// ledger row commit as one transaction: a visible counter change without
// its notification, or the reverse, cannot happen. Fan-out runs strictly
// after the commit and its failures never roll anything back.
type EngagementService struct {
	engagementRepo *repositories.EngagementRepository
	userRepo       *repositories.UserRepository
	delivery       *DeliveryService
}

func NewEngagementService(
	engagementRepo *repositories.EngagementRepository,
	userRepo *repositories.UserRepository,
	delivery *DeliveryService,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		userRepo:       userRepo,
		delivery:       delivery,
	}
}

// ToggleLike likes the target, or removes the user's existing like. A
// fresh like on someone else's content writes one notification row in the
// same transaction and notifies the author; liking your own content stays
// silent. Unliking never notifies.
func (es *EngagementService) ToggleLike(userID uint, targetType string, targetID uint) (*models.LikeResult, error) {
	authorID, err := es.targetAuthor(targetType, targetID)
	if err != nil {
		return nil, err
	}

	existing, err := es.engagementRepo.FindLike(userID, targetType, targetID)
	if err != nil && err != errs.ErrNotFound {
		return nil, err
	}

	if existing != nil {
		if err := es.engagementRepo.RemoveLike(existing); err != nil {
			return nil, err
		}
		count, err := es.engagementRepo.LikesCount(targetType, targetID)
		if err != nil {
			return nil, err
		}
		return &models.LikeResult{Liked: false, LikesCount: count}, nil
	}

	like := &models.Like{UserID: userID, TargetType: targetType, TargetID: targetID}

	var notification *models.Notification
	if authorID != userID {
		actor, err := es.userRepo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		notification = es.buildNotification(authorID, actor, likeKind(targetType), targetType, targetID,
			"New like", fmt.Sprintf("%s liked your %s", actor.FullName(), targetType))
	}

	if notification != nil {
		if err := validators.ValidateNotification(notification); err != nil {
			return nil, err
		}
	}
	if err := es.engagementRepo.CreateLikeWithNotification(like, notification); err != nil {
		return nil, err
	}
	es.fanOutEngagement(authorID, likeEvent(targetType), notification)

	count, err := es.engagementRepo.LikesCount(targetType, targetID)
	if err != nil {
		return nil, err
	}
	return &models.LikeResult{Liked: true, LikesCount: count}, nil
}

// AddComment stores the comment; the counter bump and the author's
// notification row commit with it. Commenting on your own content stays
// silent.
func (es *EngagementService) AddComment(userID uint, targetType string, targetID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, errs.ErrMissingFields
	}
	authorID, err := es.targetAuthor(targetType, targetID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		Content:    content,
	}

	var notification *models.Notification
	if authorID != userID {
		actor, err := es.userRepo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		notification = es.buildNotification(authorID, actor, commentKind(targetType), targetType, targetID,
			"New comment", fmt.Sprintf("%s commented: %s", actor.FullName(), preview(content)))
	}

	if notification != nil {
		if err := validators.ValidateNotification(notification); err != nil {
			return nil, err
		}
	}
	if err := es.engagementRepo.CreateCommentWithNotification(comment, notification); err != nil {
		return nil, err
	}
	es.fanOutEngagement(authorID, commentEvent(targetType), notification)

	return es.engagementRepo.GetCommentByID(comment.ID)
}

// ListComments pages through a target's comments, newest first.
func (es *EngagementService) ListComments(targetType string, targetID uint, page, size int) ([]models.Comment, int64, error) {
	if _, err := es.targetAuthor(targetType, targetID); err != nil {
		return nil, 0, err
	}
	page, size = utils.ClampPage(page, size)
	return es.engagementRepo.ListComments(targetType, targetID, page, size)
}

func (es *EngagementService) targetAuthor(targetType string, targetID uint) (uint, error) {
	switch targetType {
	case enums.TARGET_POST:
		post, err := es.engagementRepo.FindPost(targetID)
		if err != nil {
			return 0, err
		}
		return post.AuthorID, nil
	case enums.TARGET_REEL:
		reel, err := es.engagementRepo.FindReel(targetID)
		if err != nil {
			return 0, err
		}
		return reel.AuthorID, nil
	default:
		return 0, errs.ErrInvalidParams
	}
}

func (es *EngagementService) buildNotification(recipientID uint, actor *models.User, kind, targetType string, targetID uint, title, body string) *models.Notification {
	actorID := actor.ID
	entityID := targetID
	return &models.Notification{
		RecipientID: recipientID,
		ActorID:     &actorID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		EntityID:    &entityID,
		Metadata: models.Metadata{
			"type":       kind,
			"targetType": targetType,
			"targetId":   targetID,
		},
	}
}

// fanOutEngagement mirrors a freshly committed ledger row to the author's
// live connections and devices. A nil notification means the actor acted
// on their own content: nothing is sent at all.
func (es *EngagementService) fanOutEngagement(recipientID uint, event string, notification *models.Notification) {
	if notification == nil {
		return
	}
	telemetry.NotificationsRecorded.WithLabelValues(notification.Kind).Inc()

	data := map[string]string{
		"type":           notification.Kind,
		"notificationId": utils.StringifyID(notification.ID),
	}
	if notification.EntityID != nil {
		data["targetId"] = utils.StringifyID(*notification.EntityID)
	}
	if notification.ActorID != nil {
		data["fromUserId"] = utils.StringifyID(*notification.ActorID)
	}

	es.delivery.Deliver([]uint{recipientID},
		event,
		socket.NotificationPayload{Notification: notification.ToNotificationResponse()},
		models.PushContent{Title: notification.Title, Body: notification.Body, Data: data},
	)
}

func likeKind(targetType string) string {
	if targetType == enums.TARGET_REEL {
		return enums.NOTIFICATION_KIND_REEL_LIKED
	}
	return enums.NOTIFICATION_KIND_POST_LIKED
}

func commentKind(targetType string) string {
	if targetType == enums.TARGET_REEL {
		return enums.NOTIFICATION_KIND_REEL_COMMENTED
	}
	return enums.NOTIFICATION_KIND_POST_COMMENTED
}

func likeEvent(targetType string) string {
	if targetType == enums.TARGET_REEL {
		return enums.SOCKET_EVENT_REEL_LIKED
	}
	return enums.SOCKET_EVENT_POST_LIKED
}

func commentEvent(targetType string) string {
	if targetType == enums.TARGET_REEL {
		return enums.SOCKET_EVENT_REEL_COMMENTED
	}
	return enums.SOCKET_EVENT_POST_COMMENTED
}

func preview(content string) string {
	const max = 80
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
