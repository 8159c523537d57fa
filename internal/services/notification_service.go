package services

import (
	"strings"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/socket"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/telemetry"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/validators"
)

// NotificationService owns the notification ledger: durable rows created
// once with their domain event and mutated afterwards only to flip the
// read flag. Ledger writes that must commit with a domain mutation go
// through the repository's CreateTx inside the owning transaction; this
// service covers the standalone writes and all reads.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	delivery         *DeliveryService
}

func NewNotificationService(
	notificationRepo *repositories.NotificationRepository,
	delivery *DeliveryService,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		delivery:         delivery,
	}
}

// Record validates and writes one unread ledger row.
func (ns *NotificationService) Record(notification *models.Notification) error {
	if err := validators.ValidateNotification(notification); err != nil {
		return err
	}
	if err := ns.notificationRepo.Create(notification); err != nil {
		return err
	}
	telemetry.NotificationsRecorded.WithLabelValues(notification.Kind).Inc()
	return nil
}

// MarkRead flips one row. NotFound when the row does not exist or belongs
// to another recipient, so nobody can flip someone else's flags.
func (ns *NotificationService) MarkRead(notificationID, recipientID uint) error {
	changed, err := ns.notificationRepo.MarkRead(notificationID, recipientID)
	if err != nil {
		return err
	}
	if changed == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// MarkAllRead flips every unread row of the recipient. Idempotent; a
// recipient with nothing unread gets 0 back, not an error.
func (ns *NotificationService) MarkAllRead(recipientID uint) (int64, error) {
	return ns.notificationRepo.MarkAllRead(recipientID)
}

func (ns *NotificationService) UnreadCount(recipientID uint) (int64, error) {
	return ns.notificationRepo.UnreadCount(recipientID)
}

// List pages through the recipient's rows, newest first. filter is
// "read", "unread" or empty for everything.
func (ns *NotificationService) List(recipientID uint, filter string, page, size int) (*models.NotificationListResponse, error) {
	var read *bool
	switch strings.ToLower(filter) {
	case "":
	case "read":
		value := true
		read = &value
	case "unread":
		value := false
		read = &value
	default:
		return nil, errs.ErrInvalidParams
	}

	page, size = utils.ClampPage(page, size)
	notifications, total, err := ns.notificationRepo.List(recipientID, read, page, size)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, notifications[i].ToNotificationResponse())
	}

	return &models.NotificationListResponse{
		Notifications: responses,
		Page:          page,
		Size:          size,
		Total:         total,
	}, nil
}

// Delete removes one row owned by the recipient.
func (ns *NotificationService) Delete(notificationID, recipientID uint) error {
	deleted, err := ns.notificationRepo.Delete(notificationID, recipientID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// NotifyBookingStatus records a booking lifecycle notification and fans it
// out. The booking module itself lives outside this service; it calls in
// here whenever an appointment changes state.
func (ns *NotificationService) NotifyBookingStatus(recipientID uint, actorID *uint, kind string, appointmentID uint, title, body string) error {
	if !strings.HasPrefix(kind, "booking_") || !enums.IsValidNotificationKind(kind) {
		return errs.ErrInvalidKind
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		EntityID:    &appointmentID,
		Metadata: models.Metadata{
			"type":          kind,
			"appointmentId": appointmentID,
		},
	}
	if err := ns.Record(notification); err != nil {
		return err
	}

	ns.delivery.Deliver([]uint{recipientID},
		enums.SOCKET_EVENT_BOOKING_STATUS,
		socket.NotificationPayload{Notification: notification.ToNotificationResponse()},
		models.PushContent{
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":          kind,
				"appointmentId": utils.StringifyID(appointmentID),
			},
		},
	)
	return nil
}
