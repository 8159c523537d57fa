package validators

import (
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
)

// ValidateNotification guards every path into the ledger, including the
// writes nested inside domain transactions.
func ValidateNotification(notification *models.Notification) error {
	if notification == nil {
		return errs.ErrMissingFields
	}
	if !enums.IsValidNotificationKind(notification.Kind) {
		return errs.ErrInvalidKind
	}
	if notification.RecipientID == 0 || notification.Title == "" || notification.Body == "" {
		return errs.ErrMissingFields
	}
	return nil
}
