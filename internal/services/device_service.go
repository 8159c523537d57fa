package services

import (
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
)

// DeviceService manages the remote-push endpoints a user's devices
// register. Endpoints per user per platform are capped; the stalest ones
// are deactivated when a registration pushes past the cap.
type DeviceService struct {
	deviceRepo     *repositories.DeviceRepository
	maxPerPlatform int
}

func NewDeviceService(deviceRepo *repositories.DeviceRepository, maxPerPlatform int) *DeviceService {
	return &DeviceService{
		deviceRepo:     deviceRepo,
		maxPerPlatform: maxPerPlatform,
	}
}

// Register stores or reactivates a push token for the user.
func (ds *DeviceService) Register(userID uint, token, platform string) (*models.DeviceEndpoint, error) {
	if token == "" {
		return nil, errs.ErrInvalidToken
	}
	if !enums.IsValidPlatform(platform) {
		return nil, errs.ErrInvalidPlatform
	}
	return ds.deviceRepo.Save(userID, token, platform, ds.maxPerPlatform)
}

// Unregister deactivates one of the user's tokens. NotFound when the
// token is unknown or belongs to someone else.
func (ds *DeviceService) Unregister(userID uint, token string) error {
	if token == "" {
		return errs.ErrInvalidToken
	}
	changed, err := ds.deviceRepo.Deactivate(userID, token)
	if err != nil {
		return err
	}
	if changed == 0 {
		return errs.ErrNotFound
	}
	return nil
}
