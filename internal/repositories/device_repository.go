package repositories

import (
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"

	"gorm.io/gorm"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{
		db: db,
	}
}

// Save registers a push token for the user. Tokens are globally unique:
// a token seen before is re-pointed to this user and reactivated, which
// covers devices changing hands between accounts. Each user keeps at
// most maxPerPlatform active endpoints per platform; the stalest rows
// beyond the cap are deactivated.
func (dr *DeviceRepository) Save(userID uint, token, platform string, maxPerPlatform int) (*models.DeviceEndpoint, error) {
	var endpoint models.DeviceEndpoint

	transactionErr := dr.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("token = ?", token).First(&endpoint).Error
		switch {
		case err == nil:
			endpoint.UserID = userID
			endpoint.Platform = platform
			endpoint.Active = true
			if err := tx.Save(&endpoint).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			endpoint = models.DeviceEndpoint{
				UserID:   userID,
				Token:    token,
				Platform: platform,
				Active:   true,
			}
			if err := tx.Create(&endpoint).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return dr.enforceCap(tx, userID, platform, maxPerPlatform)
	})
	if transactionErr != nil {
		return nil, transactionErr
	}

	return &endpoint, nil
}

// enforceCap deactivates the least recently touched active endpoints
// beyond the per-platform cap. Deactivation keeps the row so a later
// re-registration of the same token reuses it.
func (dr *DeviceRepository) enforceCap(tx *gorm.DB, userID uint, platform string, maxPerPlatform int) error {
	if maxPerPlatform <= 0 {
		return nil
	}

	var endpoints []models.DeviceEndpoint
	if err := tx.
		Where("user_id = ? AND platform = ? AND active = ?", userID, platform, true).
		Order("updated_at DESC, id DESC").
		Find(&endpoints).Error; err != nil {
		return err
	}
	if len(endpoints) <= maxPerPlatform {
		return nil
	}

	var evicted []uint
	for _, stale := range endpoints[maxPerPlatform:] {
		evicted = append(evicted, stale.ID)
	}
	return tx.Model(&models.DeviceEndpoint{}).
		Where("id IN ?", evicted).
		Update("active", false).Error
}

// Deactivate turns off one token owned by the user. Returns rows
// affected; zero means the token is unknown or not theirs.
func (dr *DeviceRepository) Deactivate(userID uint, token string) (int64, error) {
	result := dr.db.Model(&models.DeviceEndpoint{}).
		Where("user_id = ? AND token = ? AND active = ?", userID, token, true).
		Update("active", false)
	if err := result.Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

// DeactivateByToken turns off a token regardless of owner. The push
// worker calls this when the provider reports the token gone.
func (dr *DeviceRepository) DeactivateByToken(token string) error {
	return dr.db.Model(&models.DeviceEndpoint{}).
		Where("token = ?", token).
		Update("active", false).Error
}

// ActiveEndpointsForUser lists the endpoints a push should reach.
func (dr *DeviceRepository) ActiveEndpointsForUser(userID uint) ([]models.DeviceEndpoint, error) {
	var endpoints []models.DeviceEndpoint
	if err := dr.db.
		Where("user_id = ? AND active = ?", userID, true).
		Order("updated_at DESC").
		Find(&endpoints).Error; err != nil {
		return nil, err
	}
	return endpoints, nil
}
