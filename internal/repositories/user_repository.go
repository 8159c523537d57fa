package repositories

import (
	"errors"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"

	"gorm.io/gorm"
)

// UserRepository is the identity collaborator: role lookups for the
// pairing policy and display data for payloads. User lifecycle belongs to
// the surrounding platform.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (ur *UserRepository) FindByID(userID uint) (*models.User, error) {
	var user models.User
	if err := ur.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (ur *UserRepository) FindByIDs(userIDs []uint) ([]models.User, error) {
	var users []models.User
	if err := ur.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
