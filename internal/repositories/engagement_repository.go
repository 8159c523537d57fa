package repositories

import (
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"

	"gorm.io/gorm"
)

type EngagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{
		db: db,
	}
}

func (er *EngagementRepository) FindPost(postID uint) (*models.Post, error) {
	var post models.Post
	if err := er.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (er *EngagementRepository) FindReel(reelID uint) (*models.Reel, error) {
	var reel models.Reel
	if err := er.db.First(&reel, reelID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &reel, nil
}

func (er *EngagementRepository) FindLike(userID uint, targetType string, targetID uint) (*models.Like, error) {
	var like models.Like
	err := er.db.
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&like).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &like, nil
}

// CreateLikeWithNotification inserts the like, bumps the target's
// counter and writes the ledger row in one transaction. A nil
// notification skips the ledger write, which is how self-likes stay
// silent.
func (er *EngagementRepository) CreateLikeWithNotification(like *models.Like, notification *models.Notification) error {
	return er.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		if err := er.adjustLikesCount(tx, like.TargetType, like.TargetID, +1); err != nil {
			return err
		}
		if notification != nil {
			notification.Read = false
			return tx.Create(notification).Error
		}
		return nil
	})
}

// RemoveLike deletes the like and decrements the counter together.
// The delete is unscoped so the unique index frees up for a re-like.
// Earlier like notifications stay in the ledger untouched.
func (er *EngagementRepository) RemoveLike(like *models.Like) error {
	return er.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(like).Error; err != nil {
			return err
		}
		return er.adjustLikesCount(tx, like.TargetType, like.TargetID, -1)
	})
}

// CreateCommentWithNotification inserts the comment, bumps the counter
// and writes the ledger row in one transaction. Nil notification skips
// the ledger write for self-comments.
func (er *EngagementRepository) CreateCommentWithNotification(comment *models.Comment, notification *models.Notification) error {
	return er.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		model, err := targetModel(comment.TargetType)
		if err != nil {
			return err
		}
		if err := tx.Model(model).
			Where("id = ?", comment.TargetID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error; err != nil {
			return err
		}
		if notification != nil {
			notification.Read = false
			return tx.Create(notification).Error
		}
		return nil
	})
}

func (er *EngagementRepository) GetCommentByID(commentID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := er.db.Preload("User").First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (er *EngagementRepository) ListComments(targetType string, targetID uint, page, size int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	transactionErr := er.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Comment{}).
			Where("target_type = ? AND target_id = ?", targetType, targetID)
		if err := query.Count(&total).Error; err != nil {
			return err
		}
		return tx.Preload("User").
			Where("target_type = ? AND target_id = ?", targetType, targetID).
			Scopes(utils.Paginate(page, size)).
			Order("created_at DESC, id DESC").
			Find(&comments).Error
	})
	if transactionErr != nil {
		return nil, 0, transactionErr
	}

	return comments, total, nil
}

// LikesCount reads the denormalized counter off the target row.
func (er *EngagementRepository) LikesCount(targetType string, targetID uint) (int, error) {
	switch targetType {
	case enums.TARGET_POST:
		post, err := er.FindPost(targetID)
		if err != nil {
			return 0, err
		}
		return post.LikesCount, nil
	case enums.TARGET_REEL:
		reel, err := er.FindReel(targetID)
		if err != nil {
			return 0, err
		}
		return reel.LikesCount, nil
	default:
		return 0, errs.ErrInvalidParams
	}
}

// adjustLikesCount moves the counter by delta without letting it go
// negative.
func (er *EngagementRepository) adjustLikesCount(tx *gorm.DB, targetType string, targetID uint, delta int) error {
	model, err := targetModel(targetType)
	if err != nil {
		return err
	}
	query := tx.Model(model).Where("id = ?", targetID)
	if delta < 0 {
		query = query.Where("likes_count > 0")
	}
	return query.Update("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}

func targetModel(targetType string) (interface{}, error) {
	switch targetType {
	case enums.TARGET_POST:
		return &models.Post{}, nil
	case enums.TARGET_REEL:
		return &models.Reel{}, nil
	default:
		return nil, errs.ErrInvalidParams
	}
}
