package repositories

import (
	"errors"
	"testing"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"

	"gorm.io/gorm"
)

func createPost(t *testing.T, db *gorm.DB, authorID uint) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Caption: "checkup tips"}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func TestCreateLikeWithNotificationIsAtomic(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	author := createUser(t, db, "Ada", "doctor")
	fan := createUser(t, db, "Finn", "patient")
	post := createPost(t, db, author.ID)

	like := &models.Like{UserID: fan.ID, TargetType: enums.TARGET_POST, TargetID: post.ID}
	notification := &models.Notification{
		RecipientID: author.ID,
		ActorID:     &fan.ID,
		Kind:        "post_liked",
		Title:       "Finn Example",
		Body:        "liked your post",
	}
	if err := repo.CreateLikeWithNotification(like, notification); err != nil {
		t.Fatalf("CreateLikeWithNotification failed: %v", err)
	}

	count, err := repo.LikesCount(enums.TARGET_POST, post.ID)
	if err != nil {
		t.Fatalf("LikesCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("got likes count %d, want 1", count)
	}

	var ledgerRows int64
	db.Model(&models.Notification{}).
		Where("recipient_id = ? AND kind = ?", author.ID, "post_liked").
		Count(&ledgerRows)
	if ledgerRows != 1 {
		t.Fatalf("got %d ledger rows, want 1", ledgerRows)
	}
}

func TestRemoveLikeFreesUniqueIndexAndKeepsLedger(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	author := createUser(t, db, "Ada", "doctor")
	fan := createUser(t, db, "Finn", "patient")
	post := createPost(t, db, author.ID)

	like := &models.Like{UserID: fan.ID, TargetType: enums.TARGET_POST, TargetID: post.ID}
	notification := &models.Notification{
		RecipientID: author.ID, ActorID: &fan.ID,
		Kind: "post_liked", Title: "Finn Example", Body: "liked your post",
	}
	if err := repo.CreateLikeWithNotification(like, notification); err != nil {
		t.Fatalf("CreateLikeWithNotification failed: %v", err)
	}
	if err := repo.RemoveLike(like); err != nil {
		t.Fatalf("RemoveLike failed: %v", err)
	}

	count, err := repo.LikesCount(enums.TARGET_POST, post.ID)
	if err != nil {
		t.Fatalf("LikesCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("got likes count %d after unlike, want 0", count)
	}

	// The earlier notification stays in the ledger.
	var ledgerRows int64
	db.Model(&models.Notification{}).Where("kind = ?", "post_liked").Count(&ledgerRows)
	if ledgerRows != 1 {
		t.Fatalf("got %d ledger rows after unlike, want 1", ledgerRows)
	}

	// The unique index is free again for a re-like.
	relike := &models.Like{UserID: fan.ID, TargetType: enums.TARGET_POST, TargetID: post.ID}
	if err := repo.CreateLikeWithNotification(relike, nil); err != nil {
		t.Fatalf("re-like after unlike failed: %v", err)
	}
}

func TestLikesCountNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	author := createUser(t, db, "Ada", "doctor")
	post := createPost(t, db, author.ID)

	// A remove against a zero counter must not drive it below zero.
	stray := &models.Like{UserID: author.ID, TargetType: enums.TARGET_POST, TargetID: post.ID}
	if err := db.Create(stray).Error; err != nil {
		t.Fatalf("failed to create stray like: %v", err)
	}
	if err := repo.RemoveLike(stray); err != nil {
		t.Fatalf("RemoveLike failed: %v", err)
	}

	count, err := repo.LikesCount(enums.TARGET_POST, post.ID)
	if err != nil {
		t.Fatalf("LikesCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("got likes count %d, want 0", count)
	}
}

func TestCreateCommentWithNotificationBumpsCounter(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	author := createUser(t, db, "Ada", "doctor")
	fan := createUser(t, db, "Finn", "patient")
	post := createPost(t, db, author.ID)

	comment := &models.Comment{
		UserID:     fan.ID,
		TargetType: enums.TARGET_POST,
		TargetID:   post.ID,
		Content:    "very helpful",
	}
	notification := &models.Notification{
		RecipientID: author.ID, ActorID: &fan.ID,
		Kind: "post_commented", Title: "Finn Example", Body: "very helpful",
	}
	if err := repo.CreateCommentWithNotification(comment, notification); err != nil {
		t.Fatalf("CreateCommentWithNotification failed: %v", err)
	}

	updated, err := repo.FindPost(post.ID)
	if err != nil {
		t.Fatalf("FindPost failed: %v", err)
	}
	if updated.CommentsCount != 1 {
		t.Fatalf("got comments count %d, want 1", updated.CommentsCount)
	}

	comments, total, err := repo.ListComments(enums.TARGET_POST, post.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if total != 1 || len(comments) != 1 {
		t.Fatalf("got %d comments (total %d), want 1", len(comments), total)
	}
	if comments[0].User == nil || comments[0].User.ID != fan.ID {
		t.Fatalf("comment author not preloaded")
	}
}

func TestFindTargetsReturnNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)

	if _, err := repo.FindPost(99); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("FindPost: got %v, want ErrNotFound", err)
	}
	if _, err := repo.FindReel(99); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("FindReel: got %v, want ErrNotFound", err)
	}
	if _, err := repo.LikesCount("story", 1); !errors.Is(err, errs.ErrInvalidParams) {
		t.Fatalf("LikesCount: got %v, want ErrInvalidParams", err)
	}
}
