package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/model"
)

// SubscribeRepository manages follower -> author links.
type SubscribeRepository interface {
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	Create(ctx context.Context, sub *model.Subscribe) error
	// Delete removes the link and reports whether a row existed.
	Delete(ctx context.Context, userID, authorID uint) (bool, error)
	// SubscribedAuthorIDs returns which of authorIDs the user follows.
	SubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
	// ListAuthors returns a page of authors the user follows, ordered by id.
	ListAuthors(ctx context.Context, userID uint, page Page) ([]model.User, int64, error)
}

type subscribeRepository struct {
	db *gorm.DB
}

// NewSubscribeRepository builds a GORM-backed repository.
func NewSubscribeRepository(db *gorm.DB) SubscribeRepository {
	return &subscribeRepository{db: db}
}

func (r *subscribeRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Subscribe{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *subscribeRepository) Create(ctx context.Context, sub *model.Subscribe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error
}

func (r *subscribeRepository) Delete(ctx context.Context, userID, authorID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Subscribe{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *subscribeRepository) SubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	subscribed := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return subscribed, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Subscribe{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}

func (r *subscribeRepository) ListAuthors(ctx context.Context, userID uint, page Page) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Subscribe{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []model.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN subscribes s ON s.author_id = users.id").
		Where("s.user_id = ?", userID).
		Order("users.id").
		Offset(page.Offset).
		Limit(page.limit()).
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}
