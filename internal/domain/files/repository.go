package files

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, id string) (*File, error)
	GetByIDAndOwner(ctx context.Context, id string, userID int64) (*File, error)
	ListByParent(ctx context.Context, userID int64, parentID string, offset, limit int) ([]*File, error)
	SetPublic(ctx context.Context, id string, public bool) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*File, error) {
	var f File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) GetByIDAndOwner(ctx context.Context, id string, userID int64) (*File, error) {
	var f File
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByParent pages through one folder's children in insertion order.
// The created_at/id pair keeps the order stable when timestamps collide.
func (r *repository) ListByParent(ctx context.Context, userID int64, parentID string, offset, limit int) ([]*File, error) {
	var nodes []*File
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND parent_id = ?", userID, parentID).
		Order("created_at, id").
		Offset(offset).
		Limit(limit).
		Find(&nodes).Error
	return nodes, err
}

func (r *repository) SetPublic(ctx context.Context, id string, public bool) error {
	return r.db.WithContext(ctx).Model(&File{}).Where("id = ?", id).Update("is_public", public).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&File{}).Count(&count).Error
	return count, err
}
