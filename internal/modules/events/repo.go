package events

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("event not found")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (Event, error) {
	var e Event
	err := r.db.WithContext(ctx).Preload("Host").First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Event{}, ErrNotFound
	}
	return e, err
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (Event, error) {
	var e Event
	err := r.db.WithContext(ctx).Preload("Host").First(&e, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Event{}, ErrNotFound
	}
	return e, err
}

func (r *Repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&Event{}).Where("slug = ?", slug).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *Repo) UpdateCoverImage(ctx context.Context, id, url string) error {
	return r.db.WithContext(ctx).Model(&Event{}).
		Where("id = ?", id).
		Update("cover_image", url).Error
}

func (r *Repo) ListByHost(ctx context.Context, hostID string) ([]Event, error) {
	var out []Event
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&out, "host_id = ?", hostID).Error
	return out, err
}
