package events

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/chesterOps/meetro/internal/shared/slug"
	"github.com/chesterOps/meetro/internal/storage"
)

type Service struct {
	repo  *Repo
	store storage.Storage
}

func NewService(repo *Repo, store storage.Storage) *Service {
	return &Service{repo: repo, store: store}
}

type CreateInput struct {
	HostID        string
	Title         string
	Description   string
	StartsAt      *time.Time
	EndsAt        *time.Time
	IsPrivate     bool
	ChipInEnabled bool
	ChipInTarget  float64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	sl, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return Event{}, err
	}

	now := time.Now()
	e := Event{
		ID:            uuid.NewString(),
		HostID:        in.HostID,
		Title:         in.Title,
		Slug:          sl,
		Description:   in.Description,
		StartsAt:      in.StartsAt,
		EndsAt:        in.EndsAt,
		IsPrivate:     in.IsPrivate,
		ChipInEnabled: in.ChipInEnabled,
		ChipInTarget:  in.ChipInTarget,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// UploadCoverImage stores the image and records its public URL on the event.
func (s *Service) UploadCoverImage(ctx context.Context, eventID string, r io.Reader, filename, contentType string, size int64) (string, error) {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return "", err
	}

	res, err := s.store.Put(ctx, r, storage.PutInput{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	})
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateCoverImage(ctx, eventID, res.URL); err != nil {
		return "", err
	}
	return res.URL, nil
}

// uniqueSlug appends a short suffix when the title's slug is already taken.
func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.FromName(title)
	candidate := base
	for i := 0; i < 5; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
	}
	return candidate, nil
}
