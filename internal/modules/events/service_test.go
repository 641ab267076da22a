package events

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chesterOps/meetro/internal/modules/users"
	"github.com/chesterOps/meetro/internal/storage"
)

type fakeStorage struct {
	puts    []storage.PutInput
	lastKey string
}

func (f *fakeStorage) Put(ctx context.Context, r io.Reader, in storage.PutInput) (storage.PutResult, error) {
	f.puts = append(f.puts, in)
	f.lastKey = "events/" + in.Filename
	return storage.PutResult{Key: f.lastKey, URL: "https://cdn.test/" + f.lastKey}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &Event{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedHost(t *testing.T, db *gorm.DB) users.User {
	t.Helper()
	now := time.Now()
	u := users.User{
		ID:           uuid.NewString(),
		Name:         "Ada Obi",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: []byte("x"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed host: %v", err)
	}
	return u
}

func TestCreateEvent(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepo(db), &fakeStorage{})
	host := seedHost(t, db)

	ev, err := svc.Create(context.Background(), CreateInput{
		HostID:        host.ID,
		Title:         "Ada's Birthday",
		Description:   "Bring snacks.",
		IsPrivate:     true,
		ChipInEnabled: true,
		ChipInTarget:  50000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ev.Slug != "ada-s-birthday" {
		t.Errorf("slug = %q", ev.Slug)
	}
	if !ev.AcceptsChipIns() {
		t.Error("private event with chip-ins enabled should accept chip-ins")
	}

	got, err := NewRepo(db).GetBySlug(context.Background(), ev.Slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.Host == nil || got.Host.Name != host.Name {
		t.Errorf("host not preloaded: %+v", got.Host)
	}
}

func TestCreateEventDisambiguatesSlug(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepo(db), &fakeStorage{})
	host := seedHost(t, db)

	first, err := svc.Create(context.Background(), CreateInput{HostID: host.ID, Title: "Game Night"})
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateInput{HostID: host.ID, Title: "Game Night"})
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}

	if first.Slug == second.Slug {
		t.Errorf("slug collision: both events got %q", first.Slug)
	}
	if !strings.HasPrefix(second.Slug, "game-night-") {
		t.Errorf("second slug = %q, want game-night- prefix", second.Slug)
	}
}

func TestAcceptsChipIns(t *testing.T) {
	tests := []struct {
		name    string
		private bool
		enabled bool
		want    bool
	}{
		{"private with chip-ins", true, true, true},
		{"private without chip-ins", true, false, false},
		{"public with chip-ins", false, true, false},
		{"public without chip-ins", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{IsPrivate: tt.private, ChipInEnabled: tt.enabled}
			if got := e.AcceptsChipIns(); got != tt.want {
				t.Errorf("AcceptsChipIns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUploadCoverImage(t *testing.T) {
	db := testDB(t)
	store := &fakeStorage{}
	svc := NewService(NewRepo(db), store)
	host := seedHost(t, db)

	ev, err := svc.Create(context.Background(), CreateInput{HostID: host.ID, Title: "Picnic"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	url, err := svc.UploadCoverImage(context.Background(), ev.ID, strings.NewReader("png-bytes"), "cover.png", "image/png", 9)
	if err != nil {
		t.Fatalf("UploadCoverImage: %v", err)
	}
	if url == "" {
		t.Fatal("empty url")
	}
	if len(store.puts) != 1 || store.puts[0].ContentType != "image/png" {
		t.Errorf("storage puts = %+v", store.puts)
	}

	got, err := NewRepo(db).GetByID(context.Background(), ev.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CoverImage == nil || *got.CoverImage != url {
		t.Errorf("cover image = %v, want %q", got.CoverImage, url)
	}
}

func TestUploadCoverImageUnknownEvent(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepo(db), &fakeStorage{})

	_, err := svc.UploadCoverImage(context.Background(), uuid.NewString(), strings.NewReader("x"), "cover.png", "image/png", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
