package reactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/photos"
	reactionsrepo "github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/reactions"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/repomanager"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/walls"
)

// -------- test fakes --------

type fakeWallsRepo struct {
	walls.Repository
	wall *models.Wall
}

func (f *fakeWallsRepo) GetByID(ctx context.Context, id int64) (*models.Wall, error) {
	if f.wall == nil || f.wall.ID != id {
		return nil, common.ErrNotFound
	}
	return f.wall, nil
}

type fakePhotosRepo struct {
	photos.Repository
	photo *models.Photo
}

func (f *fakePhotosRepo) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	if f.photo == nil || f.photo.ID != id {
		return nil, common.ErrNotFound
	}
	return f.photo, nil
}

// fakeLedger holds reaction membership in memory so toggles behave like the
// real unique-constraint-backed repo.
type fakeLedger struct {
	reactionsrepo.Repository
	held map[string]bool
}

func ledgerKey(photoID, userID int64, emoji string) string {
	return fmt.Sprintf("%d/%d/%s", photoID, userID, emoji)
}

func (f *fakeLedger) Add(ctx context.Context, photoID, userID int64, emoji string) (bool, error) {
	k := ledgerKey(photoID, userID, emoji)
	if f.held[k] {
		return false, nil
	}
	f.held[k] = true
	return true, nil
}

func (f *fakeLedger) Remove(ctx context.Context, photoID, userID int64, emoji string) (bool, error) {
	k := ledgerKey(photoID, userID, emoji)
	if !f.held[k] {
		return false, nil
	}
	delete(f.held, k)
	return true, nil
}

func (f *fakeLedger) Count(ctx context.Context, photoID int64, emoji string) (int, error) {
	n := 0
	for k, v := range f.held {
		if v && k[len(k)-len(emoji):] == emoji {
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	w *fakeWallsRepo
	p *fakePhotosRepo
	r *fakeLedger
}

func (m *fakeRepoManager) Walls(db dbx.DBTX) walls.Repository             { return m.w }
func (m *fakeRepoManager) Photos(db dbx.DBTX) photos.Repository           { return m.p }
func (m *fakeRepoManager) Reactions(db dbx.DBTX) reactionsrepo.Repository { return m.r }

// -------- helpers --------

var birthday = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *fakeRepoManager, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	m := &fakeRepoManager{
		w: &fakeWallsRepo{wall: &models.Wall{ID: 10, OwnerID: 1, BirthdayAt: birthday, UploadsEnabled: true}},
		p: &fakePhotosRepo{photo: &models.Photo{ID: 7, WallID: 10}},
		r: &fakeLedger{held: map[string]bool{}},
	}
	s := NewService(db, m)
	s.now = func() time.Time { return birthday.Add(time.Hour) }
	return s, m, mock, db
}

// -------- tests --------

func TestToggle_DoubleToggleReturnsToOriginal(t *testing.T) {
	s, _, mock, db := newService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	first, err := s.Toggle(context.Background(), 7, 2, "❤️")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.UserHasReacted || first.Count != 1 {
		t.Fatalf("first toggle: %+v", first)
	}

	second, err := s.Toggle(context.Background(), 7, 2, "❤️")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.UserHasReacted || second.Count != 0 {
		t.Fatalf("second toggle must restore the original state: %+v", second)
	}
}

func TestToggle_DistinctEmojisCoexist(t *testing.T) {
	s, m, mock, db := newService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	if _, err := s.Toggle(context.Background(), 7, 2, "❤️"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Toggle(context.Background(), 7, 2, "👍"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.r.held) != 2 {
		t.Fatalf("want two held reactions, got %d", len(m.r.held))
	}
}

func TestToggle_UnknownEmojiRejected(t *testing.T) {
	s, _, _, db := newService(t)
	defer db.Close()

	_, err := s.Toggle(context.Background(), 7, 2, "🎂")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestToggle_ArchivedWallImmutable(t *testing.T) {
	s, m, _, db := newService(t)
	defer db.Close()

	m.w.wall.IsArchived = true
	_, err := s.Toggle(context.Background(), 7, 2, "❤️")
	if !errors.Is(err, common.ErrWallImmutable) {
		t.Fatalf("want ErrWallImmutable, got %v", err)
	}
}

func TestToggle_UnknownPhotoNotFound(t *testing.T) {
	s, _, _, db := newService(t)
	defer db.Close()

	_, err := s.Toggle(context.Background(), 99, 2, "❤️")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
