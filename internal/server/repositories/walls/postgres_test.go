package walls

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func wallRows(w *models.Wall) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "share_code", "owner_id", "title", "theme", "accent_color", "background_anim",
		"background_color", "intensity", "birthday_at", "is_open", "is_archived", "is_sealed",
		"uploads_enabled", "upload_paused", "upload_permission", "birthday_year", "z_counter", "created_at",
	}).AddRow(
		w.ID, w.ShareCode, w.OwnerID, w.Title, w.Theme, w.AccentColor, w.BackgroundAnim,
		w.BackgroundColor, w.Intensity, w.BirthdayAt, w.IsOpen, w.IsArchived, w.IsSealed,
		w.UploadsEnabled, w.UploadPaused, w.UploadPermission, w.BirthdayYear, w.ZCounter, w.CreatedAt,
	)
}

func TestCreate_ReturnsIDAndCreatedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO walls .* RETURNING id, created_at`).
		WithArgs("abc123def0", int64(1), "My Birthday Wall", "confetti", "#ff66cc", "balloons",
			"night", string(models.IntensityMedium), sqlmock.AnyArg(), true, true, string(models.PermissionTribeMates)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now))

	w := &models.Wall{
		ShareCode: "abc123def0", OwnerID: 1, Title: "My Birthday Wall",
		Theme: "confetti", AccentColor: "#ff66cc", BackgroundAnim: "balloons",
		BackgroundColor: "night", Intensity: models.IntensityMedium,
		BirthdayAt: now.Add(time.Hour), IsOpen: true, UploadsEnabled: true,
		UploadPermission: models.PermissionTribeMates,
	}
	got, err := repo.Create(context.Background(), w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("want id 42, got %d", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByShareCode_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM walls WHERE share_code = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByShareCode(context.Background(), "nope")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetLiveByOwner_ScansAllColumns(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := &models.Wall{
		ID: 7, ShareCode: "deadbeef00", OwnerID: 3, Title: "t",
		Intensity: models.IntensityLow, BirthdayAt: time.Now().UTC(),
		UploadsEnabled: true, UploadPermission: models.PermissionBoth,
		ZCounter: 5, CreatedAt: time.Now().UTC(),
	}
	mock.ExpectQuery(`SELECT .* FROM walls WHERE owner_id = \$1 AND NOT is_archived`).
		WithArgs(int64(3)).
		WillReturnRows(wallRows(want))

	got, err := repo.GetLiveByOwner(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.ShareCode != want.ShareCode || got.ZCounter != want.ZCounter {
		t.Fatalf("scan mismatch: got %+v", got)
	}
}

func TestSeal_AlreadySealedRowsAffected0(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE walls SET is_sealed = TRUE WHERE id = \$1 AND NOT is_sealed AND NOT is_archived`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Seal(context.Background(), 7)
	if !errors.Is(err, common.ErrWallImmutable) {
		t.Fatalf("want ErrWallImmutable, got %v", err)
	}
}

func TestUpdateUploadControls_SealedWallRejected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE walls\s+SET is_open = \$2, uploads_enabled = \$3, upload_paused = \$4, upload_permission = \$5`).
		WithArgs(int64(7), true, true, false, string(models.PermissionBoth)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := &models.Wall{ID: 7, IsOpen: true, UploadsEnabled: true, UploadPermission: models.PermissionBoth}
	if err := repo.UpdateUploadControls(context.Background(), w); !errors.Is(err, common.ErrWallImmutable) {
		t.Fatalf("want ErrWallImmutable, got %v", err)
	}
}

func TestNextZ_ReturnsIncrementedCounter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE walls SET z_counter = z_counter \+ 1 WHERE id = \$1 RETURNING z_counter`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"z_counter"}).AddRow(int64(12)))

	z, err := repo.NextZ(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if z != 12 {
		t.Fatalf("want 12, got %d", z)
	}
}
