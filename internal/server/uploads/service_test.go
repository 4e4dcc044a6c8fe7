package uploads

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/logging"
	sc "github.com/fidateq-hbm/happy-birthday-mate/internal/server/config"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/permission"
	ph "github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/photos"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/repomanager"
	wl "github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/walls"
)

// -------- test fakes --------

type fakeGate struct {
	decision permission.Decision
	err      error
}

func (g *fakeGate) UploadStatus(ctx context.Context, wall *models.Wall, viewer models.Viewer) (permission.Decision, error) {
	return g.decision, g.err
}

type fakeWallsRepo struct {
	wl.Repository
	wall  *models.Wall
	nextZ int64
	zErr  error
}

func (f *fakeWallsRepo) GetByShareCode(ctx context.Context, code string) (*models.Wall, error) {
	if f.wall == nil || f.wall.ShareCode != code {
		return nil, common.ErrNotFound
	}
	return f.wall, nil
}

func (f *fakeWallsRepo) NextZ(ctx context.Context, id int64) (int64, error) {
	if f.zErr != nil {
		return 0, f.zErr
	}
	f.nextZ++
	return f.nextZ, nil
}

type fakePhotosRepo struct {
	ph.Repository
	created   *models.Photo
	createErr error
}

func (f *fakePhotosRepo) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *photo
	cp.ID = 77
	f.created = &cp
	return &cp, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	w *fakeWallsRepo
	p *fakePhotosRepo
}

func (m *fakeRepoManager) Walls(db dbx.DBTX) wl.Repository  { return m.w }
func (m *fakeRepoManager) Photos(db dbx.DBTX) ph.Repository { return m.p }

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l nopLogger) With(args ...any) logging.Logger                  { return l }

// -------- helpers --------

func newSvc(t *testing.T, gate *fakeGate) (*Service, *fakeRepoManager, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New err: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repos := &fakeRepoManager{
		w: &fakeWallsRepo{wall: &models.Wall{ID: 5, ShareCode: "abc123def0", OwnerID: 1}},
		p: &fakePhotosRepo{},
	}
	cfg := &sc.Config{
		S3Region:                "us-east-1",
		S3RootUser:              "minioadmin",
		S3RootPassword:          "minioadmin",
		S3BaseEndpoint:          "http://127.0.0.1:9000",
		S3Bucket:                "walls",
		PresignValidityDuration: 15 * time.Minute,
	}
	return NewService(db, repos, cfg, gate, nopLogger{}), repos, mock, db
}

func stubPresignSeams(t *testing.T, putURL, getURL string, presignErr error) {
	t.Helper()

	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: putURL}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: getURL}, nil
	}
}

func userViewer(id int64) models.Viewer {
	return models.Viewer{UserID: &id, Name: "Sam"}
}

// -------- tests --------

func TestPresign_Success(t *testing.T) {
	gate := &fakeGate{decision: permission.Decision{CanUpload: true, Reason: permission.ReasonAllowed}}
	svc, _, _, _ := newSvc(t, gate)
	stubPresignSeams(t, "http://presigned/put", "", nil)

	res, err := svc.Presign(context.Background(), "abc123def0", userViewer(2), "image/jpeg", 1024)
	if err != nil {
		t.Fatalf("Presign err: %v", err)
	}
	if res.URL != "http://presigned/put" {
		t.Fatalf("unexpected URL %q", res.URL)
	}
	if !strings.HasPrefix(res.StorageKey, "walls/5/") {
		t.Fatalf("storage key not sharded by wall: %q", res.StorageKey)
	}
}

func TestPresign_RejectsOversizeAndBadType(t *testing.T) {
	gate := &fakeGate{decision: permission.Decision{CanUpload: true, Reason: permission.ReasonAllowed}}
	svc, _, _, _ := newSvc(t, gate)

	_, err := svc.Presign(context.Background(), "abc123def0", userViewer(2), "image/jpeg", common.MaxUploadBytes+1)
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("oversize: want ErrValidation, got %v", err)
	}

	_, err = svc.Presign(context.Background(), "abc123def0", userViewer(2), "application/pdf", 1024)
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("bad type: want ErrValidation, got %v", err)
	}
}

func TestPresign_DeniedCarriesReason(t *testing.T) {
	gate := &fakeGate{decision: permission.Decision{CanUpload: false, Reason: permission.ReasonSealed}}
	svc, _, _, _ := newSvc(t, gate)

	_, err := svc.Presign(context.Background(), "abc123def0", userViewer(2), "image/png", 1024)
	if !errors.Is(err, common.ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	var denied *DeniedError
	if !errors.As(err, &denied) || denied.Reason != permission.ReasonSealed {
		t.Fatalf("want DeniedError with sealed reason, got %v", err)
	}
}

func TestPresign_UnknownWall(t *testing.T) {
	gate := &fakeGate{decision: permission.Decision{CanUpload: true, Reason: permission.ReasonAllowed}}
	svc, _, _, _ := newSvc(t, gate)

	_, err := svc.Presign(context.Background(), "nope", userViewer(2), "image/png", 1024)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAttach_Success(t *testing.T) {
	gate := &fakeGate{decision: permission.Decision{CanUpload: true, Reason: permission.ReasonAllowed}}
	svc, repos, mock, _ := newSvc(t, gate)

	mock.ExpectBegin()
	mock.ExpectCommit()

	photo, err := svc.Attach(context.Background(), "abc123def0", userViewer(2), AttachParams{
		StorageKey: "walls/5/2026/8/29/key",
		Caption:    "happy birthday!",
		Frame:      models.FrameClassic,
		PosX:       120,
		PosY:       80,
		Width:      50,   // below minimum, must clamp up
		Height:     2000, // above maximum, must clamp down
	})
	if err != nil {
		t.Fatalf("Attach err: %v", err)
	}
	if photo.ID != 77 {
		t.Fatalf("created photo id not returned: %+v", photo)
	}
	if photo.ZIndex != 1 {
		t.Fatalf("z index not taken from wall counter: %d", photo.ZIndex)
	}
	if photo.Width != models.MinPhotoSize || photo.Height != models.MaxPhotoSize {
		t.Fatalf("size not clamped: %v x %v", photo.Width, photo.Height)
	}
	if repos.p.created == nil || repos.p.created.UploaderName != "Sam" {
		t.Fatalf("uploader identity not recorded: %+v", repos.p.created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestAttach_AnonymousRejected(t *testing.T) {
	gate := &fakeGate{decision: permission.Decision{CanUpload: true, Reason: permission.ReasonAllowed}}
	svc, _, _, _ := newSvc(t, gate)

	_, err := svc.Attach(context.Background(), "abc123def0", models.Viewer{}, AttachParams{StorageKey: "k", Frame: models.FrameNone})
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestAttach_DBFailureSurfacesAsAttachFailed(t *testing.T) {
	gate := &fakeGate{decision: permission.Decision{CanUpload: true, Reason: permission.ReasonAllowed}}
	svc, repos, mock, _ := newSvc(t, gate)
	repos.p.createErr = errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Attach(context.Background(), "abc123def0", userViewer(2), AttachParams{
		StorageKey: "k", Frame: models.FrameNone, Width: 200, Height: 200,
	})
	if !errors.Is(err, common.ErrAttachFailed) {
		t.Fatalf("want ErrAttachFailed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestSignGet_SuccessAndError(t *testing.T) {
	gate := &fakeGate{decision: permission.Decision{CanUpload: true, Reason: permission.ReasonAllowed}}
	svc, _, _, _ := newSvc(t, gate)

	stubPresignSeams(t, "", "http://presigned/get", nil)
	url, err := svc.SignGet(context.Background(), "walls/5/key")
	if err != nil {
		t.Fatalf("SignGet err: %v", err)
	}
	if url != "http://presigned/get" {
		t.Fatalf("unexpected URL %q", url)
	}

	stubPresignSeams(t, "", "", errors.New("presign-get-fail"))
	_, err = svc.SignGet(context.Background(), "walls/5/key")
	if err == nil || err.Error() != "presign-get-fail" {
		t.Fatalf("want presign-get-fail, got %v", err)
	}
}
