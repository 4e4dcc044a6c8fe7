// Package uploads handles the photo binary path: presigned PUT URLs for
// direct-to-storage uploads, attaching uploaded binaries as wall photos,
// and presigned GET URLs for the read path.
package uploads

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/logging"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/canvas"
	sc "github.com/fidateq-hbm/happy-birthday-mate/internal/server/config"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/permission"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Gate decides whether a viewer may add a photo to a wall right now.
// Implemented by the walls service.
type Gate interface {
	UploadStatus(ctx context.Context, wall *models.Wall, viewer models.Viewer) (permission.Decision, error)
}

// DeniedError carries the specific denial reason so the transport layer can
// surface it to the client alongside the 403.
type DeniedError struct {
	Reason permission.Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("upload denied: %s", e.Reason)
}

func (e *DeniedError) Unwrap() error { return common.ErrPermissionDenied }

type Service struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	config *sc.Config
	gate   Gate
	logger logging.Logger
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, config *sc.Config, gate Gate, logger logging.Logger) *Service {
	return &Service{
		db:     db,
		repos:  repos,
		config: config,
		gate:   gate,
		logger: logger.With("module", "uploads"),
	}
}

// RandomStorageKey generates a unique object key, sharded by upload date.
func RandomStorageKey(wallID int64) string {
	d := time.Now()
	return fmt.Sprintf("walls/%d/%d/%d/%d/%v", wallID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Service) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// PresignResult is what the client needs to upload one binary: the storage
// key to quote back in Attach, and the one-shot PUT URL.
type PresignResult struct {
	StorageKey string
	URL        string
}

// Presign validates the proposed upload and mints a presigned PUT URL for
// it. The permission gate runs here so a viewer who may not upload never
// receives a URL.
func (s *Service) Presign(ctx context.Context, wallCode string, viewer models.Viewer, contentType string, sizeBytes int64) (*PresignResult, error) {
	if sizeBytes <= 0 || sizeBytes > common.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file size %d exceeds limit %d", common.ErrValidation, sizeBytes, common.MaxUploadBytes)
	}
	if !common.IsAcceptedImageType(contentType) {
		return nil, fmt.Errorf("%w: unsupported content type %q", common.ErrValidation, contentType)
	}

	wall, err := s.repos.Walls(s.db).GetByShareCode(ctx, wallCode)
	if err != nil {
		return nil, err
	}

	decision, err := s.gate.UploadStatus(ctx, wall, viewer)
	if err != nil {
		return nil, err
	}
	if !decision.CanUpload {
		return nil, &DeniedError{Reason: decision.Reason}
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := RandomStorageKey(wall.ID)

	// Presigned PUT
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(s.config.PresignValidityDuration))
	if err != nil {
		return nil, err
	}

	return &PresignResult{StorageKey: key, URL: req.URL}, nil
}

// AttachParams describes the uploaded binary to be placed on the wall.
type AttachParams struct {
	StorageKey string
	Caption    string
	Frame      models.FrameStyle
	PosX       float64
	PosY       float64
	Width      float64
	Height     float64
}

// Attach records an uploaded binary as a photo on the wall. The permission
// gate is re-evaluated because the window may have moved between presign
// and upload completion. A storage upload that succeeded but cannot be
// recorded surfaces as common.ErrAttachFailed.
func (s *Service) Attach(ctx context.Context, wallCode string, viewer models.Viewer, params AttachParams) (*models.Photo, error) {
	if viewer.Anonymous() {
		return nil, common.ErrUnauthorized
	}
	if params.StorageKey == "" {
		return nil, fmt.Errorf("%w: storage key is required", common.ErrValidation)
	}
	if !params.Frame.Valid() {
		return nil, fmt.Errorf("%w: unknown frame style %q", common.ErrValidation, params.Frame)
	}

	wall, err := s.repos.Walls(s.db).GetByShareCode(ctx, wallCode)
	if err != nil {
		return nil, err
	}

	decision, err := s.gate.UploadStatus(ctx, wall, viewer)
	if err != nil {
		return nil, err
	}
	if !decision.CanUpload {
		return nil, &DeniedError{Reason: decision.Reason}
	}

	width := canvas.ClampSize(params.Width)
	height := canvas.ClampSize(params.Height)

	photo := &models.Photo{
		WallID:       wall.ID,
		StorageKey:   params.StorageKey,
		Caption:      params.Caption,
		Frame:        params.Frame,
		UploaderName: viewer.Name,
		UploaderID:   viewer.UserID,
		InvitationID: viewer.InvitationID,
		PosX:         params.PosX,
		PosY:         params.PosY,
		Rotation:     0,
		Scale:        1,
		Width:        width,
		Height:       height,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		z, err := s.repos.Walls(tx).NextZ(ctx, wall.ID)
		if err != nil {
			return err
		}
		photo.ZIndex = z

		created, err := s.repos.Photos(tx).Create(ctx, photo)
		if err != nil {
			return err
		}
		photo = created
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "recording uploaded photo failed", "wall_id", wall.ID, "storage_key", params.StorageKey, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrAttachFailed, err)
	}

	return photo, nil
}

// SignGet mints a presigned GET URL for a stored photo binary. Implements
// the walls view assembler's URL signer.
func (s *Service) SignGet(ctx context.Context, storageKey string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	// Presigned GET
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &storageKey,
	}, s3.WithPresignExpires(s.config.PresignValidityDuration))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
