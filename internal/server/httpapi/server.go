// Package httpapi exposes the birthday wall operations over a JSON HTTP
// API. Handlers translate between transport concerns and the domain
// services; all policy lives in the services.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/logging"
	sc "github.com/fidateq-hbm/happy-birthday-mate/internal/server/config"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/permission"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/reactions"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/uploads"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/walls"
)

// WallService is the wall lifecycle and view surface consumed by the API.
type WallService interface {
	GetOrCreate(ctx context.Context, ownerID int64, params walls.CreateParams) (*models.Wall, bool, error)
	GetByCode(ctx context.Context, code string) (*models.Wall, error)
	GetOwn(ctx context.Context, ownerID int64) (*models.Wall, error)
	Seal(ctx context.Context, wallID int64, viewer models.Viewer) error
	SetUploadControls(ctx context.Context, wallID int64, viewer models.Viewer, c walls.UploadControls) (*models.Wall, error)
	UploadStatus(ctx context.Context, wall *models.Wall, viewer models.Viewer) (permission.Decision, error)
	View(ctx context.Context, code string, viewer models.Viewer) (*walls.View, error)
	UpdatePhoto(ctx context.Context, photoID int64, viewer models.Viewer, caption string, frame models.FrameStyle) (*models.Photo, error)
	DeletePhoto(ctx context.Context, photoID int64, viewer models.Viewer) error
	Invite(ctx context.Context, wallID int64, viewer models.Viewer, inv *models.Invitation) (*models.Invitation, error)
	AcceptInvitation(ctx context.Context, id int64) (*models.Invitation, error)
}

// CanvasService is the photo transform surface consumed by the API.
type CanvasService interface {
	Move(ctx context.Context, photoID int64, viewer models.Viewer, x, y float64) (*models.Photo, error)
	Rotate(ctx context.Context, photoID int64, viewer models.Viewer, degrees float64) (*models.Photo, error)
	Resize(ctx context.Context, photoID int64, viewer models.Viewer, width, height float64) (*models.Photo, error)
	BringToFront(ctx context.Context, photoID int64, viewer models.Viewer) (*models.Photo, error)
}

// ReactionService toggles emoji reactions.
type ReactionService interface {
	Toggle(ctx context.Context, photoID, userID int64, emoji string) (*reactions.Result, error)
}

// UploadService is the two-step photo upload surface.
type UploadService interface {
	Presign(ctx context.Context, wallCode string, viewer models.Viewer, contentType string, sizeBytes int64) (*uploads.PresignResult, error)
	Attach(ctx context.Context, wallCode string, viewer models.Viewer, params uploads.AttachParams) (*models.Photo, error)
}

type Server struct {
	walls     WallService
	canvas    CanvasService
	reactions ReactionService
	uploads   UploadService
	config    *sc.Config
	logger    logging.Logger
	registry  *prometheus.Registry
	metrics   *Metrics
}

func NewServer(w WallService, c CanvasService, r ReactionService, u UploadService, config *sc.Config, logger logging.Logger, reg *prometheus.Registry) *Server {
	return &Server{
		walls:     w,
		canvas:    c,
		reactions: r,
		uploads:   u,
		config:    config,
		logger:    logger.With("module", "httpapi"),
		registry:  reg,
		metrics:   NewMetrics(reg),
	}
}

// Router builds the full route table with middleware applied.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware(s.logger))
	api.Use(metricsMiddleware(s.metrics))
	api.Use(s.authMiddleware)

	api.HandleFunc("/walls", s.handleCreateWall).Methods(http.MethodPost)
	api.HandleFunc("/walls/mine", s.handleGetOwnWall).Methods(http.MethodGet)
	api.HandleFunc("/walls/{code}", s.handleGetWall).Methods(http.MethodGet)
	api.HandleFunc("/walls/{code}/seal", s.handleSealWall).Methods(http.MethodPost)
	api.HandleFunc("/walls/{code}/upload-controls", s.handleUploadControls).Methods(http.MethodPatch)
	api.HandleFunc("/walls/{code}/upload-status", s.handleUploadStatus).Methods(http.MethodGet)
	api.HandleFunc("/walls/{code}/photos/presign", s.handlePresign).Methods(http.MethodPost)
	api.HandleFunc("/walls/{code}/photos", s.handleAttach).Methods(http.MethodPost)

	api.HandleFunc("/photos/{id}", s.handleUpdatePhoto).Methods(http.MethodPatch)
	api.HandleFunc("/photos/{id}", s.handleDeletePhoto).Methods(http.MethodDelete)
	api.HandleFunc("/photos/{id}/position", s.handlePosition).Methods(http.MethodPatch)
	api.HandleFunc("/photos/{id}/layer/front", s.handleBringToFront).Methods(http.MethodPost)
	api.HandleFunc("/photos/{id}/reactions", s.handleToggleReaction).Methods(http.MethodPost)

	api.HandleFunc("/invitations", s.handleInvite).Methods(http.MethodPost)
	api.HandleFunc("/invitations/{id}/accept", s.handleAcceptInvitation).Methods(http.MethodPost)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
