package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/auth"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/lifecycle"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/uploads"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/walls"
)

var timeNow = time.Now

// requireUser resolves the viewer and insists on a platform user identity.
// Guests and anonymous viewers receive a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, models.Viewer, bool) {
	viewer := ViewerFromContext(r.Context())
	if viewer.UserID == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return 0, viewer, false
	}
	return *viewer.UserID, viewer, true
}

// requireIdentity insists on any identity, user or accepted guest.
func requireIdentity(w http.ResponseWriter, r *http.Request) (models.Viewer, bool) {
	viewer := ViewerFromContext(r.Context())
	if viewer.Anonymous() {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return viewer, false
	}
	return viewer, true
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// wallResponse is the wall-metadata payload for write endpoints. Read
// endpoints return the full assembled view instead.
type wallResponse struct {
	ID               int64                     `json:"id"`
	ShareCode        string                    `json:"share_code"`
	Title            string                    `json:"title"`
	Theme            string                    `json:"theme"`
	AccentColor      string                    `json:"accent_color"`
	BackgroundAnim   string                    `json:"background_anim"`
	BackgroundColor  string                    `json:"background_color"`
	Intensity        models.AnimationIntensity `json:"intensity"`
	BirthdayAt       string                    `json:"birthday_at"`
	State            lifecycle.State           `json:"state"`
	IsOpen           bool                      `json:"is_open"`
	IsSealed         bool                      `json:"is_sealed"`
	IsArchived       bool                      `json:"is_archived"`
	UploadsEnabled   bool                      `json:"uploads_enabled"`
	UploadPaused     bool                      `json:"upload_paused"`
	UploadPermission models.UploadPermission   `json:"upload_permission"`
	Created          bool                      `json:"created,omitempty"`
}

func toWallResponse(wall *models.Wall, created bool) wallResponse {
	return wallResponse{
		ID:               wall.ID,
		ShareCode:        wall.ShareCode,
		Title:            wall.Title,
		Theme:            wall.Theme,
		AccentColor:      wall.AccentColor,
		BackgroundAnim:   wall.BackgroundAnim,
		BackgroundColor:  wall.BackgroundColor,
		Intensity:        wall.Intensity,
		BirthdayAt:       wall.BirthdayAt.Format(time.RFC3339),
		State:            lifecycle.StateOf(wall, timeNow()),
		IsOpen:           wall.IsOpen,
		IsSealed:         wall.IsSealed,
		IsArchived:       wall.IsArchived,
		UploadsEnabled:   wall.UploadsEnabled,
		UploadPaused:     wall.UploadPaused,
		UploadPermission: wall.UploadPermission,
		Created:          created,
	}
}

type createWallRequest struct {
	Title            string                    `json:"title"`
	Theme            string                    `json:"theme"`
	AccentColor      string                    `json:"accent_color"`
	BackgroundAnim   string                    `json:"background_anim"`
	BackgroundColor  string                    `json:"background_color"`
	Intensity        models.AnimationIntensity `json:"intensity"`
	UploadPermission models.UploadPermission   `json:"upload_permission"`
}

// handleCreateWall is get-or-create: a repeated request while a live wall
// exists returns that wall with 200 instead of failing.
func (s *Server) handleCreateWall(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createWallRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wall, created, err := s.walls.GetOrCreate(r.Context(), userID, walls.CreateParams{
		Title:            req.Title,
		Theme:            req.Theme,
		AccentColor:      req.AccentColor,
		BackgroundAnim:   req.BackgroundAnim,
		BackgroundColor:  req.BackgroundColor,
		Intensity:        req.Intensity,
		UploadPermission: req.UploadPermission,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toWallResponse(wall, created))
}

func (s *Server) handleGetOwnWall(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	wall, err := s.walls.GetOwn(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWallResponse(wall, false))
}

// handleGetWall returns the fully assembled view for anyone holding the
// share link; identity only refines upload status and reaction membership.
func (s *Server) handleGetWall(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerFromContext(r.Context())
	code := mux.Vars(r)["code"]

	view, err := s.walls.View(r.Context(), code, viewer)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSealWall(w http.ResponseWriter, r *http.Request) {
	_, viewer, ok := requireUser(w, r)
	if !ok {
		return
	}

	wall, err := s.walls.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.walls.Seal(r.Context(), wall.ID, viewer); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadControlsRequest struct {
	IsOpen           bool                    `json:"is_open"`
	UploadsEnabled   bool                    `json:"uploads_enabled"`
	UploadPaused     bool                    `json:"upload_paused"`
	UploadPermission models.UploadPermission `json:"upload_permission"`
}

func (s *Server) handleUploadControls(w http.ResponseWriter, r *http.Request) {
	_, viewer, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req uploadControlsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wall, err := s.walls.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.walls.SetUploadControls(r.Context(), wall.ID, viewer, walls.UploadControls{
		IsOpen:           req.IsOpen,
		UploadsEnabled:   req.UploadsEnabled,
		UploadPaused:     req.UploadPaused,
		UploadPermission: req.UploadPermission,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWallResponse(updated, false))
}

func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerFromContext(r.Context())

	wall, err := s.walls.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	decision, err := s.walls.UploadStatus(r.Context(), wall, viewer)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, walls.UploadStatus{CanUpload: decision.CanUpload, Reason: decision.Reason})
}

type presignRequest struct {
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

type presignResponse struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

func (s *Server) handlePresign(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req presignRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.uploads.Presign(r.Context(), mux.Vars(r)["code"], viewer, req.ContentType, req.SizeBytes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presignResponse{StorageKey: res.StorageKey, URL: res.URL})
}

type attachRequest struct {
	StorageKey string            `json:"storage_key"`
	Caption    string            `json:"caption"`
	Frame      models.FrameStyle `json:"frame"`
	PosX       float64           `json:"pos_x"`
	PosY       float64           `json:"pos_y"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
}

func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req attachRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	photo, err := s.uploads.Attach(r.Context(), mux.Vars(r)["code"], viewer, uploads.AttachParams{
		StorageKey: req.StorageKey,
		Caption:    req.Caption,
		Frame:      req.Frame,
		PosX:       req.PosX,
		PosY:       req.PosY,
		Width:      req.Width,
		Height:     req.Height,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPhotoResponse(photo))
}

// photoResponse is the canonical photo payload for write endpoints.
type photoResponse struct {
	ID           int64             `json:"id"`
	WallID       int64             `json:"wall_id"`
	Caption      string            `json:"caption"`
	Frame        models.FrameStyle `json:"frame"`
	UploaderName string            `json:"uploader_name"`
	PosX         float64           `json:"pos_x"`
	PosY         float64           `json:"pos_y"`
	Rotation     float64           `json:"rotation"`
	Scale        float64           `json:"scale"`
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	ZIndex       int64             `json:"z_index"`
}

func toPhotoResponse(p *models.Photo) photoResponse {
	return photoResponse{
		ID:           p.ID,
		WallID:       p.WallID,
		Caption:      p.Caption,
		Frame:        p.Frame,
		UploaderName: p.UploaderName,
		PosX:         p.PosX,
		PosY:         p.PosY,
		Rotation:     p.Rotation,
		Scale:        p.Scale,
		Width:        p.Width,
		Height:       p.Height,
		ZIndex:       p.ZIndex,
	}
}

type updatePhotoRequest struct {
	Caption string            `json:"caption"`
	Frame   models.FrameStyle `json:"frame"`
}

func (s *Server) handleUpdatePhoto(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	var req updatePhotoRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	photo, err := s.walls.UpdatePhoto(r.Context(), id, viewer, req.Caption, req.Frame)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPhotoResponse(photo))
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	if err := s.walls.DeletePhoto(r.Context(), id, viewer); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// positionRequest applies one canvas gesture. Exactly one gesture kind is
// expected per call; multiple set fields apply move, then rotate, then
// resize in that order.
type positionRequest struct {
	PosX     *float64 `json:"pos_x,omitempty"`
	PosY     *float64 `json:"pos_y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	var req positionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var photo *models.Photo
	var err error
	switch {
	case req.PosX != nil && req.PosY != nil:
		photo, err = s.canvas.Move(r.Context(), id, viewer, *req.PosX, *req.PosY)
	case req.Rotation != nil:
		photo, err = s.canvas.Rotate(r.Context(), id, viewer, *req.Rotation)
	case req.Width != nil && req.Height != nil:
		photo, err = s.canvas.Resize(r.Context(), id, viewer, *req.Width, *req.Height)
	default:
		writeError(w, http.StatusBadRequest, "no gesture in request")
		return
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPhotoResponse(photo))
}

func (s *Server) handleBringToFront(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	photo, err := s.canvas.BringToFront(r.Context(), id, viewer)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPhotoResponse(photo))
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

func (s *Server) handleToggleReaction(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	var req reactionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.reactions.Toggle(r.Context(), id, userID, req.Emoji)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type inviteRequest struct {
	WallCode      string                `json:"wall_code"`
	Type          models.InvitationType `json:"type"`
	InvitedUserID *int64                `json:"invited_user_id,omitempty"`
	InvitedEmail  string                `json:"invited_email,omitempty"`
	InvitedName   string                `json:"invited_name,omitempty"`
}

type inviteResponse struct {
	ID       int64                 `json:"id"`
	WallID   int64                 `json:"wall_id"`
	Type     models.InvitationType `json:"type"`
	Accepted bool                  `json:"accepted"`
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	_, viewer, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req inviteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wall, err := s.walls.GetByCode(r.Context(), req.WallCode)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	inv, err := s.walls.Invite(r.Context(), wall.ID, viewer, &models.Invitation{
		Type:          req.Type,
		InvitedUserID: req.InvitedUserID,
		InvitedEmail:  req.InvitedEmail,
		InvitedName:   req.InvitedName,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inviteResponse{ID: inv.ID, WallID: inv.WallID, Type: inv.Type, Accepted: inv.Accepted})
}

type acceptResponse struct {
	ID     int64  `json:"id"`
	WallID int64  `json:"wall_id"`
	Token  string `json:"token,omitempty"`
}

// handleAcceptInvitation consumes an invitation. Guest invitations receive
// a guest bearer token so the holder can upload without a platform account.
func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid invitation id")
		return
	}

	inv, err := s.walls.AcceptInvitation(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := acceptResponse{ID: inv.ID, WallID: inv.WallID}
	if inv.Type == models.InviteGuest {
		token, err := auth.GenerateGuestToken(inv.ID, inv.InvitedName, []byte(s.config.SecretKey), s.config.TokenValidityDuration)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		resp.Token = token
	}
	writeJSON(w, http.StatusOK, resp)
}
