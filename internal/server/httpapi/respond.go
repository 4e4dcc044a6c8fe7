package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/uploads"
)

// errorBody is the uniform error payload. Reason is only set for upload
// permission denials, where the client renders a specific explanation.
type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// readJSON decodes the request body into v, rejecting unknown fields.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respondError maps a service error onto an HTTP status. Expected outcomes
// such as permission denials and immutability conflicts are logged at info
// at most; only unclassified failures reach the error log.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var denied *uploads.DeniedError
	switch {
	case errors.As(err, &denied):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "upload not permitted", Reason: string(denied.Reason)})
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, common.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, common.ErrWallImmutable):
		writeError(w, http.StatusConflict, "wall is sealed or archived")
	case errors.Is(err, common.ErrOutOfWindow):
		writeError(w, http.StatusUnprocessableEntity, "outside the creation window")
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrAttachFailed):
		writeError(w, http.StatusBadGateway, "photo stored but could not be attached")
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
