package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"wanderai/internal/travelphoto"
	"wanderai/internal/volcengine"
)

const maxRequestBody = 1 << 20

type travelPhotoRequest struct {
	UserImageURL  string `json:"user_image_url"`
	SceneImageURL string `json:"scene_image_url"`
	Location      string `json:"location"`
	Style         string `json:"style"`
	Quality       string `json:"quality"`
	TimeOfDay     string `json:"time_of_day"`
	Weather       string `json:"weather"`
}

type taskStatus struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Failed bool   `json:"failed,omitempty"`
}

// GenerateTravelPhoto submits a generation job and returns its task id.
func (a *App) GenerateTravelPhoto(w http.ResponseWriter, r *http.Request) {
	var req travelPhotoRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", "invalid JSON payload")
		return
	}
	taskID, err := a.Photos.SubmitJob(r.Context(), travelphoto.JobRequest{
		UserImageURL:  req.UserImageURL,
		SceneImageURL: req.SceneImageURL,
		Location:      req.Location,
		Style:         req.Style,
		Quality:       req.Quality,
		TimeOfDay:     req.TimeOfDay,
		Weather:       req.Weather,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, r, taskID, "submitted")
}

// TaskStatus polls a job once. The result is the image URL when finished,
// otherwise the task id and upstream status.
func (a *App) TaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimSpace(chi.URLParam(r, "task_id"))
	if taskID == "" {
		a.error(w, r, http.StatusBadRequest, "bad_request", "task_id required")
		return
	}
	res, err := a.Photos.GetJobStatus(r.Context(), taskID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if res.Done() {
		a.ok(w, r, res.ImageURL, "queried")
		return
	}
	a.ok(w, r, taskStatus{TaskID: res.TaskID, Status: res.Status, Failed: res.Failed()}, "queried")
}

// fail maps core errors onto HTTP responses. Upstream transport details stay in
// the logs; format problems are safe to echo.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var formatErr *volcengine.FormatError
	switch {
	case errors.Is(err, travelphoto.ErrInvalidRequest):
		a.error(w, r, http.StatusBadRequest, "bad_request", strings.TrimPrefix(err.Error(), travelphoto.ErrInvalidRequest.Error()+": "))
	case errors.Is(err, volcengine.ErrMissingCredentials):
		a.error(w, r, http.StatusServiceUnavailable, "not_configured", "")
	case errors.Is(err, volcengine.ErrUpstreamCall) && errors.Is(err, context.DeadlineExceeded):
		a.error(w, r, http.StatusGatewayTimeout, "upstream_timeout", "")
	case errors.Is(err, volcengine.ErrUpstreamCall):
		a.error(w, r, http.StatusBadGateway, "upstream_unavailable", "")
	case errors.As(err, &formatErr):
		a.error(w, r, http.StatusBadGateway, "upstream_bad_response", formatErr.Detail)
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		a.error(w, r, http.StatusInternalServerError, "internal", "")
	}
}
