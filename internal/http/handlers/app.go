package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"wanderai/internal/infra"
	"wanderai/internal/middleware"
	"wanderai/internal/travelphoto"
	"wanderai/internal/volcengine"
)

// PhotoService is the travel-photo core as seen by the HTTP layer.
type PhotoService interface {
	SubmitJob(ctx context.Context, req travelphoto.JobRequest) (string, error)
	GetJobStatus(ctx context.Context, taskID string) (volcengine.PollResult, error)
	Configured() bool
}

// App carries handler dependencies.
type App struct {
	Photos PhotoService
	Logger *infra.Logger
}

func NewApp(photos PhotoService, logger *infra.Logger) *App {
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &App{Photos: photos, Logger: logger}
}

type envelope struct {
	Success bool      `json:"success"`
	Result  any       `json:"result,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) ok(w http.ResponseWriter, r *http.Request, result any, msgKey string) {
	a.json(w, http.StatusOK, envelope{
		Success: true,
		Result:  result,
		Message: localize(middleware.LocaleFromContext(r.Context()), msgKey),
	})
}

func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	a.json(w, status, envelope{
		Error: &apiError{
			Code:      code,
			Message:   localize(middleware.LocaleFromContext(r.Context()), code),
			Detail:    detail,
			RequestID: middleware.RequestIDFromContext(r.Context()),
		},
	})
}
