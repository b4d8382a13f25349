// Package travelphoto composes prompts and drives the upstream generation API
// on behalf of the HTTP layer. It keeps no job state; the task id returned by
// SubmitJob is the only handle.
package travelphoto

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"wanderai/internal/imagegen"
	"wanderai/internal/infra"
	"wanderai/internal/volcengine"
)

// ErrInvalidRequest marks caller input problems.
var ErrInvalidRequest = errors.New("travelphoto: invalid request")

// Upstream is the generation backend. *volcengine.Client satisfies it.
type Upstream interface {
	SubmitTask(ctx context.Context, req volcengine.SubmitRequest) (string, error)
	GetResult(ctx context.Context, taskID string) (volcengine.PollResult, error)
	HasCredentials() bool
}

// JobRequest is a travel-photo generation request.
type JobRequest struct {
	UserImageURL  string `json:"user_image_url"`
	SceneImageURL string `json:"scene_image_url"`
	Location      string `json:"location"`
	Style         string `json:"style,omitempty"`
	Quality       string `json:"quality,omitempty"`
	TimeOfDay     string `json:"time_of_day,omitempty"`
	Weather       string `json:"weather,omitempty"`
}

// Validate checks required fields and URL shape.
func (r JobRequest) Validate() error {
	if err := validateImageURL("user_image_url", r.UserImageURL); err != nil {
		return err
	}
	if err := validateImageURL("scene_image_url", r.SceneImageURL); err != nil {
		return err
	}
	if strings.TrimSpace(r.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidRequest)
	}
	return nil
}

// Advanced reports whether a time-of-day or weather hint was requested.
func (r JobRequest) Advanced() bool {
	return imagegen.NormalizeTimeOfDay(r.TimeOfDay) != imagegen.TimeAuto ||
		imagegen.NormalizeWeather(r.Weather) != imagegen.WeatherAuto
}

// Prompt renders the generation instruction. The plain template is used unless
// the request asks for a specific time of day or weather.
func (r JobRequest) Prompt() string {
	location := strings.TrimSpace(r.Location)
	if r.Advanced() {
		return imagegen.BuildAdvancedPrompt(imagegen.PromptSpec{
			Location:  location,
			Style:     r.Style,
			Quality:   r.Quality,
			TimeOfDay: r.TimeOfDay,
			Weather:   r.Weather,
		})
	}
	return imagegen.BuildPrompt(location, r.Style, r.Quality)
}

func validateImageURL(field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) url", ErrInvalidRequest, field)
	}
	return nil
}

// Service exposes SubmitJob and GetJobStatus.
type Service struct {
	upstream Upstream
	logger   *infra.Logger
}

// NewService wires the upstream client. A nil logger discards output.
func NewService(upstream Upstream, logger *infra.Logger) *Service {
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Service{upstream: upstream, logger: logger}
}

// Configured reports whether upstream credentials are present.
func (s *Service) Configured() bool {
	return s.upstream != nil && s.upstream.HasCredentials()
}

// SubmitJob validates the request, renders the prompt and submits the task.
func (s *Service) SubmitJob(ctx context.Context, req JobRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	taskID, err := s.upstream.SubmitTask(ctx, volcengine.SubmitRequest{
		UserImageURL:  strings.TrimSpace(req.UserImageURL),
		SceneImageURL: strings.TrimSpace(req.SceneImageURL),
		Prompt:        req.Prompt(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("location", req.Location).Msg("travelphoto: submit failed")
		return "", err
	}
	s.logger.Info().
		Str("task_id", taskID).
		Str("location", req.Location).
		Str("style", string(imagegen.NormalizeStyle(req.Style))).
		Str("quality", string(imagegen.NormalizeQuality(req.Quality))).
		Bool("advanced", req.Advanced()).
		Msg("travelphoto: job submitted")
	return taskID, nil
}

// GetJobStatus polls the task once.
func (s *Service) GetJobStatus(ctx context.Context, taskID string) (volcengine.PollResult, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return volcengine.PollResult{}, fmt.Errorf("%w: task_id is required", ErrInvalidRequest)
	}
	res, err := s.upstream.GetResult(ctx, taskID)
	if err != nil {
		s.logger.Warn().Err(err).Str("task_id", taskID).Msg("travelphoto: status query failed")
		return volcengine.PollResult{}, err
	}
	evt := s.logger.Debug()
	if res.Failed() {
		evt = s.logger.Warn()
	}
	evt.Str("task_id", taskID).Str("status", res.Status).Bool("done", res.Done()).Msg("travelphoto: job polled")
	return res, nil
}
