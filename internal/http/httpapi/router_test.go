package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wanderai/internal/http/handlers"
	"wanderai/internal/infra"
	"wanderai/internal/travelphoto"
	"wanderai/internal/volcengine"
)

type stubPhotos struct {
	submitErr  error
	pollErr    error
	taskID     string
	result     volcengine.PollResult
	lastSubmit travelphoto.JobRequest
	configured bool
}

func (s *stubPhotos) SubmitJob(ctx context.Context, req travelphoto.JobRequest) (string, error) {
	s.lastSubmit = req
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return s.taskID, nil
}

func (s *stubPhotos) GetJobStatus(ctx context.Context, taskID string) (volcengine.PollResult, error) {
	if s.pollErr != nil {
		return volcengine.PollResult{}, s.pollErr
	}
	res := s.result
	res.TaskID = taskID
	return res, nil
}

func (s *stubPhotos) Configured() bool { return s.configured }

func newTestRouter(photos handlers.PhotoService) http.Handler {
	return NewRouter(handlers.NewApp(photos, nil), Options{
		Logger:          *infra.NopLogger(),
		RateLimitPerMin: 100,
		DefaultLocale:   "zh",
	})
}

type response struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Detail    string `json:"detail"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

const submitPayload = `{"user_image_url":"https://cdn.example.com/u.jpg","scene_image_url":"https://cdn.example.com/s.jpg","location":"东京樱花","style":"vintage"}`

func TestGenerateTravelPhoto(t *testing.T) {
	photos := &stubPhotos{taskID: "abc123"}
	rec, out := do(t, newTestRouter(photos), http.MethodPost, "/api/generate-travel-photo", submitPayload, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !out.Success || string(out.Result) != `"abc123"` {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.Message != "照片生成任务已提交" {
		t.Fatalf("message = %q", out.Message)
	}
	if photos.lastSubmit.Location != "东京樱花" || photos.lastSubmit.Style != "vintage" {
		t.Fatalf("request not forwarded: %+v", photos.lastSubmit)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestGenerateTravelPhotoEnglishMessage(t *testing.T) {
	photos := &stubPhotos{taskID: "abc123"}
	_, out := do(t, newTestRouter(photos), http.MethodPost, "/api/generate-travel-photo", submitPayload,
		map[string]string{"Accept-Language": "en-US,en;q=0.9"})
	if out.Message != "Photo generation task submitted" {
		t.Fatalf("message = %q", out.Message)
	}
}

func TestGenerateTravelPhotoBadJSON(t *testing.T) {
	rec, out := do(t, newTestRouter(&stubPhotos{}), http.MethodPost, "/api/generate-travel-photo", `{`, nil)
	if rec.Code != http.StatusBadRequest || out.Success || out.Error == nil || out.Error.Code != "bad_request" {
		t.Fatalf("unexpected response %d %+v", rec.Code, out)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "invalid", err: fmt.Errorf("%w: location is required", travelphoto.ErrInvalidRequest), status: http.StatusBadRequest, code: "bad_request"},
		{name: "credentials", err: volcengine.ErrMissingCredentials, status: http.StatusServiceUnavailable, code: "not_configured"},
		{name: "transport", err: &volcengine.CallError{Op: "submit task", Err: errors.New("connection refused")}, status: http.StatusBadGateway, code: "upstream_unavailable"},
		{name: "timeout", err: &volcengine.CallError{Op: "submit task", Err: context.DeadlineExceeded}, status: http.StatusGatewayTimeout, code: "upstream_timeout"},
		{name: "format", err: &volcengine.FormatError{Op: "submit task", Detail: "data has no task_id (keys: none)"}, status: http.StatusBadGateway, code: "upstream_bad_response"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, out := do(t, newTestRouter(&stubPhotos{submitErr: tc.err}), http.MethodPost, "/api/generate-travel-photo", submitPayload, nil)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if out.Success || out.Error == nil || out.Error.Code != tc.code {
				t.Fatalf("unexpected response: %+v", out)
			}
			if out.Error.RequestID == "" {
				t.Fatalf("error lacks request id")
			}
		})
	}
}

func TestErrorDetailForInvalidRequest(t *testing.T) {
	photos := &stubPhotos{submitErr: fmt.Errorf("%w: location is required", travelphoto.ErrInvalidRequest)}
	_, out := do(t, newTestRouter(photos), http.MethodPost, "/api/generate-travel-photo", submitPayload, nil)
	if out.Error.Detail != "location is required" {
		t.Fatalf("detail = %q", out.Error.Detail)
	}
}

func TestTaskStatusDone(t *testing.T) {
	photos := &stubPhotos{result: volcengine.PollResult{Status: "done", ImageURL: "http://x/1.png"}}
	rec, out := do(t, newTestRouter(photos), http.MethodGet, "/api/task-status/abc123", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if string(out.Result) != `"http://x/1.png"` {
		t.Fatalf("result = %s", out.Result)
	}
	if out.Message != "查询成功" {
		t.Fatalf("message = %q", out.Message)
	}
}

func TestTaskStatusPending(t *testing.T) {
	photos := &stubPhotos{result: volcengine.PollResult{Status: "running"}}
	_, out := do(t, newTestRouter(photos), http.MethodGet, "/api/task-status/abc123", "", nil)
	var status struct {
		TaskID string `json:"task_id"`
		Status string `json:"status"`
		Failed bool   `json:"failed"`
	}
	if err := json.Unmarshal(out.Result, &status); err != nil {
		t.Fatalf("decode result %s: %v", out.Result, err)
	}
	if status.TaskID != "abc123" || status.Status != "running" || status.Failed {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestTaskStatusFailedTerminal(t *testing.T) {
	photos := &stubPhotos{result: volcengine.PollResult{Status: "expired"}}
	_, out := do(t, newTestRouter(photos), http.MethodGet, "/api/task-status/abc123", "", nil)
	if !strings.Contains(string(out.Result), `"failed":true`) {
		t.Fatalf("expected failed flag: %s", out.Result)
	}
}

func TestHealthAndRoot(t *testing.T) {
	h := newTestRouter(&stubPhotos{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var health map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "ok" || health["upstream_configured"] != true {
		t.Fatalf("unexpected health: %v", health)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Locale", "en")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "Welcome to WanderAI Backend API") {
		t.Fatalf("unexpected root body: %s", rec.Body.String())
	}
}

func TestGenerateIsRateLimited(t *testing.T) {
	h := NewRouter(handlers.NewApp(&stubPhotos{taskID: "t"}, nil), Options{
		Logger:          *infra.NopLogger(),
		RateLimitPerMin: 1,
	})
	en := map[string]string{"Accept-Language": "en-US"}
	first, _ := do(t, h, http.MethodPost, "/api/generate-travel-photo", submitPayload, en)
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	rec, out := do(t, h, http.MethodPost, "/api/generate-travel-photo", submitPayload, en)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
	if out.Success || out.Error == nil || out.Error.Code != "rate_limited" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if out.Error.Message != "Too many requests, please retry later" || out.Error.RequestID == "" {
		t.Fatalf("unexpected error %+v", *out.Error)
	}
}
