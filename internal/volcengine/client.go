package volcengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"wanderai/internal/infra"
)

const (
	DefaultEndpoint = "https://visual.volcengineapi.com"
	DefaultRegion   = "cn-north-1"
	DefaultService  = "cv"
	DefaultReqKey   = "jimeng_t2i_v40"

	apiVersion   = "2022-08-31"
	actionSubmit = "CVSync2AsyncSubmitTask"
	actionResult = "CVSync2AsyncGetResult"

	// The result query expects req_json as an encoded string, unlike submit.
	resultReqJSON = `{"return_url": true}`

	maxResponseBytes = 4 << 20
)

// Options configures the Volcengine visual API client.
type Options struct {
	AccessKey      string
	SecretKey      string
	Region         string
	Endpoint       string
	Service        string
	ReqKey         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	// Now overrides the signing clock; tests pin it.
	Now func() time.Time
}

// Client calls the asynchronous CV task API. It holds only immutable
// configuration and is safe for concurrent use.
type Client struct {
	creds      Credentials
	endpoint   *url.URL
	region     string
	service    string
	reqKey     string
	httpClient *http.Client
	logger     *infra.Logger
	now        func() time.Time
}

// SubmitRequest carries the inputs of one generation job.
type SubmitRequest struct {
	UserImageURL  string
	SceneImageURL string
	Prompt        string
}

type submitBody struct {
	ReqKey         string        `json:"req_key"`
	Prompt         string        `json:"prompt"`
	ImageURLs      []string      `json:"image_urls"`
	ReqJSON        submitReqJSON `json:"req_json"`
	ResponseFormat string        `json:"response_format"`
}

type submitReqJSON struct {
	ReturnURL bool `json:"return_url"`
}

type resultBody struct {
	ReqKey  string `json:"req_key"`
	TaskID  string `json:"task_id"`
	ReqJSON string `json:"req_json"`
}

type resultData struct {
	Status    *string  `json:"status"`
	ImageURLs []string `json:"image_urls"`
}

// NewClient constructs a client with defaults applied. Missing credentials are
// not a construction error; every call reports ErrMissingCredentials instead.
func NewClient(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if raw == "" {
		raw = DefaultEndpoint
	}
	endpoint, err := url.Parse(raw)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("volcengine: invalid endpoint %q", opts.Endpoint)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		creds:      Credentials{AccessKey: strings.TrimSpace(opts.AccessKey), SecretKey: strings.TrimSpace(opts.SecretKey)},
		endpoint:   endpoint,
		region:     orDefault(opts.Region, DefaultRegion),
		service:    orDefault(opts.Service, DefaultService),
		reqKey:     orDefault(opts.ReqKey, DefaultReqKey),
		httpClient: httpClient,
		logger:     logger,
		now:        now,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.creds.Validate() == nil
}

// SubmitTask creates an asynchronous generation job and returns its task id.
func (c *Client) SubmitTask(ctx context.Context, req SubmitRequest) (string, error) {
	const op = "submit task"
	if err := c.creds.Validate(); err != nil {
		return "", err
	}
	body := submitBody{
		ReqKey:         c.reqKey,
		Prompt:         req.Prompt,
		ImageURLs:      []string{req.UserImageURL, req.SceneImageURL},
		ReqJSON:        submitReqJSON{ReturnURL: true},
		ResponseFormat: "url",
	}
	data, status, err := c.call(ctx, op, actionSubmit, body)
	if err != nil {
		return "", err
	}
	fields, err := decodeObject(data)
	if err != nil {
		return "", &FormatError{Op: op, StatusCode: status, Detail: "data is not an object"}
	}
	rawID, ok := fields["task_id"]
	if !ok {
		return "", &FormatError{Op: op, StatusCode: status, Detail: "data has no task_id (keys: " + keyList(fields) + ")"}
	}
	var taskID string
	if err := json.Unmarshal(rawID, &taskID); err != nil || taskID == "" {
		return "", &FormatError{Op: op, StatusCode: status, Detail: "data.task_id is not a non-empty string"}
	}
	c.logger.Info().Str("task_id", taskID).Msg("volcengine: task submitted")
	return taskID, nil
}

// GetResult queries a task once. It returns either the first image URL or the
// current status; re-polling is the caller's decision.
func (c *Client) GetResult(ctx context.Context, taskID string) (PollResult, error) {
	const op = "get result"
	if err := c.creds.Validate(); err != nil {
		return PollResult{}, err
	}
	body := resultBody{ReqKey: c.reqKey, TaskID: taskID, ReqJSON: resultReqJSON}
	data, status, err := c.call(ctx, op, actionResult, body)
	if err != nil {
		return PollResult{}, err
	}
	var decoded resultData
	if err := json.Unmarshal(data, &decoded); err != nil {
		return PollResult{}, &FormatError{Op: op, StatusCode: status, Detail: "data does not match the result schema"}
	}
	result, detail := interpretResult(taskID, decoded)
	if detail != "" {
		fields, _ := decodeObject(data)
		return PollResult{}, &FormatError{Op: op, StatusCode: status, Detail: detail + " (keys: " + keyList(fields) + ")"}
	}
	c.logger.Debug().
		Str("task_id", taskID).
		Str("status", result.Status).
		Bool("done", result.Done()).
		Msg("volcengine: task polled")
	return result, nil
}

// interpretResult applies the response decision tree in order:
// done with URLs, any status, URLs without status, otherwise unusable.
// A blank status counts as absent and a blank first URL is never returned;
// a non-empty detail describes why the data is unusable.
func interpretResult(taskID string, data resultData) (PollResult, string) {
	status := ""
	if data.Status != nil {
		status = strings.TrimSpace(*data.Status)
	}
	hasURLs := len(data.ImageURLs) > 0
	firstURL := ""
	if hasURLs {
		firstURL = strings.TrimSpace(data.ImageURLs[0])
	}
	switch {
	case status == StatusDone && hasURLs:
		if firstURL == "" {
			return PollResult{}, "data.image_urls[0] is empty"
		}
		return PollResult{TaskID: taskID, Status: StatusDone, ImageURL: firstURL}, ""
	case status != "":
		return PollResult{TaskID: taskID, Status: status}, ""
	case hasURLs:
		if firstURL == "" {
			return PollResult{}, "data.image_urls[0] is empty"
		}
		return PollResult{TaskID: taskID, ImageURL: firstURL}, ""
	default:
		return PollResult{}, "data has neither status nor image_urls"
	}
}

// call signs and sends one action and returns the raw "data" member of the response.
func (c *Client) call(ctx context.Context, op, action string, payload any) (json.RawMessage, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("volcengine: encode %s request: %w", op, err)
	}
	query := map[string]string{"Action": action, "Version": apiVersion}
	headers, err := Sign(SignInput{
		Method:  http.MethodPost,
		Host:    c.endpoint.Host,
		URI:     "/",
		Query:   query,
		Body:    body,
		Region:  c.region,
		Service: c.service,
		Time:    c.now(),
	}, c.creds)
	if err != nil {
		return nil, 0, err
	}

	target := *c.endpoint
	target.Path = "/"
	target.RawQuery = CanonicalQuery(query)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("volcengine: build %s request: %w", op, err)
	}
	headers.Apply(httpReq.Header)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, &CallError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, &CallError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	c.logger.Debug().
		Str("action", action).
		Int("http_status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("volcengine: upstream responded")

	fields, err := decodeObject(raw)
	if err != nil {
		return nil, resp.StatusCode, &FormatError{Op: op, StatusCode: resp.StatusCode, Detail: "response is not a JSON object"}
	}
	data, ok := fields["data"]
	if !ok || isJSONNull(data) {
		return nil, resp.StatusCode, &FormatError{Op: op, StatusCode: resp.StatusCode, Detail: describeMissingData(fields)}
	}
	return data, resp.StatusCode, nil
}

func describeMissingData(fields map[string]json.RawMessage) string {
	detail := "response has no data object (keys: " + keyList(fields) + ")"
	if code, msg := upstreamError(fields); code != "" || msg != "" {
		detail += fmt.Sprintf("; upstream code=%s message=%q", code, msg)
	}
	return detail
}

// upstreamError extracts the code/message pair from either the task envelope
// or the gateway's ResponseMetadata.Error block.
func upstreamError(fields map[string]json.RawMessage) (string, string) {
	var meta struct {
		Error *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error"`
	}
	if raw, ok := fields["ResponseMetadata"]; ok && json.Unmarshal(raw, &meta) == nil && meta.Error != nil {
		return meta.Error.Code, meta.Error.Message
	}
	var msg string
	if raw, ok := fields["message"]; ok {
		_ = json.Unmarshal(raw, &msg)
	}
	code := ""
	if raw, ok := fields["code"]; ok {
		code = strings.Trim(string(raw), `"`)
	}
	return code, msg
}

func decodeObject(raw []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("null object")
	}
	return fields, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func keyList(fields map[string]json.RawMessage) string {
	if len(fields) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
