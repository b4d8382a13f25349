package volcengine

// Task statuses reported by CVSync2AsyncGetResult.
const (
	StatusInQueue    = "in_queue"
	StatusGenerating = "generating"
	StatusDone       = "done"
	StatusNotFound   = "not_found"
	StatusExpired    = "expired"
	StatusFailed     = "failed"
)

// PollResult is the normalized outcome of one poll: either a finished image
// (ImageURL set) or a status update for the caller to act on.
type PollResult struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Done reports whether the task produced an image.
func (r PollResult) Done() bool {
	return r.ImageURL != ""
}

// Terminal reports whether polling again cannot change the outcome.
func (r PollResult) Terminal() bool {
	if r.Done() {
		return true
	}
	switch r.Status {
	case StatusDone, StatusNotFound, StatusExpired, StatusFailed:
		return true
	}
	return false
}

// Failed reports a terminal status without an image. A "done" status that
// carries no URL counts as failed.
func (r PollResult) Failed() bool {
	return !r.Done() && r.Terminal()
}
