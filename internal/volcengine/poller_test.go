package volcengine

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedGetter struct {
	results []PollResult
	errs    []error
	calls   int
}

func (g *scriptedGetter) GetResult(ctx context.Context, taskID string) (PollResult, error) {
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return PollResult{}, g.errs[i]
	}
	if i >= len(g.results) {
		return g.results[len(g.results)-1], nil
	}
	return g.results[i], nil
}

func TestPollerWaitsUntilDone(t *testing.T) {
	getter := &scriptedGetter{results: []PollResult{
		{TaskID: "t", Status: StatusInQueue},
		{TaskID: "t", Status: StatusGenerating},
		{TaskID: "t", Status: StatusDone, ImageURL: "http://x/1.png"},
	}}
	var observed []string
	p := Poller{
		Getter:      getter,
		Interval:    time.Millisecond,
		MaxInterval: 2 * time.Millisecond,
		MaxAttempts: 10,
		OnStatus: func(attempt int, res PollResult) {
			observed = append(observed, res.Status)
		},
	}
	res, err := p.Wait(context.Background(), "t")
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if res.ImageURL != "http://x/1.png" {
		t.Fatalf("image url = %q", res.ImageURL)
	}
	if getter.calls != 3 {
		t.Fatalf("calls = %d, want 3", getter.calls)
	}
	if len(observed) != 3 || observed[2] != StatusDone {
		t.Fatalf("observed = %v", observed)
	}
}

func TestPollerStopsOnFailureStatus(t *testing.T) {
	getter := &scriptedGetter{results: []PollResult{
		{TaskID: "t", Status: StatusGenerating},
		{TaskID: "t", Status: StatusExpired},
	}}
	res, err := Poller{Getter: getter, Interval: time.Millisecond, MaxAttempts: 10}.Wait(context.Background(), "t")
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !res.Failed() {
		t.Fatalf("expected failed result, got %+v", res)
	}
	if getter.calls != 2 {
		t.Fatalf("calls = %d, want 2", getter.calls)
	}
}

func TestPollerExhaustsAttempts(t *testing.T) {
	getter := &scriptedGetter{results: []PollResult{{TaskID: "t", Status: StatusGenerating}}}
	res, err := Poller{Getter: getter, Interval: time.Millisecond, MaxAttempts: 3}.Wait(context.Background(), "t")
	if !errors.Is(err, ErrPollAttemptsExhausted) {
		t.Fatalf("err = %v, want ErrPollAttemptsExhausted", err)
	}
	if res.Status != StatusGenerating {
		t.Fatalf("last status = %q", res.Status)
	}
	if getter.calls != 3 {
		t.Fatalf("calls = %d, want 3", getter.calls)
	}
}

func TestPollerPropagatesErrors(t *testing.T) {
	boom := &FormatError{Op: "get result", Detail: "broken"}
	getter := &scriptedGetter{
		results: []PollResult{{TaskID: "t", Status: StatusGenerating}},
		errs:    []error{nil, boom},
	}
	_, err := Poller{Getter: getter, Interval: time.Millisecond, MaxAttempts: 5}.Wait(context.Background(), "t")
	if !errors.Is(err, ErrUpstreamFormat) {
		t.Fatalf("err = %v, want ErrUpstreamFormat", err)
	}
	if getter.calls != 2 {
		t.Fatalf("calls = %d, want 2", getter.calls)
	}
}

func TestPollerHonorsContext(t *testing.T) {
	getter := &scriptedGetter{results: []PollResult{{TaskID: "t", Status: StatusGenerating}}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Poller{Getter: getter, Interval: time.Hour, MaxAttempts: 5}.Wait(ctx, "t")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestPollerScheduleDoublesUntilCap(t *testing.T) {
	exp, attempts := Poller{Interval: 10 * time.Millisecond, MaxInterval: 50 * time.Millisecond, MaxAttempts: 7}.schedule()
	if attempts != 7 {
		t.Fatalf("attempts = %d, want 7", attempts)
	}
	want := []time.Duration{10, 20, 40, 50, 50}
	for i, w := range want {
		if got := exp.NextBackOff(); got != w*time.Millisecond {
			t.Fatalf("delay %d = %v, want %v", i, got, w*time.Millisecond)
		}
	}
}

func TestPollerScheduleDefaults(t *testing.T) {
	exp, attempts := Poller{}.schedule()
	if attempts != 60 {
		t.Fatalf("attempts = %d, want 60", attempts)
	}
	if exp.InitialInterval != 2*time.Second || exp.MaxInterval != 15*time.Second {
		t.Fatalf("intervals = %v/%v", exp.InitialInterval, exp.MaxInterval)
	}

	exp, _ = Poller{Interval: time.Minute, MaxInterval: time.Second}.schedule()
	if exp.MaxInterval != time.Minute {
		t.Fatalf("max interval below initial should be raised, got %v", exp.MaxInterval)
	}
}

func TestPollerSingleAttempt(t *testing.T) {
	getter := &scriptedGetter{results: []PollResult{{TaskID: "t", Status: StatusInQueue}}}
	_, err := Poller{Getter: getter, Interval: time.Millisecond, MaxAttempts: 1}.Wait(context.Background(), "t")
	if !errors.Is(err, ErrPollAttemptsExhausted) {
		t.Fatalf("err = %v, want ErrPollAttemptsExhausted", err)
	}
	if getter.calls != 1 {
		t.Fatalf("calls = %d, want 1", getter.calls)
	}
}

func TestPollResultStates(t *testing.T) {
	tests := []struct {
		res      PollResult
		done     bool
		terminal bool
		failed   bool
	}{
		{res: PollResult{ImageURL: "http://x"}, done: true, terminal: true},
		{res: PollResult{Status: StatusDone, ImageURL: "http://x"}, done: true, terminal: true},
		{res: PollResult{Status: StatusDone}, terminal: true, failed: true},
		{res: PollResult{Status: StatusNotFound}, terminal: true, failed: true},
		{res: PollResult{Status: StatusFailed}, terminal: true, failed: true},
		{res: PollResult{Status: StatusInQueue}},
		{res: PollResult{Status: "running"}},
	}
	for _, tc := range tests {
		if got := tc.res.Done(); got != tc.done {
			t.Fatalf("%+v Done() = %v", tc.res, got)
		}
		if got := tc.res.Terminal(); got != tc.terminal {
			t.Fatalf("%+v Terminal() = %v", tc.res, got)
		}
		if got := tc.res.Failed(); got != tc.failed {
			t.Fatalf("%+v Failed() = %v", tc.res, got)
		}
	}
}
