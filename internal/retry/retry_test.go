package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fastPolicy(attempts int) Policy {
	timeouts := make([]time.Duration, attempts)
	for i := range timeouts {
		timeouts[i] = time.Second
	}
	return Policy{Timeouts: timeouts, Backoff: Linear(time.Millisecond)}
}

func TestDoSucceedsOnThirdAttempt(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context, attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("cold start")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoReturnsLastError(t *testing.T) {
	errs := []error{errors.New("first"), errors.New("second"), errors.New("third")}
	var calls int
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context, attempt int) error {
		calls++
		return errs[attempt-1]
	})
	if err == nil {
		t.Fatal("Do() error = nil, want error")
	}
	if !errors.Is(err, errs[2]) {
		t.Errorf("Do() error = %v, want it to wrap %v", err, errs[2])
	}
	if errors.Is(err, errs[0]) {
		t.Errorf("Do() error = %v, should not wrap the first error", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoAppliesPerAttemptTimeouts(t *testing.T) {
	p := Policy{Timeouts: []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 5 * time.Second}}

	var budgets []bool
	err := Do(context.Background(), p, func(ctx context.Context, attempt int) error {
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Fatalf("attempt %d has no deadline", attempt)
		}
		budgets = append(budgets, time.Until(deadline) <= p.Timeouts[attempt-1])
		if attempt < 3 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if diff := cmp.Diff([]bool{true, true, true}, budgets); diff != "" {
		t.Errorf("deadline within timeout per attempt (-want +got):\n%s", diff)
	}
}

func TestDoPrepareRunsOutsideAttemptTimeout(t *testing.T) {
	p := Policy{
		Timeouts: []time.Duration{50 * time.Millisecond},
		Prepare: func(ctx context.Context, attempt int) {
			if _, ok := ctx.Deadline(); ok {
				t.Errorf("prepare for attempt %d runs under a deadline", attempt)
			}
			time.Sleep(80 * time.Millisecond)
		},
	}

	err := Do(context.Background(), p, func(ctx context.Context, attempt int) error {
		// The attempt keeps its full budget after a slow prepare step.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestDoPrepareBeforeEveryAttempt(t *testing.T) {
	var prepared []int
	p := fastPolicy(3)
	p.Prepare = func(ctx context.Context, attempt int) {
		prepared = append(prepared, attempt)
	}

	_ = Do(context.Background(), p, func(ctx context.Context, attempt int) error {
		return errors.New("down")
	})

	if diff := cmp.Diff([]int{1, 2, 3}, prepared); diff != "" {
		t.Errorf("prepared attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestDoBackoffBetweenAttemptsOnly(t *testing.T) {
	var asked []int
	p := Policy{
		Timeouts: []time.Duration{time.Second, time.Second, time.Second},
		Backoff: func(attempt int) time.Duration {
			asked = append(asked, attempt)
			return 0
		},
	}

	_ = Do(context.Background(), p, func(ctx context.Context, attempt int) error {
		return errors.New("down")
	})

	if diff := cmp.Diff([]int{1, 2}, asked); diff != "" {
		t.Errorf("backoff attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestDoNotify(t *testing.T) {
	var notified []int
	p := fastPolicy(3)
	p.Notify = func(attempt int, err error) {
		notified = append(notified, attempt)
	}

	_ = Do(context.Background(), p, func(ctx context.Context, attempt int) error {
		if attempt == 2 {
			return nil
		}
		return errors.New("down")
	})

	if diff := cmp.Diff([]int{1}, notified); diff != "" {
		t.Errorf("notified attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestDoStopsOnParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		Timeouts: []time.Duration{time.Second, time.Second, time.Second},
		Backoff:  Linear(time.Hour),
	}

	var calls int
	err := Do(ctx, p, func(ctx context.Context, attempt int) error {
		calls++
		cancel()
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoWithoutAttempts(t *testing.T) {
	err := Do(context.Background(), Policy{}, func(ctx context.Context, attempt int) error {
		t.Fatal("op called for empty policy")
		return nil
	})
	if !errors.Is(err, ErrNoAttempts) {
		t.Errorf("Do() error = %v, want ErrNoAttempts", err)
	}
}

func TestLinear(t *testing.T) {
	b := Linear(1500 * time.Millisecond)
	want := []time.Duration{1500 * time.Millisecond, 3 * time.Second, 4500 * time.Millisecond}
	for i, w := range want {
		if got := b(i + 1); got != w {
			t.Errorf("Linear(1.5s)(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	want := []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second}
	if diff := cmp.Diff(want, p.Timeouts); diff != "" {
		t.Errorf("DefaultPolicy().Timeouts mismatch (-want +got):\n%s", diff)
	}
	if p.Attempts() != 3 {
		t.Errorf("Attempts() = %d, want 3", p.Attempts())
	}
	if got := p.Backoff(2); got != 3*time.Second {
		t.Errorf("Backoff(2) = %v, want 3s", got)
	}
}
