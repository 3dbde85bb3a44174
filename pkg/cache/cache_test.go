package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitOp(t *testing.T, op *Operation) {
	t.Helper()
	if op == nil {
		t.Fatal("expected an operation")
	}
	select {
	case <-op.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("operation did not settle")
	}
}

func TestReadStartsLoadAndSuspends(t *testing.T) {
	c := New()
	release := make(chan struct{})
	load := func(ctx context.Context) (any, error) {
		<-release
		return "value", nil
	}

	_, op, err := c.Read(context.Background(), "r", "k", load, true)
	s, ok := AsSuspension(err)
	if !ok {
		t.Fatalf("err = %v, want *Suspension", err)
	}
	if s.Op != op || s.Resource != "r" || s.Key != "k" {
		t.Errorf("unexpected suspension: %+v", s)
	}
	if got := c.Status("r", "k"); got != Pending {
		t.Errorf("status = %v, want pending", got)
	}

	close(release)
	waitOp(t, op)

	v, op2, err := c.Read(context.Background(), "r", "k", load, true)
	if err != nil || op2 != nil {
		t.Fatalf("Read after settle: op=%v err=%v", op2, err)
	}
	if v != "value" {
		t.Errorf("got %v, want %q", v, "value")
	}
	if got := c.Status("r", "k"); got != Resolved {
		t.Errorf("status = %v, want resolved", got)
	}
}

func TestReadWithoutSuspenseReturnsOperation(t *testing.T) {
	c := New()
	release := make(chan struct{})
	load := func(ctx context.Context) (any, error) {
		<-release
		return 1, nil
	}

	v, op, err := c.Read(context.Background(), "r", "k", load, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil || op == nil {
		t.Fatalf("got value=%v op=%v, want nil value and an operation", v, op)
	}
	close(release)
	got, err := op.Wait(context.Background())
	if err != nil || got != 1 {
		t.Errorf("Wait = %v, %v", got, err)
	}
}

func TestAtMostOneLoadInFlight(t *testing.T) {
	c := New()
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "x", nil
	}

	var wg sync.WaitGroup
	ops := make([]*Operation, 20)
	for i := range ops {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, op, _ := c.Read(context.Background(), "r", "same", load, true)
			ops[i] = op
		}(i)
	}
	wg.Wait()
	c.Preload(context.Background(), "r", "same", load)

	for _, op := range ops[1:] {
		if op != ops[0] {
			t.Fatal("concurrent reads returned different operations")
		}
	}
	close(release)
	waitOp(t, ops[0])

	if n := calls.Load(); n != 1 {
		t.Errorf("load called %d times, want 1", n)
	}
}

func TestRejectedReraisedOnEveryRead(t *testing.T) {
	c := New()
	boom := errors.New("boom")
	var calls atomic.Int32
	load := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	}

	_, op, _ := c.Read(context.Background(), "r", "k", load, true)
	waitOp(t, op)

	for i := 0; i < 3; i++ {
		_, _, err := c.Read(context.Background(), "r", "k", load, true)
		if !errors.Is(err, boom) {
			t.Fatalf("read %d: err = %v, want boom", i, err)
		}
		if _, _, err := c.Get("r", "k"); !errors.Is(err, boom) {
			t.Fatalf("get %d: err = %v, want boom", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("failed load retried %d times", calls.Load())
	}
	if got := c.Status("r", "k"); got != Rejected {
		t.Errorf("status = %v, want rejected", got)
	}
}

func TestGetNeverLoads(t *testing.T) {
	c := New()
	v, op, err := c.Get("r", "k")
	if v != nil || op != nil || err != nil {
		t.Errorf("Get on empty cache = %v, %v, %v", v, op, err)
	}
	if got := c.Status("r", "k"); got != Empty {
		t.Errorf("status = %v, want empty", got)
	}
}

func TestPreloadDoesNotSuspend(t *testing.T) {
	c := New()
	done := make(chan struct{})
	c.Preload(context.Background(), "r", "k", func(ctx context.Context) (any, error) {
		defer close(done)
		return "v", nil
	})
	<-done
	if err := c.Settle(context.Background()); err != nil {
		t.Fatal(err)
	}
	v, _, err := c.Get("r", "k")
	if err != nil || v != "v" {
		t.Errorf("Get = %v, %v", v, err)
	}
}

func TestLoadPanicBecomesRejection(t *testing.T) {
	c := New()
	_, op, _ := c.Read(context.Background(), "r", "k", func(ctx context.Context) (any, error) {
		panic("bad load")
	}, true)
	waitOp(t, op)

	_, _, err := c.Get("r", "k")
	if !errors.Is(err, ErrLoadPanic) {
		t.Fatalf("err = %v, want ErrLoadPanic", err)
	}
	if !strings.Contains(err.Error(), "bad load") {
		t.Errorf("panic value missing from %q", err)
	}
}

func TestLoadIgnoresCallerCancellation(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	_, op, _ := c.Read(ctx, "r", "k", func(ctx context.Context) (any, error) {
		<-release
		return "done", ctx.Err()
	}, true)
	cancel()
	close(release)
	waitOp(t, op)

	v, _, err := c.Get("r", "k")
	if err != nil || v != "done" {
		t.Errorf("Get = %v, %v; load should not see caller cancellation", v, err)
	}
}

func TestSettleWaitsForAllLoads(t *testing.T) {
	c := New()
	for _, key := range []string{"a", "b", "c"} {
		d := time.Duration(len(key)) * time.Millisecond
		c.Preload(context.Background(), "r", key, func(ctx context.Context) (any, error) {
			time.Sleep(d)
			return key, nil
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	if len(c.InFlight()) != 0 {
		t.Error("loads still in flight after Settle")
	}
}

func TestSettleHonoursContext(t *testing.T) {
	c := New()
	release := make(chan struct{})
	defer close(release)
	c.Preload(context.Background(), "r", "k", func(ctx context.Context) (any, error) {
		<-release
		return nil, nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := c.Settle(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	lookups  []Status
	started  int
	settled  int
	failures int
}

func (o *recordingObserver) Lookup(resource string, status Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups = append(o.lookups, status)
}

func (o *recordingObserver) LoadStarted(resource string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *recordingObserver) LoadSettled(resource string, d time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settled++
	if err != nil {
		o.failures++
	}
}

func TestObserverEvents(t *testing.T) {
	obs := &recordingObserver{}
	c := New(WithObserver(obs))

	_, op, _ := c.Read(context.Background(), "r", "k", func(ctx context.Context) (any, error) {
		return "v", nil
	}, true)
	waitOp(t, op)
	c.Get("r", "k")

	// LoadSettled runs after the operation is closed.
	deadline := time.Now().Add(time.Second)
	for {
		obs.mu.Lock()
		settled := obs.settled
		obs.mu.Unlock()
		if settled == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.started != 1 || obs.settled != 1 || obs.failures != 0 {
		t.Errorf("started=%d settled=%d failures=%d", obs.started, obs.settled, obs.failures)
	}
	if len(obs.lookups) != 2 || obs.lookups[0] != Empty || obs.lookups[1] != Resolved {
		t.Errorf("lookups = %v", obs.lookups)
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		Empty:      "empty",
		Pending:    "pending",
		Resolved:   "resolved",
		Rejected:   "rejected",
		Status(42): "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}
