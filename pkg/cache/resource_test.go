package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestResourceKey(t *testing.T) {
	byID := NewResource("user", func(ctx context.Context, id int) (string, error) { return "", nil })
	if got := byID.Key(7); got != "7" {
		t.Errorf("Key(7) = %q", got)
	}

	text := NewResource("text", func(ctx context.Context, s string) (string, error) { return s, nil })
	if got := text.Key(""); got != NoKey {
		t.Errorf("empty key = %q, want %q", got, NoKey)
	}

	ptr := NewResource("ptr", func(ctx context.Context, p *int) (int, error) { return 0, nil })
	if got := ptr.Key(nil); got != NoKey {
		t.Errorf("nil key = %q, want %q", got, NoKey)
	}

	byTags := NewResource("tags", func(ctx context.Context, tags []string) (int, error) { return 0, nil })
	if got := byTags.Key(nil); got != NoKey {
		t.Errorf("nil slice key = %q, want %q", got, NoKey)
	}
	byFilter := NewResource("filter", func(ctx context.Context, f map[string]string) (int, error) { return 0, nil })
	if got := byFilter.Key(nil); got != NoKey {
		t.Errorf("nil map key = %q, want %q", got, NoKey)
	}
	one := 1
	if got := ptr.Key(&one); got == NoKey || got == "<nil>" {
		t.Errorf("non-nil pointer key = %q", got)
	}

	type query struct{ Page, Size int }
	hashed := NewResource("list", func(ctx context.Context, q query) ([]int, error) { return nil, nil }).
		WithHash(func(q query) string { return strconv.Itoa(q.Page) + ":" + strconv.Itoa(q.Size) })
	if got := hashed.Key(query{2, 10}); got != "2:10" {
		t.Errorf("hashed key = %q", got)
	}
}

func TestResourceOptionsReturnCopies(t *testing.T) {
	base := NewResource("r", func(ctx context.Context, k string) (int, error) { return 1, nil })
	lazy := base.WithoutSuspense()
	if !base.Suspends() {
		t.Error("WithoutSuspense mutated the original resource")
	}
	if lazy.Suspends() {
		t.Error("WithoutSuspense copy still suspends")
	}
	if lazy.Name() != "r" {
		t.Errorf("Name = %q", lazy.Name())
	}
}

func TestResourceReadTyped(t *testing.T) {
	c := New()
	double := NewResource("double", func(ctx context.Context, n int) (int, error) { return n * 2, nil })

	_, op, err := double.Read(context.Background(), c, 21)
	if !IsSuspension(err) {
		t.Fatalf("err = %v, want suspension", err)
	}
	waitOp(t, op)

	got, _, err := double.Read(context.Background(), c, 21)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if v, _, _ := double.Get(c, 21); v != 42 {
		t.Errorf("Get = %d", v)
	}
}

func TestResourceTimeout(t *testing.T) {
	c := New()
	slow := NewResource("slow", func(ctx context.Context, _ string) (string, error) {
		time.Sleep(200 * time.Millisecond)
		return "late", nil
	}).WithTimeout(10 * time.Millisecond)

	_, op, _ := slow.Read(context.Background(), c, "k")
	waitOp(t, op)
	_, _, err := slow.Get(c, "k")
	if !errors.Is(err, ErrLoadTimeout) {
		t.Errorf("err = %v, want ErrLoadTimeout", err)
	}
}

func TestResourceTimeoutNotTriggered(t *testing.T) {
	c := New()
	fast := NewResource("fast", func(ctx context.Context, _ string) (string, error) {
		return "ok", nil
	}).WithTimeout(time.Second)

	fast.Preload(context.Background(), c, "k")
	settled(t, c)
	v, _, err := fast.Get(c, "k")
	if err != nil || v != "ok" {
		t.Errorf("Get = %q, %v", v, err)
	}
}

func TestResourceDecodeMismatch(t *testing.T) {
	c, err := NewFromData(`{"n":{"NO_KEY":{"status":2,"value":"text","error":null}}}`)
	if err != nil {
		t.Fatal(err)
	}
	n := NewResource("n", func(ctx context.Context, _ string) (int, error) { return 0, nil })
	if _, _, err := n.Get(c, ""); err == nil {
		t.Error("expected decode error for string into int")
	}
}

func TestResourceUseReadsCacheFromContext(t *testing.T) {
	r := NewResource("r", func(ctx context.Context, _ string) (string, error) { return "v", nil })
	if _, _, err := r.Use(context.Background(), ""); !errors.Is(err, ErrNoCache) {
		t.Fatalf("err = %v, want ErrNoCache", err)
	}

	c := New()
	ctx := NewContext(context.Background(), c)
	_, op, err := r.Use(ctx, "")
	if !IsSuspension(err) {
		t.Fatalf("err = %v, want suspension", err)
	}
	waitOp(t, op)
	v, _, err := r.Use(ctx, "")
	if err != nil || v != "v" {
		t.Errorf("Use = %q, %v", v, err)
	}
	if got, ok := FromContext(ctx); !ok || got != c {
		t.Error("FromContext did not return the stored cache")
	}
}
